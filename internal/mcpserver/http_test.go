package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// connect starts an MCP client against srv over streamable HTTP
func connect(t *testing.T, ctx context.Context, url string) *client.Client {
	t.Helper()

	httpTransport, err := transport.NewStreamableHTTP(url)
	require.NoError(t, err)

	mcpClient := client.NewClient(httpTransport)
	require.NoError(t, mcpClient.Start(ctx))
	t.Cleanup(func() { _ = mcpClient.Close() })

	initResult, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, serverName, initResult.ServerInfo.Name)
	return mcpClient
}

func TestHTTPHandler_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gen := &fakeGenerator{result: &types.GenerationResult{History: "История", ImageURL: "https://img/1.png"}}
	srv := httptest.NewServer(HTTPHandler(gen))
	defer srv.Close()

	mcpClient := connect(t, ctx, srv.URL)

	tools, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"generate_story", "check_facts"}, names)

	res, err := mcpClient.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "generate_story",
			Arguments: map[string]any{"letter": "Дорогая мама!"},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out types.GenerationResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "История", out.History)
	require.NotNil(t, gen.lastReq.Letter)
	assert.Nil(t, gen.lastReq.Query)
}
