package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

type fakeGenerator struct {
	lastReq types.GenerationRequest
	result  *types.GenerationResult
	verdict types.FactVerdict
	err     error
}

func (f *fakeGenerator) Execute(_ context.Context, req types.GenerationRequest, _ string) (*types.GenerationResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeGenerator) CheckFacts(context.Context, string) (types.FactVerdict, error) {
	return f.verdict, f.err
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGenerateStory(t *testing.T) {
	gen := &fakeGenerator{result: &types.GenerationResult{History: "История", ImageURL: "https://img/1.png", MusicURL: "https://m/1.mp3"}}
	tools := &Tools{generator: gen}

	res, err := tools.GenerateStory(context.Background(), call(map[string]any{
		"query":      "Сделай грустную историю",
		"letter":     "",
		"want_music": true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var out types.GenerationResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, *gen.result, out)

	require.NotNil(t, gen.lastReq.Query)
	assert.Nil(t, gen.lastReq.Letter)
	assert.True(t, gen.lastReq.WantMusic)
	assert.False(t, gen.lastReq.OmitLyrics)
}

func TestGenerateStory_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"user error", types.NewUserError(types.MsgEmptyRequest), types.MsgEmptyRequest},
		{"unavailable", types.NewUnavailable(types.MsgStoryFailed, errors.New("secret")), types.MsgTryAgainLater},
		{"timed out", types.NewUnavailable(types.MsgTimedOut, context.DeadlineExceeded), types.MsgTimedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := &Tools{generator: &fakeGenerator{err: tt.err}}

			res, err := tools.GenerateStory(context.Background(), call(map[string]any{}))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Equal(t, tt.want, resultText(t, res))
		})
	}
}

func TestCheckFacts(t *testing.T) {
	tools := &Tools{generator: &fakeGenerator{verdict: types.FactVerdict{Status: types.FactsNeedsReview, Details: "1939"}}}

	res, err := tools.CheckFacts(context.Background(), call(map[string]any{"history": "История"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"status":"needs_review","details":"1939"}`, resultText(t, res))

	res, err = tools.CheckFacts(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNew_RegistersTools(t *testing.T) {
	s := New(&fakeGenerator{})
	require.NotNil(t, s)
}
