// Package mcpserver exposes the story pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zhe.chen/agent-letter-story/internal/logger"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

const (
	serverName    = "agent-letter-story"
	serverVersion = "1.0.0"
)

// Generator is the pipeline surface the tools need
type Generator interface {
	Execute(ctx context.Context, req types.GenerationRequest, requestID string) (*types.GenerationResult, error)
	CheckFacts(ctx context.Context, story string) (types.FactVerdict, error)
}

// Tools holds the tool handlers
type Tools struct {
	generator Generator
}

// New builds an MCP server with the generate_story and check_facts tools
func New(generator Generator) *server.MCPServer {
	t := &Tools{generator: generator}
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("generate_story",
		mcp.WithDescription("Write a story based on a wartime letter (1941-1945) and/or a user request, illustrate it and optionally set it to music"),
		mcp.WithString("query", mcp.Description("What the story should be about or how it should feel")),
		mcp.WithString("letter", mcp.Description("Full text of the wartime letter")),
		mcp.WithString("letter_id", mcp.Description("Id of a letter in the archive, used when letter is empty")),
		mcp.WithBoolean("want_music", mcp.Description("Also generate a song for the story")),
		mcp.WithBoolean("omit_lyrics", mcp.Description("Generate an instrumental track without lyrics")),
	), t.GenerateStory)

	s.AddTool(mcp.NewTool("check_facts",
		mcp.WithDescription("Check the historical facts of a generated story"),
		mcp.WithString("history", mcp.Required(), mcp.Description("Story text to check")),
	), t.CheckFacts)

	return s
}

// Serve runs the server on stdin/stdout until it is closed
func Serve(generator Generator) error {
	return server.ServeStdio(New(generator))
}

// HTTPHandler serves the same tools over streamable HTTP
func HTTPHandler(generator Generator) http.Handler {
	return server.NewStreamableHTTPServer(New(generator), server.WithStateLess(true))
}

// GenerateStory handles the generate_story tool
func (t *Tools) GenerateStory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := types.GenerationRequest{
		Query:      optional(request.GetString("query", "")),
		Letter:     optional(request.GetString("letter", "")),
		LetterID:   strings.TrimSpace(request.GetString("letter_id", "")),
		WantMusic:  request.GetBool("want_music", false),
		OmitLyrics: request.GetBool("omit_lyrics", false),
	}

	requestID := uuid.NewString()
	result, err := t.generator.Execute(ctx, req, requestID)
	if err != nil {
		return toolError(err, requestID), nil
	}
	return jsonResult(result)
}

// CheckFacts handles the check_facts tool
func (t *Tools) CheckFacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := request.RequireString("history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	verdict, err := t.generator.CheckFacts(ctx, history)
	if err != nil {
		return toolError(err, ""), nil
	}
	return jsonResult(verdict)
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError reports user errors verbatim and hides backend causes
func toolError(err error, requestID string) *mcp.CallToolResult {
	if types.IsUserError(err) {
		return mcp.NewToolResultError(types.MessageOf(err))
	}
	logger.Error("MCP tool failed", err, logger.Fields{"request_id": requestID})
	if types.MessageOf(err) == types.MsgTimedOut {
		return mcp.NewToolResultError(types.MsgTimedOut)
	}
	return mcp.NewToolResultError(types.MsgTryAgainLater)
}
