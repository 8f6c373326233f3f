package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zhe.chen/agent-letter-story/internal/logger"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// Generator is the pipeline surface the handlers need
type Generator interface {
	Execute(ctx context.Context, req types.GenerationRequest, requestID string) (*types.GenerationResult, error)
	CheckFacts(ctx context.Context, story string) (types.FactVerdict, error)
}

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Query      *string `json:"query"`
	Letter     *string `json:"letter"`
	LetterID   string  `json:"letter_id"`
	WantMusic  bool    `json:"want_music"`
	OmitLyrics bool    `json:"omit_lyrics"`
}

// CheckFactsRequest is the body of POST /check_facts
type CheckFactsRequest struct {
	History string `json:"history" binding:"required"`
}

// CheckFactsResponse keeps the good/bad wire format of the fact-check route
type CheckFactsResponse struct {
	Status   string  `json:"status"`
	ForCheck *string `json:"for_check"`
}

// Handler serves the story routes
type Handler struct {
	generator    Generator
	defaultMusic bool
}

// NewHandler creates a handler around generator
func NewHandler(generator Generator, defaultMusic bool) *Handler {
	return &Handler{generator: generator, defaultMusic: defaultMusic}
}

// Health returns the liveness status
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LegacyAnswer serves GET /get_llm_answer?prompt=...
func (h *Handler) LegacyAnswer(c *gin.Context) {
	prompt, ok := c.GetQuery("prompt")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt query parameter is required"})
		return
	}

	req := types.GenerationRequest{Query: &prompt, WantMusic: h.defaultMusic}
	result, err := h.generator.Execute(c.Request.Context(), normalize(req), c.GetString(requestIDKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ai_answer": result})
}

// Generate serves POST /generate
func (h *Handler) Generate(c *gin.Context) {
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := types.GenerationRequest{
		Query:      body.Query,
		Letter:     body.Letter,
		LetterID:   strings.TrimSpace(body.LetterID),
		WantMusic:  body.WantMusic,
		OmitLyrics: body.OmitLyrics,
	}
	result, err := h.generator.Execute(c.Request.Context(), normalize(req), c.GetString(requestIDKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckFacts serves POST /check_facts
func (h *Handler) CheckFacts(c *gin.Context) {
	var body CheckFactsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verdict, err := h.generator.CheckFacts(c.Request.Context(), body.History)
	if err != nil {
		h.fail(c, err)
		return
	}

	if verdict.Verified() {
		c.JSON(http.StatusOK, CheckFactsResponse{Status: "good"})
		return
	}
	details := verdict.Details
	c.JSON(http.StatusOK, CheckFactsResponse{Status: "bad", ForCheck: &details})
}

// fail maps the error taxonomy onto HTTP. Causes of unavailable errors are only logged.
func (h *Handler) fail(c *gin.Context, err error) {
	fields := logger.WithContext(c)

	switch {
	case types.IsUserError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": types.MessageOf(err)})
	case types.MessageOf(err) == types.MsgTimedOut:
		logger.Error("Generation timed out", err, fields)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": types.MsgTimedOut})
	default:
		logger.Error("Generation failed", err, fields)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": types.MsgTryAgainLater})
	}
}

// normalize treats blank query or letter text as absent
func normalize(req types.GenerationRequest) types.GenerationRequest {
	if req.Query != nil && strings.TrimSpace(*req.Query) == "" {
		req.Query = nil
	}
	if req.Letter != nil && strings.TrimSpace(*req.Letter) == "" {
		req.Letter = nil
	}
	return req
}
