// Package server exposes the story pipeline over HTTP.
package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// SetupRouter builds the gin engine with middleware and routes. mcp, when set, is
// mounted at /mcp.
func SetupRouter(cfg types.ServerConfig, handler *Handler, mcp http.Handler) *gin.Engine {
	router := gin.New()

	// Recovery must be first
	router.Use(RecoverWithSentry())
	router.Use(SentryMiddleware())
	router.Use(RequestTracking())
	router.Use(CORS())

	base := router.Group(strings.TrimRight(cfg.BasePath, "/"))
	base.GET("/health", handler.Health)

	limited := base.Group("")
	limited.Use(RateLimit(cfg.RateLimit, cfg.RateBurst))
	{
		limited.GET("/get_llm_answer", handler.LegacyAnswer)
		limited.POST("/generate", handler.Generate)
		limited.POST("/check_facts", handler.CheckFacts)
		if mcp != nil {
			limited.Any("/mcp", gin.WrapH(mcp))
		}
	}

	return router
}
