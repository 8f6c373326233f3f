package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zhe.chen/agent-letter-story/internal/app"
	"github.com/zhe.chen/agent-letter-story/internal/mcpserver"
	"github.com/zhe.chen/agent-letter-story/internal/server"
)

const (
	release         = "agent-letter-story@1.0.0"
	shutdownTimeout = 15 * time.Second
)

func main() {
	app.LoadEnv()

	configPath := flag.String("config", "configs/agent.yaml", "Path to configuration file")
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	flush, err := app.InitSentry(config, release)
	if err != nil {
		log.Fatalf("Failed to initialize error reporting: %v", err)
	}
	defer flush()

	fatalf := app.Fatalf(flush)

	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	pipe, err := app.BuildPipeline(config)
	if err != nil {
		fatalf("Failed to build pipeline: %v", err)
	}

	router := server.SetupRouter(
		config.Server,
		server.NewHandler(pipe, config.Pipeline.DefaultMusic),
		mcpserver.HTTPHandler(pipe),
	)
	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Listening on %s (base path %q)", srv.Addr, config.Server.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatalf("Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Received interrupt signal, shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
