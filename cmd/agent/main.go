package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/zhe.chen/agent-letter-story/internal/app"
	"github.com/zhe.chen/agent-letter-story/internal/mcpserver"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

const release = "agent-letter-story@1.0.0"

func main() {
	app.LoadEnv()

	// Parse command-line flags
	var (
		configPath = flag.String("config", "configs/agent.yaml", "Path to configuration file")
		query      = flag.String("query", "", "Your request (e.g., 'Сделай грустную историю о потерянной любви')")
		letterPath = flag.String("letter", "", "Path to a text file with the letter")
		letterID   = flag.String("letter-id", "", "Letter id in the archive (used when --letter is empty)")
		wantMusic  = flag.Bool("music", false, "Also generate a song")
		noLyrics   = flag.Bool("no-lyrics", false, "Generate an instrumental song")
		checkFacts = flag.String("check-facts", "", "Path to a story file to fact-check instead of generating")
		mcpMode    = flag.Bool("mcp", false, "Serve generate_story and check_facts as MCP tools over stdio")
	)
	flag.Parse()

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
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

	pipe, err := app.BuildPipeline(config)
	if err != nil {
		fatalf("Failed to build pipeline: %v", err)
	}

	if *mcpMode {
		// stdout belongs to the protocol
		log.SetOutput(os.Stderr)
		log.Println("Serving MCP tools over stdio")
		if err := mcpserver.Serve(pipe); err != nil {
			fatalf("MCP server stopped: %v", err)
		}
		return
	}

	if *checkFacts != "" {
		story, err := os.ReadFile(*checkFacts)
		if err != nil {
			fatalf("Failed to read story: %v", err)
		}
		verdict, err := pipe.CheckFacts(ctx, string(story))
		if err != nil {
			fatalf("Fact check failed: %v", err)
		}
		printJSON(verdict)
		return
	}

	req := types.GenerationRequest{
		LetterID:   *letterID,
		WantMusic:  *wantMusic,
		OmitLyrics: *noLyrics,
	}
	if *query != "" {
		req.Query = query
	}
	if *letterPath != "" {
		data, err := os.ReadFile(*letterPath)
		if err != nil {
			fatalf("Failed to read letter: %v", err)
		}
		req.Letter = types.StringPtr(string(data))
	}

	requestID := uuid.NewString()
	log.Printf("Starting agent-letter-story")
	log.Printf("Request ID: %s", requestID)
	log.Printf("Music: %t (lyrics: %t)", req.WantMusic, !req.OmitLyrics)

	result, manifest, err := pipe.ExecuteTraced(ctx, req, requestID)
	if err != nil {
		if manifest != nil {
			log.Printf("Stages: %s", manifest.Summary())
		}
		if types.IsUserError(err) {
			fatalf("Request rejected: %s", types.MessageOf(err))
		}
		fatalf("Pipeline execution failed: %v", err)
	}

	log.Println("=== Pipeline Completed Successfully ===")
	log.Printf("Tone (%s): %s", manifest.ToneSource, manifest.Tones)
	log.Printf("Stages: %s", manifest.Summary())
	printJSON(result)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		os.Exit(1)
	}
}
