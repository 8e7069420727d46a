// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it creates concrete implementations
// (record store, Gemini client, analysis runner) and injects them into
// the tools and prompts that depend on abstractions. No business logic
// lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/Timofejjj/healthai/internal/analysis"
	"github.com/Timofejjj/healthai/internal/config"
	"github.com/Timofejjj/healthai/internal/generate"
	"github.com/Timofejjj/healthai/internal/prompts"
	"github.com/Timofejjj/healthai/internal/record"
	"github.com/Timofejjj/healthai/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools and prompts
// registered, reading configuration from the environment.
//
// The returned cleanup function closes the record store and must be
// called on shutdown (typically via defer). It is always non-nil.
func New() (*server.MCPServer, func(), error) {
	cfg := config.FromEnv()

	store, err := record.OpenSQLite(cfg.DataDir)
	if err != nil {
		return nil, noop, fmt.Errorf("opening record store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("WARNING: record store close: %v", err)
		}
	}

	loc := analysis.DefaultLocation(cfg.Timezone)

	s := server.NewMCPServer(
		"healthai",
		Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Generation-backed pieces ---
	//
	// Without an API key the capture tools keep working; run_analysis
	// is registered in a disabled state that explains how to enable it,
	// and task-name normalization quietly turns off.

	var runner *analysis.Runner
	var normalizer *analysis.Normalizer
	if cfg.GeminiAPIKey == "" {
		log.Printf("WARNING: GEMINI_API_KEY not set: analysis disabled, capture tools active")
	} else {
		gen := generate.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		runner = analysis.NewRunner(store, gen, loc, cfg.GenerateTimeout)
		normalizer = analysis.NewNormalizer(gen)
	}

	// --- Register capture tools ---

	thoughtTool := tools.NewThoughtTool(store)
	s.AddTool(thoughtTool.Definition(), thoughtTool.Handle)

	timerTool := tools.NewTimerTool(store, normalizer, loc)
	s.AddTool(timerTool.Definition(), timerTool.Handle)

	sportTool := tools.NewSportTool(store, loc)
	s.AddTool(sportTool.Definition(), sportTool.Handle)

	// --- Register analysis & retrieval tools ---

	analyzeTool := tools.NewAnalyzeTool(runner)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	historyTool := tools.NewHistoryTool(store, loc)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	listAnalysesTool := tools.NewListAnalysesTool(store)
	s.AddTool(listAnalysesTool.Definition(), listAnalysesTool.Handle)

	statsTool := tools.NewStatsTool(store)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Register prompts ---

	reflectPrompt := prompts.NewReflectPrompt()
	s.AddPrompt(reflectPrompt.Definition(), reflectPrompt.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the journal effectively.
func serverInstructions() string {
	return `You have access to HealthAI, a personal life-logging and reflection server.

## WHEN TO USE IT

- When the user shares a thought, worry, idea or observation about their life,
  offer to save it with log_thought (keep their wording).
- When the user mentions finishing a focused work block, a break, or a workout,
  record it with log_timer_session or log_sport_session.
- When the user asks how they have been doing, wants a summary, or says
  "analyze", call run_analysis. Entries are analyzed exactly once: if the tool
  reports nothing new, tell the user that instead of inventing an analysis.

## GROUND RULES

- Always pass the same owner_id for the same user.
- Never fabricate journal content; only log what the user actually said.
- Reports come from the user's own entries. Present them with care - they can
  touch on the user's emotional state.`
}
