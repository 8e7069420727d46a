// HealthAI: personal life-logging and reflection MCP server.
//
// Users log thoughts, timed work/rest sessions and sport activity
// through any MCP-capable AI assistant; run_analysis turns everything
// recorded since the previous report into a fresh cognitive analysis.
//
// Usage:
//
//	healthai serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appserver "github.com/Timofejjj/healthai/internal/server"
	"github.com/Timofejjj/healthai/internal/updater"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("healthai v%s\n", appserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := appserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	// The stdio server manages its own lifecycle; the signal handler
	// just makes Ctrl+C exit cleanly through the deferred cleanup.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(0)
	}()

	return server.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Network failures are silently
// ignored — this is best-effort.
func checkForUpdates() {
	result := updater.CheckVersion(appserver.Version)
	if result != nil && result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"A new healthai version is available: v%s (running v%s)\n  %s\n",
			result.LatestVersion, result.CurrentVersion, result.ReleaseURL)
	}
}

func printUsage() {
	fmt.Printf(`healthai v%s — personal life-logging and reflection MCP server

Usage:
  healthai serve    Start the MCP server (stdio transport)

Configuration (environment):
  GEMINI_API_KEY              enables run_analysis and task deduplication
  HEALTHAI_DATA_DIR           record store location (default ~/.healthai)
  HEALTHAI_MODEL              generative model (default gemini-1.5-flash-latest)
  HEALTHAI_TZ                 zone for wall-clock entries (default Europe/Moscow)
  HEALTHAI_GENERATE_TIMEOUT   bound on one generation call (default 2m)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "healthai": {
        "command": "healthai",
        "args": ["serve"]
      }
    }
  }
`, appserver.Version)
}
