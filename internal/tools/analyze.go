package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Timofejjj/healthai/internal/analysis"
	"github.com/Timofejjj/healthai/internal/record"
	"github.com/mark3labs/mcp-go/mcp"
)

// AnalyzeTool handles the run_analysis MCP tool.
type AnalyzeTool struct {
	runner *analysis.Runner
}

// NewAnalyzeTool creates an AnalyzeTool. runner may be nil when no
// generation API key is configured; the tool then explains how to
// enable analysis instead of failing opaquely.
func NewAnalyzeTool(runner *analysis.Runner) *AnalyzeTool {
	return &AnalyzeTool{runner: runner}
}

// Definition returns the MCP tool definition for run_analysis.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("run_analysis",
		mcp.WithDescription(
			"Generate a cognitive-analysis report over the user's journal entries recorded "+
				"since the previous report. Each entry is analyzed once; with nothing new to "+
				"cover, the tool says so instead of producing a duplicate report.",
		),
		mcp.WithString("owner_id",
			mcp.Required(),
			mcp.Description("Identifier of the user to analyze"),
		),
	)
}

// Handle processes the run_analysis tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := ownerID(req)
	if owner == "" {
		return mcp.NewToolResultError("'owner_id' is required"), nil
	}
	if t.runner == nil {
		return mcp.NewToolResultError(
			"analysis is disabled: set GEMINI_API_KEY and restart the server",
		), nil
	}

	out, err := t.runner.Analyze(ctx, owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	switch out.Status {
	case analysis.StatusNothingNew:
		msg := "Nothing new to analyze — every recorded entry is already covered by a previous report."
		if out.Skipped > 0 {
			msg += fmt.Sprintf(" (%d entries had unreadable timestamps and were not considered.)", out.Skipped)
		}
		return mcp.NewToolResultText(msg), nil

	case analysis.StatusReport:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("## Analysis %s\n\n", out.AnalysisID))
		sb.WriteString(fmt.Sprintf("Covers entries through %s. New entries: %s.\n\n",
			out.CoversUntil.Format("2006-01-02 15:04 MST"), summarizeCounts(out.NewEvents)))
		if out.Skipped > 0 {
			sb.WriteString(fmt.Sprintf("%d entries had unreadable timestamps and were excluded.\n\n", out.Skipped))
		}
		sb.WriteString(out.Report)
		if out.ReceiptErr != nil {
			sb.WriteString("\n\n---\nWARNING: the report could not be saved to history; ")
			sb.WriteString("a future run_analysis may cover these entries again.")
		}
		return mcp.NewToolResultText(sb.String()), nil

	default:
		return mcp.NewToolResultError(fmt.Sprintf("unexpected analysis status %q", out.Status)), nil
	}
}

func summarizeCounts(counts map[string]int) string {
	labels := []struct{ kind, label string }{
		{record.KindThought, "thoughts"},
		{record.KindTimerSession, "timer sessions"},
		{record.KindSportSession, "sport sessions"},
	}
	var parts []string
	for _, l := range labels {
		if n := counts[l.kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, l.label))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
