package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Timofejjj/healthai/internal/record"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsStore is the aggregate-counting surface of the record store,
// beyond the append/query contract the core needs.
type StatsStore interface {
	Counts(ctx context.Context, ownerID string) (map[string]int, error)
	Owners(ctx context.Context) ([]string, error)
}

// StatsTool handles the stats MCP tool.
type StatsTool struct {
	store StatsStore
}

// NewStatsTool creates a StatsTool with the given store.
func NewStatsTool(store StatsStore) *StatsTool {
	return &StatsTool{store: store}
}

// Definition returns the MCP tool definition for stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription(
			"Show journal statistics: per-kind entry counts for one user, or the tracked users.",
		),
		mcp.WithString("owner_id",
			mcp.Description("User to count entries for; omit to list tracked users"),
		),
	)
}

// Handle processes the stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := ownerID(req)

	if owner == "" {
		owners, err := t.store.Owners(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
		}
		if len(owners) == 0 {
			return mcp.NewToolResultText("No entries recorded yet."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Tracked users (%d): %s", len(owners), strings.Join(owners, ", "),
		)), nil
	}

	counts, err := t.store.Counts(ctx, owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Journal statistics for %s\n\n", owner))
	sb.WriteString(fmt.Sprintf("- **Thoughts**: %d\n", counts[record.KindThought]))
	sb.WriteString(fmt.Sprintf("- **Timer sessions**: %d\n", counts[record.KindTimerSession]))
	sb.WriteString(fmt.Sprintf("- **Sport sessions**: %d\n", counts[record.KindSportSession]))
	sb.WriteString(fmt.Sprintf("- **Analyses**: %d\n", counts[record.KindAnalysis]))
	return mcp.NewToolResultText(sb.String()), nil
}
