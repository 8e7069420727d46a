package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/Timofejjj/healthai/internal/record"
	"github.com/mark3labs/mcp-go/mcp"
)

// ThoughtTool handles the log_thought MCP tool.
type ThoughtTool struct {
	store record.Store
}

// NewThoughtTool creates a ThoughtTool with the given record store.
func NewThoughtTool(store record.Store) *ThoughtTool {
	return &ThoughtTool{store: store}
}

// Definition returns the MCP tool definition for log_thought.
func (t *ThoughtTool) Definition() mcp.Tool {
	return mcp.NewTool("log_thought",
		mcp.WithDescription(
			"Record a free-text thought, reflection or worry in the user's journal. "+
				"Capture the user's own words — these entries feed the next cognitive analysis.",
		),
		mcp.WithString("owner_id",
			mcp.Required(),
			mcp.Description("Identifier of the user the thought belongs to"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The thought, verbatim"),
		),
	)
}

// Handle processes the log_thought tool call.
func (t *ThoughtTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := ownerID(req)
	text := req.GetString("text", "")

	if owner == "" {
		return mcp.NewToolResultError("'owner_id' is required"), nil
	}
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	row := record.Row{
		"timestamp": timeNow().UTC().Format(time.RFC3339),
		"text":      text,
	}
	if err := t.store.Append(ctx, owner, record.KindThought, row); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save thought: %v", err)), nil
	}

	return mcp.NewToolResultText("Thought saved. Run run_analysis when you want a fresh report."), nil
}
