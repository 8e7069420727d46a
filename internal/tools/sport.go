package tools

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Timofejjj/healthai/internal/record"
	"github.com/mark3labs/mcp-go/mcp"
)

// SportTool handles the log_sport_session MCP tool.
type SportTool struct {
	store record.Store
	loc   *time.Location
}

// NewSportTool creates a SportTool with the given record store.
func NewSportTool(store record.Store, loc *time.Location) *SportTool {
	return &SportTool{store: store, loc: loc}
}

// Definition returns the MCP tool definition for log_sport_session.
func (t *SportTool) Definition() mcp.Tool {
	return mcp.NewTool("log_sport_session",
		mcp.WithDescription(
			"Record a sport activity: what, when, where, and how the user felt.",
		),
		mcp.WithString("owner_id",
			mcp.Required(),
			mcp.Description("Identifier of the user"),
		),
		mcp.WithString("activity",
			mcp.Required(),
			mcp.Description("Activity name (run, swim, gym, ...)"),
		),
		mcp.WithString("start_time",
			mcp.Description("Local wall-clock start, '2006-01-02 15:04:05' (default: now)"),
		),
		mcp.WithNumber("duration_seconds",
			mcp.Description("Activity length in seconds"),
		),
		mcp.WithString("location",
			mcp.Description("Where it happened"),
		),
		mcp.WithString("state",
			mcp.Description("Subjective state tags, e.g. 'tired, satisfied'"),
		),
	)
}

// Handle processes the log_sport_session tool call.
func (t *SportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := ownerID(req)
	activity := req.GetString("activity", "")

	if owner == "" {
		return mcp.NewToolResultError("'owner_id' is required"), nil
	}
	if activity == "" {
		return mcp.NewToolResultError("'activity' is required"), nil
	}

	startTime := req.GetString("start_time", "")
	if startTime == "" {
		startTime = timeNow().In(t.loc).Format(naiveLayout)
	}

	row := record.Row{
		"start_time": startTime,
		"activity":   activity,
	}
	if dur := intArg(req, "duration_seconds", 0); dur > 0 {
		row["duration_seconds"] = strconv.Itoa(dur)
	}
	if loc := req.GetString("location", ""); loc != "" {
		row["location"] = loc
	}
	if state := req.GetString("state", ""); state != "" {
		row["state"] = state
	}

	if err := t.store.Append(ctx, owner, record.KindSportSession, row); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save activity: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Sport activity %q saved (started %s).", activity, startTime)), nil
}
