package tools

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Timofejjj/healthai/internal/analysis"
	"github.com/Timofejjj/healthai/internal/record"
	"github.com/mark3labs/mcp-go/mcp"
)

// naiveLayout is the wall-clock encoding the timer and sport capture
// paths write, interpreted in the fixed local zone at analysis time.
const naiveLayout = "2006-01-02 15:04:05"

// TimerTool handles the log_timer_session MCP tool.
type TimerTool struct {
	store record.Store
	norm  *analysis.Normalizer
	loc   *time.Location
}

// NewTimerTool creates a TimerTool. norm may be nil, in which case task
// names are stored as typed.
func NewTimerTool(store record.Store, norm *analysis.Normalizer, loc *time.Location) *TimerTool {
	return &TimerTool{store: store, norm: norm, loc: loc}
}

// Definition returns the MCP tool definition for log_timer_session.
func (t *TimerTool) Definition() mcp.Tool {
	return mcp.NewTool("log_timer_session",
		mcp.WithDescription(
			"Record a completed timed work or rest session. Task names are deduplicated "+
				"against the user's existing tasks so 'deep wrok' and 'Deep Work' land in one bucket.",
		),
		mcp.WithString("owner_id",
			mcp.Required(),
			mcp.Description("Identifier of the user"),
		),
		mcp.WithString("task_name",
			mcp.Required(),
			mcp.Description("What the session was spent on"),
		),
		mcp.WithString("start_time",
			mcp.Description("Local wall-clock start, '2006-01-02 15:04:05' (default: now)"),
		),
		mcp.WithString("end_time",
			mcp.Description("Local wall-clock end, same format"),
		),
		mcp.WithNumber("duration_seconds",
			mcp.Description("Session length in seconds"),
		),
		mcp.WithString("session_type",
			mcp.Description("'work' or 'rest' (default: work)"),
		),
	)
}

// Handle processes the log_timer_session tool call.
func (t *TimerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := ownerID(req)
	task := req.GetString("task_name", "")

	if owner == "" {
		return mcp.NewToolResultError("'owner_id' is required"), nil
	}
	if task == "" {
		return mcp.NewToolResultError("'task_name' is required"), nil
	}

	startTime := req.GetString("start_time", "")
	if startTime == "" {
		startTime = timeNow().In(t.loc).Format(naiveLayout)
	}

	canonical := task
	if t.norm != nil {
		known, err := t.knownTasks(ctx, owner)
		if err == nil {
			canonical = t.norm.Canonical(ctx, task, known)
		}
	}

	row := record.Row{
		"start_time":   startTime,
		"task_name":    canonical,
		"task_raw":     task,
		"session_type": req.GetString("session_type", "work"),
	}
	if end := req.GetString("end_time", ""); end != "" {
		row["end_time"] = end
	}
	if dur := intArg(req, "duration_seconds", 0); dur > 0 {
		row["duration_seconds"] = strconv.Itoa(dur)
	}

	if err := t.store.Append(ctx, owner, record.KindTimerSession, row); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save session: %v", err)), nil
	}

	msg := fmt.Sprintf("Session on %q saved (started %s).", canonical, startTime)
	if canonical != task {
		msg += fmt.Sprintf(" Task name matched existing task %q.", canonical)
	}
	return mcp.NewToolResultText(msg), nil
}

// knownTasks returns the distinct canonical task names already logged by
// the owner, in first-seen order.
func (t *TimerTool) knownTasks(ctx context.Context, owner string) ([]string, error) {
	rows, err := t.store.Query(ctx, owner, record.KindTimerSession)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var known []string
	for _, r := range rows {
		name := r.Get("task_name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		known = append(known, name)
	}
	return known, nil
}
