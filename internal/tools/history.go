package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Timofejjj/healthai/internal/analysis"
	"github.com/Timofejjj/healthai/internal/record"
	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryTool handles the history MCP tool.
type HistoryTool struct {
	store record.Store
	loc   *time.Location
}

// NewHistoryTool creates a HistoryTool with the given record store.
func NewHistoryTool(store record.Store, loc *time.Location) *HistoryTool {
	return &HistoryTool{store: store, loc: loc}
}

// Definition returns the MCP tool definition for history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription(
			"List the user's recorded entries of one kind, newest first.",
		),
		mcp.WithString("owner_id",
			mcp.Required(),
			mcp.Description("Identifier of the user"),
		),
		mcp.WithString("kind",
			mcp.Description("Entry kind: thought (default), timer_session or sport_session"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries to return (default: 20)"),
		),
	)
}

// Handle processes the history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := ownerID(req)
	if owner == "" {
		return mcp.NewToolResultError("'owner_id' is required"), nil
	}

	kind := req.GetString("kind", record.KindThought)
	spec, ok := analysis.SpecFor(kind)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", kind)), nil
	}
	limit := intArg(req, "limit", 20)
	if limit <= 0 {
		limit = 20
	}

	rows, err := t.store.Query(ctx, owner, kind)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s entries recorded yet.", kind)), nil
	}

	sortRowsNewestFirst(rows, spec.TimeField, spec.Absolute, t.loc)
	if len(rows) > limit {
		rows = rows[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s history (%d shown)\n\n", kind, len(rows)))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", r.Get(spec.TimeField), describeRow(kind, r)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// sortRowsNewestFirst orders rows by the parsed instant of their
// timestamp field, descending. Rows whose field is missing or
// unparseable sink to the end in their stored order.
func sortRowsNewestFirst(rows []record.Row, timeField string, absolute bool, loc *time.Location) {
	type datedRow struct {
		row   record.Row
		at    time.Time
		dated bool
	}
	dated := make([]datedRow, len(rows))
	for i, r := range rows {
		at, err := analysis.ParseInstant(r.Get(timeField), absolute, loc)
		dated[i] = datedRow{row: r, at: at, dated: err == nil}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		if dated[i].dated != dated[j].dated {
			return dated[i].dated
		}
		return dated[i].at.After(dated[j].at)
	})
	for i, d := range dated {
		rows[i] = d.row
	}
}

func describeRow(kind string, r record.Row) string {
	switch kind {
	case record.KindThought:
		return r.Get("text")
	case record.KindTimerSession:
		desc := fmt.Sprintf("%s on %q", r.Get("session_type"), r.Get("task_name"))
		if d := r.Get("duration_seconds"); d != "" {
			desc += fmt.Sprintf(", %ss", d)
		}
		return desc
	case record.KindSportSession:
		desc := r.Get("activity")
		if loc := r.Get("location"); loc != "" {
			desc += " at " + loc
		}
		if state := r.Get("state"); state != "" {
			desc += " (" + state + ")"
		}
		return desc
	default:
		return ""
	}
}

// ─── ListAnalysesTool ────────────────────────────────────────────────────────

// ListAnalysesTool handles the list_analyses MCP tool.
type ListAnalysesTool struct {
	store record.Store
}

// NewListAnalysesTool creates a ListAnalysesTool.
func NewListAnalysesTool(store record.Store) *ListAnalysesTool {
	return &ListAnalysesTool{store: store}
}

// Definition returns the MCP tool definition for list_analyses.
func (t *ListAnalysesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_analyses",
		mcp.WithDescription(
			"List the user's past analysis reports, newest first.",
		),
		mcp.WithString("owner_id",
			mcp.Required(),
			mcp.Description("Identifier of the user"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum reports to return (default: 5)"),
		),
	)
}

// Handle processes the list_analyses tool call.
func (t *ListAnalysesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := ownerID(req)
	if owner == "" {
		return mcp.NewToolResultError("'owner_id' is required"), nil
	}
	limit := intArg(req, "limit", 5)
	if limit <= 0 {
		limit = 5
	}

	rows, err := t.store.Query(ctx, owner, record.KindAnalysis)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load analyses: %v", err)), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("No analyses yet. Record some entries and call run_analysis."), nil
	}

	sortRowsNewestFirst(rows, analysis.FieldCreatedAt, true, time.UTC)
	if len(rows) > limit {
		rows = rows[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Analyses (%d shown)\n\n", len(rows)))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("### %s (covers through %s)\n\n%s\n\n",
			r.Get(analysis.FieldCreatedAt),
			r.Get(analysis.FieldCoversUntil),
			truncate(r.Get(analysis.FieldReport), 600),
		))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
