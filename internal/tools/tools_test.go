package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Timofejjj/healthai/internal/analysis"
	"github.com/Timofejjj/healthai/internal/record"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

var testLoc = time.FixedZone("MSK", 3*60*60)

// newTestStore creates a SQLiteStore in a temp directory.
func newTestStore(t *testing.T) *record.SQLiteStore {
	t.Helper()
	s, err := record.OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, result *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil {
		t.Fatal("handler returned nil result")
	}
	if result.IsError {
		t.Fatalf("handler returned tool error: %s", resultText(result))
	}
}

func withFixedNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = orig })
}

// fixedGen is a Generator returning a canned report.
type fixedGen struct {
	report string
}

func (g fixedGen) Generate(_ context.Context, _ string) (string, error) {
	return g.report, nil
}

// ─── ThoughtTool ─────────────────────────────────────────────────────────────

func TestThoughtTool_RequiresArguments(t *testing.T) {
	tool := NewThoughtTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"text": "no owner",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing owner_id")
	}

	result, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"owner_id": "u1",
	}))
	if !result.IsError {
		t.Error("expected tool error for missing text")
	}
}

func TestThoughtTool_SavesWithUTCTimestamp(t *testing.T) {
	store := newTestStore(t)
	tool := NewThoughtTool(store)
	withFixedNow(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"owner_id": "u1",
		"text":     "a thought",
	}))
	mustNotError(t, result, err)

	rows, err := store.Query(context.Background(), "u1", record.KindThought)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Get("timestamp") != "2024-05-01T09:00:00Z" {
		t.Errorf("timestamp = %q", rows[0].Get("timestamp"))
	}
	if rows[0].Get("text") != "a thought" {
		t.Errorf("text = %q", rows[0].Get("text"))
	}
}

func TestThoughtTool_NumericOwnerIDCoerced(t *testing.T) {
	// Chat platforms send integer user ids; they must land under the
	// same string key a web session would use.
	store := newTestStore(t)
	tool := NewThoughtTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"owner_id": float64(42),
		"text":     "from the bot",
	}))
	mustNotError(t, result, err)

	rows, _ := store.Query(context.Background(), "42", record.KindThought)
	if len(rows) != 1 {
		t.Errorf("numeric owner id not coerced to string key, got %d rows", len(rows))
	}
}

// ─── TimerTool ───────────────────────────────────────────────────────────────

func TestTimerTool_DefaultsStartTimeToLocalNow(t *testing.T) {
	store := newTestStore(t)
	tool := NewTimerTool(store, nil, testLoc)
	withFixedNow(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)) // 12:00 MSK

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"owner_id":         "u1",
		"task_name":        "Deep Work",
		"duration_seconds": float64(1500),
	}))
	mustNotError(t, result, err)

	rows, _ := store.Query(context.Background(), "u1", record.KindTimerSession)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Get("start_time") != "2024-05-01 12:00:00" {
		t.Errorf("start_time = %q, want local wall clock", rows[0].Get("start_time"))
	}
	if rows[0].Get("duration_seconds") != "1500" {
		t.Errorf("duration_seconds = %q", rows[0].Get("duration_seconds"))
	}
	if rows[0].Get("session_type") != "work" {
		t.Errorf("session_type = %q, want default work", rows[0].Get("session_type"))
	}
}

func TestTimerTool_NormalizesTaskNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_ = store.Append(ctx, "u1", record.KindTimerSession, record.Row{
		"start_time": "2024-05-01 10:00:00", "task_name": "Deep Work",
	})

	norm := analysis.NewNormalizer(fixedGen{report: "Deep Work"})
	tool := NewTimerTool(store, norm, testLoc)

	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{
		"owner_id":   "u1",
		"task_name":  "deep wrok",
		"start_time": "2024-05-01 11:00:00",
	}))
	mustNotError(t, result, err)

	rows, _ := store.Query(ctx, "u1", record.KindTimerSession)
	latest := rows[len(rows)-1]
	if latest.Get("task_name") != "Deep Work" {
		t.Errorf("task_name = %q, want normalized %q", latest.Get("task_name"), "Deep Work")
	}
	if latest.Get("task_raw") != "deep wrok" {
		t.Errorf("task_raw = %q, want the original spelling kept", latest.Get("task_raw"))
	}
}

// ─── SportTool ───────────────────────────────────────────────────────────────

func TestSportTool_SavesOptionalFields(t *testing.T) {
	store := newTestStore(t)
	tool := NewSportTool(store, testLoc)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"owner_id":   "u1",
		"activity":   "run",
		"start_time": "2024-05-01 19:00:00",
		"location":   "park",
		"state":      "energized",
	}))
	mustNotError(t, result, err)

	rows, _ := store.Query(context.Background(), "u1", record.KindSportSession)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Get("location") != "park" || rows[0].Get("state") != "energized" {
		t.Errorf("optional fields lost: %v", rows[0])
	}
}

// ─── HistoryTool ─────────────────────────────────────────────────────────────

func TestHistoryTool_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"timestamp": "2024-05-01T09:00:00Z", "text": "older"})
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"timestamp": "2024-05-02T09:00:00Z", "text": "newer"})

	tool := NewHistoryTool(store, testLoc)
	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"owner_id": "u1"}))
	mustNotError(t, result, err)

	text := resultText(result)
	if strings.Index(text, "newer") > strings.Index(text, "older") {
		t.Errorf("history not newest-first:\n%s", text)
	}
}

func TestHistoryTool_NegativeLimitUsesDefault(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"timestamp": "2024-05-01T09:00:00Z", "text": "kept"})
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"timestamp": "2024-05-02T09:00:00Z", "text": "also kept"})

	tool := NewHistoryTool(store, testLoc)
	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{
		"owner_id": "u1",
		"limit":    float64(-1),
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "(2 shown)") {
		t.Errorf("negative limit should fall back to the default:\n%s", resultText(result))
	}
}

func TestListAnalysesTool_NegativeLimitUsesDefault(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_ = store.Append(ctx, "u1", record.KindAnalysis, record.Row{
		"analysis_id": "a1", "created_at": "2024-05-02T10:00:00Z", "report": "fine",
	})

	tool := NewListAnalysesTool(store)
	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{
		"owner_id": "u1",
		"limit":    float64(-1),
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "(1 shown)") {
		t.Errorf("negative limit should fall back to the default:\n%s", resultText(result))
	}
}

func TestHistoryTool_OrdersByInstantNotString(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	// "...00Z" sorts after "...00.250Z" lexicographically; the parsed
	// instants order the other way.
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"timestamp": "2024-05-01T09:00:00Z", "text": "earlier"})
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"timestamp": "2024-05-01T09:00:00.250Z", "text": "later"})
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"timestamp": "not a time", "text": "undated"})

	tool := NewHistoryTool(store, testLoc)
	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"owner_id": "u1"}))
	mustNotError(t, result, err)

	text := resultText(result)
	if strings.Index(text, "later") > strings.Index(text, "earlier") {
		t.Errorf("sub-second entry should sort newest:\n%s", text)
	}
	if strings.Index(text, "undated") < strings.Index(text, "earlier") {
		t.Errorf("undated entry should sink to the end:\n%s", text)
	}
}

func TestHistoryTool_UnknownKind(t *testing.T) {
	tool := NewHistoryTool(newTestStore(t), testLoc)
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"owner_id": "u1",
		"kind":     "dreams",
	}))
	if !result.IsError {
		t.Error("expected tool error for unknown kind")
	}
}

func TestHistoryTool_Empty(t *testing.T) {
	tool := NewHistoryTool(newTestStore(t), testLoc)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"owner_id": "u1"}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "No thought entries") {
		t.Errorf("unexpected empty-history text: %s", resultText(result))
	}
}

// ─── StatsTool ───────────────────────────────────────────────────────────────

func TestStatsTool_CountsPerKind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"text": "a"})
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"text": "b"})
	_ = store.Append(ctx, "u1", record.KindSportSession, record.Row{"activity": "run"})

	tool := NewStatsTool(store)
	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"owner_id": "u1"}))
	mustNotError(t, result, err)

	text := resultText(result)
	if !strings.Contains(text, "**Thoughts**: 2") || !strings.Contains(text, "**Sport sessions**: 1") {
		t.Errorf("unexpected stats text:\n%s", text)
	}
}

func TestStatsTool_ListsOwnersWithoutOwnerID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_ = store.Append(ctx, "u1", record.KindThought, record.Row{"text": "a"})
	_ = store.Append(ctx, "u2", record.KindThought, record.Row{"text": "b"})

	tool := NewStatsTool(store)
	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{}))
	mustNotError(t, result, err)

	text := resultText(result)
	if !strings.Contains(text, "u1") || !strings.Contains(text, "u2") {
		t.Errorf("owners missing from stats:\n%s", text)
	}
}
