package analysis

import (
	"testing"
	"time"

	"github.com/Timofejjj/healthai/internal/record"
)

var thoughtSpec = KindSpec{Kind: record.KindThought, TimeField: "timestamp", Absolute: true}
var timerSpec = KindSpec{Kind: record.KindTimerSession, TimeField: "start_time", Absolute: false}

// moscow is a fixed UTC+3 zone so the tests don't depend on the host's
// tz database.
var moscow = time.FixedZone("MSK", 3*60*60)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSelectNew_NilWatermarkSelectsAll(t *testing.T) {
	events := []record.Row{
		{"timestamp": "2024-05-01T09:00:00Z", "text": "a"},
		{"timestamp": "2024-05-02T09:00:00Z", "text": "b"},
	}

	sel := SelectNew(events, nil, thoughtSpec, moscow)
	if len(sel.Rows) != 2 {
		t.Fatalf("selected %d, want 2", len(sel.Rows))
	}
	want := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	if !sel.Newest.Equal(want) {
		t.Errorf("newest = %v, want %v", sel.Newest, want)
	}
}

func TestSelectNew_StrictlyGreaterThanWatermark(t *testing.T) {
	// P3: watermark at t1 selects exactly t2 and t3, whatever the
	// input order.
	events := []record.Row{
		{"timestamp": "2024-05-03T09:00:00Z", "text": "t3"},
		{"timestamp": "2024-05-01T09:00:00Z", "text": "t1"},
		{"timestamp": "2024-05-02T09:00:00Z", "text": "t2"},
	}

	sel := SelectNew(events, ts("2024-05-01T09:00:00Z"), thoughtSpec, moscow)
	if len(sel.Rows) != 2 {
		t.Fatalf("selected %d, want 2", len(sel.Rows))
	}
	got := map[string]bool{}
	for _, r := range sel.Rows {
		got[r.Get("text")] = true
	}
	if !got["t2"] || !got["t3"] || got["t1"] {
		t.Errorf("selected wrong set: %v", got)
	}
}

func TestSelectNew_EqualToWatermarkExcluded(t *testing.T) {
	events := []record.Row{{"timestamp": "2024-05-01T09:00:00Z", "text": "a"}}
	sel := SelectNew(events, ts("2024-05-01T09:00:00Z"), thoughtSpec, moscow)
	if len(sel.Rows) != 0 {
		t.Errorf("event equal to watermark must be excluded, got %d rows", len(sel.Rows))
	}
}

func TestSelectNew_NaiveLocalComparesAsFixedZone(t *testing.T) {
	// P4: "2024-01-01 13:00:00" under UTC+3 is the same instant as
	// 2024-01-01T10:00:00Z, so a watermark at that instant excludes it;
	// one second earlier includes it.
	events := []record.Row{{"start_time": "2024-01-01 13:00:00", "task_name": "x"}}

	sel := SelectNew(events, ts("2024-01-01T10:00:00Z"), timerSpec, moscow)
	if len(sel.Rows) != 0 {
		t.Errorf("naive event equal to watermark must be excluded, got %d", len(sel.Rows))
	}

	sel = SelectNew(events, ts("2024-01-01T09:59:59Z"), timerSpec, moscow)
	if len(sel.Rows) != 1 {
		t.Errorf("naive event after watermark must be included, got %d", len(sel.Rows))
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !sel.Newest.Equal(want) {
		t.Errorf("newest = %v, want %v in UTC", sel.Newest, want)
	}
}

func TestSelectNew_MalformedTimestampDoesNotAbortBatch(t *testing.T) {
	// P5: one bad row out of five yields four filtered rows, one skip,
	// no panic and no error.
	events := []record.Row{
		{"timestamp": "2024-05-02T09:00:00Z", "text": "a"},
		{"timestamp": "garbage", "text": "bad"},
		{"timestamp": "2024-05-03T09:00:00Z", "text": "b"},
		{"timestamp": "2024-05-04T09:00:00Z", "text": "c"},
		{"timestamp": "2024-05-05T09:00:00Z", "text": "d"},
	}

	sel := SelectNew(events, ts("2024-05-01T09:00:00Z"), thoughtSpec, moscow)
	if len(sel.Rows) != 4 {
		t.Errorf("selected %d, want 4", len(sel.Rows))
	}
	if sel.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", sel.Skipped)
	}
}

func TestSelectNew_MissingTimeFieldSkipped(t *testing.T) {
	events := []record.Row{
		{"text": "no timestamp at all"},
		{"timestamp": "2024-05-02T09:00:00Z", "text": "ok"},
	}

	sel := SelectNew(events, nil, thoughtSpec, moscow)
	if len(sel.Rows) != 1 || sel.Rows[0].Get("text") != "ok" {
		t.Errorf("selected = %v, want only the dated row", sel.Rows)
	}
	if sel.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", sel.Skipped)
	}
}

func TestSelectNew_EmptyInput(t *testing.T) {
	sel := SelectNew(nil, nil, thoughtSpec, moscow)
	if len(sel.Rows) != 0 || sel.Skipped != 0 {
		t.Errorf("empty input should select nothing, got %+v", sel)
	}
	if !sel.Newest.IsZero() {
		t.Errorf("newest should be zero for empty selection, got %v", sel.Newest)
	}
}

func TestParseInstant_AbsoluteVariants(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-05-01T09:00:00Z", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		{"2024-05-01T12:00:00+03:00", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		{"2024-05-01T09:00:00.250Z", time.Date(2024, 5, 1, 9, 0, 0, 250000000, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseInstant(tt.value, true, moscow)
		if err != nil {
			t.Errorf("ParseInstant(%q): %v", tt.value, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseInstant(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseInstant_NaiveVariants(t *testing.T) {
	want := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC) // 09:00 MSK
	for _, value := range []string{"2024-05-01 09:00:00", "2024-05-01T09:00:00", "2024-05-01 09:00"} {
		got, err := ParseInstant(value, false, moscow)
		if err != nil {
			t.Errorf("ParseInstant(%q): %v", value, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseInstant(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestDefaultLocation_FallsBackToFixedOffset(t *testing.T) {
	loc := DefaultLocation("Not/AZone")
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(loc).Zone()
	if offset != 3*60*60 {
		t.Errorf("fallback offset = %d, want +3h", offset)
	}
}
