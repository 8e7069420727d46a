package analysis

import (
	"log"
	"time"

	"github.com/Timofejjj/healthai/internal/record"
)

// Selection is the result of filtering one event kind against the
// watermark.
type Selection struct {
	// Rows are the events strictly newer than the watermark, in input
	// order.
	Rows []record.Row
	// Newest is the greatest instant among the selected rows, in UTC.
	// Zero when Rows is empty.
	Newest time.Time
	// Skipped counts events excluded because their timestamp field was
	// missing or unparseable.
	Skipped int
}

// SelectNew filters events of one kind against the watermark.
//
// A nil watermark selects everything (first-ever analysis covers full
// history). Otherwise an event is selected iff its parsed instant is
// strictly greater than the watermark. Events whose timestamp field is
// missing or unparseable are excluded with a warning log — bad rows
// never abort the rest of the batch.
//
// The function performs no I/O; it is safe to call concurrently.
func SelectNew(events []record.Row, watermark *time.Time, spec KindSpec, loc *time.Location) Selection {
	var sel Selection
	for _, ev := range events {
		raw := ev.Get(spec.TimeField)
		if raw == "" {
			log.Printf("WARNING: analysis: %s event missing %q field, excluded", spec.Kind, spec.TimeField)
			sel.Skipped++
			continue
		}
		instant, err := ParseInstant(raw, spec.Absolute, loc)
		if err != nil {
			log.Printf("WARNING: analysis: %s event has unparseable %q value %q, excluded", spec.Kind, spec.TimeField, raw)
			sel.Skipped++
			continue
		}
		if watermark != nil && !instant.After(*watermark) {
			continue
		}
		sel.Rows = append(sel.Rows, ev)
		if instant.After(sel.Newest) {
			sel.Newest = instant
		}
	}
	return sel
}
