package analysis

import (
	"time"

	"github.com/Timofejjj/healthai/internal/record"
)

// ResolveWatermark returns the instant up to which the owner's events
// have already been analyzed, derived from their analysis receipts.
//
// The receipt with the greatest created_at wins; its covers_until value
// is the watermark. A nil return means "analyze everything on record":
// no receipts yet, or the latest receipt has a missing or malformed
// covers_until. Degrading to nil on bad data is deliberate —
// re-analyzing is acceptable, silently skipping data is not.
func ResolveWatermark(receipts []record.Row) *time.Time {
	var latest record.Row
	var latestAt time.Time

	for _, r := range receipts {
		createdAt, err := ParseInstant(r.Get(FieldCreatedAt), true, time.UTC)
		if err != nil {
			continue
		}
		if latest == nil || createdAt.After(latestAt) {
			latest = r
			latestAt = createdAt
		}
	}
	if latest == nil {
		return nil
	}

	covers, err := ParseInstant(latest.Get(FieldCoversUntil), true, time.UTC)
	if err != nil {
		return nil
	}
	return &covers
}
