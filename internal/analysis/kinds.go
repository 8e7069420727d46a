// Package analysis implements the incremental-analysis core: deciding
// which captured records are new since the last generated report, running
// the generation call, and advancing the per-owner watermark.
//
// The selection logic is a pure filter over record rows; orchestration
// (Runner) owns the per-owner locking, the generation timeout, and the
// receipt append that makes the watermark advance durable.
package analysis

import "github.com/Timofejjj/healthai/internal/record"

// KindSpec describes how one event kind encodes its timestamp. The field
// name and encoding differ per capture path, so the selector consumes
// this table instead of per-kind code.
type KindSpec struct {
	// Kind is the record kind this spec applies to.
	Kind string
	// TimeField is the name of the field holding the event instant.
	TimeField string
	// Absolute is true when the field is an RFC 3339 instant with an
	// explicit offset; false when it is a naive local wall-clock string
	// that must be interpreted in the fixed local zone.
	Absolute bool
}

// EventKinds is the selection table for every analyzable event kind.
// Thoughts are stamped in UTC by the capture tool; timer and sport
// sessions carry the wall-clock start time the user saw.
var EventKinds = []KindSpec{
	{Kind: record.KindThought, TimeField: "timestamp", Absolute: true},
	{Kind: record.KindTimerSession, TimeField: "start_time", Absolute: false},
	{Kind: record.KindSportSession, TimeField: "start_time", Absolute: false},
}

// SpecFor returns the selection spec for a kind, or false for kinds
// without one (including analysis receipts).
func SpecFor(kind string) (KindSpec, bool) {
	for _, spec := range EventKinds {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return KindSpec{}, false
}

// Receipt field names on analysis rows.
const (
	FieldAnalysisID  = "analysis_id"
	FieldCreatedAt   = "created_at"
	FieldCoversUntil = "covers_until"
	FieldReport      = "report"
)
