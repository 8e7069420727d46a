// Package record implements the per-owner record store behind the
// life-logging core.
//
// Records are schemaless field maps grouped by owner and kind, mirroring
// the row-oriented datastores the app has lived on (spreadsheet rows, bot
// SQLite tables). Older rows may lack fields that newer capture paths
// write; consumers must tolerate partial presence.
package record

// Record kinds. Events are append-only user data; analyses are the
// receipts written after each completed analysis run.
const (
	KindThought      = "thought"
	KindTimerSession = "timer_session"
	KindSportSession = "sport_session"
	KindAnalysis     = "analysis"
)

// Row is one stored record: field name to string value. Numeric fields
// (durations, counts) are stored in decimal string form.
type Row map[string]string

// Get returns the named field, or "" when absent.
func (r Row) Get(field string) string {
	return r[field]
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
