package record

import "context"

// Store is the append/query contract the analysis core depends on.
//
// Both operations hit the network or disk and can be slow; callers pass a
// context and treat failures as surfaced errors, never retried here.
type Store interface {
	// Append adds one row for the owner under the given kind.
	Append(ctx context.Context, ownerID, kind string, fields Row) error

	// Query returns every row for the owner under the given kind, in
	// insertion order. An owner with no history yields an empty slice,
	// not an error.
	Query(ctx context.Context, ownerID, kind string) ([]Row, error)
}
