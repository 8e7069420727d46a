package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Timofejjj/healthai/internal/generate"
	"github.com/Timofejjj/healthai/internal/record"
	"github.com/google/uuid"
)

// Status tags the outcome of an analysis run. Callers branch on the tag,
// never on report text.
type Status string

const (
	// StatusReport means a report was generated from new events.
	StatusReport Status = "report"
	// StatusNothingNew means no events newer than the watermark exist;
	// no generation call was made and no receipt was written.
	StatusNothingNew Status = "nothing_new"
)

// Outcome is the tagged result of one analysis run.
type Outcome struct {
	Status Status

	// Report is the generated text. Set only when Status is StatusReport.
	Report string

	// AnalysisID identifies the receipt written for this run.
	AnalysisID string

	// CoversUntil is the watermark recorded on the receipt: the maximum
	// instant among all selected events, across every kind.
	CoversUntil time.Time

	// NewEvents counts the selected events per kind.
	NewEvents map[string]int

	// Skipped counts events excluded for missing or unparseable
	// timestamps across all kinds.
	Skipped int

	// ReceiptErr is non-nil when the report was generated but the
	// receipt append failed. The report is still valid; only the
	// watermark advance was lost, so a retry may reprocess the same
	// events (at-least-once semantics).
	ReceiptErr error
}

// Runner orchestrates one analysis run per owner: resolve the watermark,
// select new events per kind, generate the report, append the receipt.
//
// Runs for the same owner are mutually exclusive, so two concurrent
// analyze requests cannot both select the same events and write racing
// receipts. Runs for different owners proceed in parallel.
type Runner struct {
	store   record.Store
	gen     generate.Generator
	loc     *time.Location
	timeout time.Duration

	mu     sync.Mutex
	owners map[string]*sync.Mutex
}

// NewRunner creates a Runner. loc is the fixed local zone for naive
// timestamps; timeout bounds the generation call.
func NewRunner(store record.Store, gen generate.Generator, loc *time.Location, timeout time.Duration) *Runner {
	return &Runner{
		store:   store,
		gen:     gen,
		loc:     loc,
		timeout: timeout,
		owners:  make(map[string]*sync.Mutex),
	}
}

func (r *Runner) ownerLock(ownerID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.owners[ownerID]
	if !ok {
		m = &sync.Mutex{}
		r.owners[ownerID] = m
	}
	return m
}

// Analyze runs the full selection + generation + advancement flow for
// one owner.
//
// Store or generation failures are returned as errors; a run that finds
// no new events is not an error but a StatusNothingNew outcome. A
// receipt-append failure after successful generation is reported via
// Outcome.ReceiptErr with the report intact.
func (r *Runner) Analyze(ctx context.Context, ownerID string) (*Outcome, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("analysis: empty owner id")
	}

	lock := r.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	receipts, err := r.store.Query(ctx, ownerID, record.KindAnalysis)
	if err != nil {
		return nil, fmt.Errorf("analysis: load receipts: %w", err)
	}
	watermark := ResolveWatermark(receipts)

	selections := make(map[string]Selection, len(EventKinds))
	outcome := &Outcome{NewEvents: map[string]int{}}
	var coversUntil time.Time
	total := 0

	for _, spec := range EventKinds {
		events, err := r.store.Query(ctx, ownerID, spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("analysis: load %s events: %w", spec.Kind, err)
		}
		sel := SelectNew(events, watermark, spec, r.loc)
		selections[spec.Kind] = sel
		outcome.NewEvents[spec.Kind] = len(sel.Rows)
		outcome.Skipped += sel.Skipped
		total += len(sel.Rows)
		if sel.Newest.After(coversUntil) {
			coversUntil = sel.Newest
		}
	}

	if total == 0 {
		outcome.Status = StatusNothingNew
		return outcome, nil
	}

	now := timeNow().UTC()
	prompt := BuildPrompt(selections, watermark, now)

	genCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	report, err := r.gen.Generate(genCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis: generate report: %w", err)
	}

	outcome.Status = StatusReport
	outcome.Report = report
	outcome.AnalysisID = uuid.NewString()
	outcome.CoversUntil = coversUntil

	receipt := record.Row{
		FieldAnalysisID:  outcome.AnalysisID,
		FieldCreatedAt:   timeNow().UTC().Format(time.RFC3339),
		FieldCoversUntil: coversUntil.Format(time.RFC3339),
		FieldReport:      report,
	}
	if err := r.store.Append(ctx, ownerID, record.KindAnalysis, receipt); err != nil {
		// The report is already in hand; losing the receipt only risks
		// a duplicate analysis on retry, so surface it without failing
		// the run.
		outcome.ReceiptErr = fmt.Errorf("analysis: append receipt: %w", err)
	}
	return outcome, nil
}
