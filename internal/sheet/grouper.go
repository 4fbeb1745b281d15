package sheet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/saludunivalle/cosecha/internal/model"
)

// Grouper accumulates FlatActivityRows by period label as documents
// arrive from the Harvest Scheduler, then flushes each period's rows
// to the target Store exactly once per run (spec.md §4.10).
type Grouper struct {
	store  Store
	log    *zap.Logger
	byPeriod map[string][]model.FlatActivityRow
	order  []string
}

func NewGrouper(store Store, log *zap.Logger) *Grouper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Grouper{store: store, log: log, byPeriod: map[string][]model.FlatActivityRow{}}
}

// Add flattens doc and appends its rows to the accumulator for its
// period. Safe to call from the Harvest Scheduler's single consumer
// loop only — Grouper is not goroutine-safe by design, matching
// spec.md §5's single-writer rule for HarvestRun.
func (g *Grouper) Add(doc *model.FacultyDocument) {
	rows := Flatten(doc)
	if len(rows) == 0 {
		return
	}
	if _, ok := g.byPeriod[doc.PeriodLabel]; !ok {
		g.order = append(g.order, doc.PeriodLabel)
	}
	g.byPeriod[doc.PeriodLabel] = append(g.byPeriod[doc.PeriodLabel], rows...)
}

// Prepare ensures every sheet in periods exists with the canonical
// header row, once per run, before any Flush call (spec.md §6). It
// prepares sheets even for periods with zero accumulated rows so a
// period with no activity for the current cedula set still gets a
// sheet.
func (g *Grouper) Prepare(ctx context.Context, periods []string) error {
	for _, p := range periods {
		if err := g.store.EnsureSheet(ctx, p, model.FlatColumns); err != nil {
			return fmt.Errorf("sheet: preparing %q: %w", p, err)
		}
	}
	return nil
}

// Flush appends every accumulated period's rows to its sheet, in the
// order periods were first seen, and clears the accumulator. A failure
// flushing one period does not stop the others from being attempted
// (spec.md §7): every error is collected and returned joined.
func (g *Grouper) Flush(ctx context.Context) error {
	var errs []error
	for _, p := range g.order {
		rows := g.byPeriod[p]
		if len(rows) == 0 {
			continue
		}
		values := make([][]string, len(rows))
		for i, r := range rows {
			values[i] = r.Values()
		}
		if err := g.store.AppendRows(ctx, p, values); err != nil {
			errs = append(errs, fmt.Errorf("sheet: flushing %d rows for %q: %w", len(rows), p, err))
			continue
		}
		g.log.Info("flushed period", zap.String("period", p), zap.Int("rows", len(rows)))
	}
	g.byPeriod = map[string][]model.FlatActivityRow{}
	g.order = nil
	return errors.Join(errs...)
}
