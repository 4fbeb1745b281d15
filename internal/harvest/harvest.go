// Package harvest implements the Harvest Scheduler (spec.md §4.9): it
// drives the Fetcher and Document Assembler over every (cedula,
// period) pair, with a fixed delay between cedulas and bounded
// parallelism across periods within a cedula.
package harvest

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saludunivalle/cosecha/internal/assemble"
	"github.com/saludunivalle/cosecha/internal/model"
	"github.com/saludunivalle/cosecha/internal/portal"
)

// Fetcher is the narrow dependency the scheduler needs from
// internal/portal.
type Fetcher interface {
	FetchDecoded(ctx context.Context, url string) (string, error)
}

// Sink receives every successfully assembled document once its cedula's
// period fan-out has finished, in period order, on the scheduler's
// single consumer goroutine — the only
// writer of HarvestRun and of any downstream accumulator (spec.md §5).
type Sink interface {
	Add(doc *model.FacultyDocument)
}

// Config configures one Scheduler run.
type Config struct {
	BaseURL             string
	Concurrency         int           // per-cedula fan-out limit over periods, spec.md §5
	DelayBetweenCedulas time.Duration
}

type Scheduler struct {
	fetcher Fetcher
	log     *zap.Logger
	cfg     Config
}

func NewScheduler(fetcher Fetcher, cfg Config, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Scheduler{fetcher: fetcher, log: log, cfg: cfg}
}

// fetchResult is one (cedula, period) outcome, produced by a fan-out
// worker and consumed only by Run's single loop.
type fetchResult struct {
	period model.Period
	doc    *model.FacultyDocument
	err    error
}

// Run walks cedulas in order, sequentially, waiting DelayBetweenCedulas
// between them (skipped before the first), and within each cedula
// fans out over periods with at most Concurrency in flight. Every
// result — success or failure — is reported to run and, on success,
// forwarded to sink. If ctx is cancelled mid-sweep, Run appends
// ctx.Err() to run.CriticalErrors and returns run early; partial results
// already recorded in run are preserved.
func (s *Scheduler) Run(ctx context.Context, cedulas []string, periods []model.Period, sink Sink) *model.HarvestRun {
	run := model.NewHarvestRun(cedulas, periods)

	for i, cedula := range cedulas {
		if i > 0 && s.cfg.DelayBetweenCedulas > 0 {
			select {
			case <-time.After(s.cfg.DelayBetweenCedulas):
			case <-ctx.Done():
				run.CriticalErrors = append(run.CriticalErrors, "harvest: "+ctx.Err().Error())
				return run
			}
		}

		if ctx.Err() != nil {
			run.CriticalErrors = append(run.CriticalErrors, "harvest: "+ctx.Err().Error())
			return run
		}

		s.log.Info("harvesting cedula", zap.String("cedula", cedula), zap.Int("periods", len(periods)))
		s.harvestOne(ctx, cedula, periods, run, sink)
	}

	return run
}

// harvestOne fans out over periods for a single cedula, then reports
// results to run and sink in the caller's period order regardless of
// fetch completion order, matching spec.md §4.9/§5's per-cedula
// ordering guarantee.
func (s *Scheduler) harvestOne(ctx context.Context, cedula string, periods []model.Period, run *model.HarvestRun, sink Sink) {
	results := make(chan fetchResult, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, p := range periods {
		p := p
		g.Go(func() error {
			doc, err := s.fetchOne(gctx, cedula, p)
			select {
			case results <- fetchResult{period: p, doc: doc, err: err}:
			case <-gctx.Done():
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	ordered := make([]*fetchResult, len(periods))
	indexOf := make(map[int]int, len(periods))
	for i, p := range periods {
		indexOf[p.ID] = i
	}
	for r := range results {
		r := r
		ordered[indexOf[r.period.ID]] = &r
	}

	for i, r := range ordered {
		if r == nil {
			// gctx was cancelled before this period's worker could send.
			run.RecordError(cedula, periods[i].Label, ctx.Err().Error())
			continue
		}
		if r.err != nil {
			run.RecordError(cedula, r.period.Label, r.err.Error())
			continue
		}
		sink.Add(r.doc)
		run.Documents = append(run.Documents, r.doc)
	}
}

func (s *Scheduler) fetchOne(ctx context.Context, cedula string, period model.Period) (*model.FacultyDocument, error) {
	url := portal.PrintViewURL(s.cfg.BaseURL, cedula, period.ID)

	htmlDoc, err := s.fetcher.FetchDecoded(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := assemble.Document(period.ID, period.Label, htmlDoc, zapWarnf(s.log, cedula, period.Label))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// zapWarnAdapter satisfies assemble.Logger by wrapping a *zap.Logger
// with the (cedula, period) pair that produced the warning.
type zapWarnAdapter struct {
	log    *zap.Logger
	cedula string
	period string
}

func (a zapWarnAdapter) Warnf(format string, args ...interface{}) {
	a.log.Sugar().Warnf("cedula=%s period=%s: "+format, append([]interface{}{a.cedula, a.period}, args...)...)
}

func zapWarnf(log *zap.Logger, cedula, period string) assemble.Logger {
	return zapWarnAdapter{log: log, cedula: cedula, period: period}
}
