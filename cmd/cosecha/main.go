// Command cosecha harvests faculty academic-assignment records from
// the university portal and writes them to a target Google Sheet,
// grouped by academic period.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/saludunivalle/cosecha/internal/cedula"
	"github.com/saludunivalle/cosecha/internal/config"
	"github.com/saludunivalle/cosecha/internal/harvest"
	"github.com/saludunivalle/cosecha/internal/period"
	"github.com/saludunivalle/cosecha/internal/portal"
	"github.com/saludunivalle/cosecha/internal/report"
	"github.com/saludunivalle/cosecha/internal/sheet"
)

func main() {
	configPath := flag.String("config", "cosecha.yaml", "path to the YAML run configuration")
	dryRun := flag.Bool("dry-run", false, "harvest and log, but skip writing to the target sheet")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cosecha: building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*configPath, *dryRun, log); err != nil {
		log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(configPath string, dryRun bool, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = portal.DefaultBaseURL
	}

	fetcher := portal.NewFetcher(portal.DefaultConfig())

	cedulas, err := loadCedulas(ctx, fetcher, cfg)
	if err != nil {
		return fmt.Errorf("loading cedula list: %w", err)
	}
	log.Info("loaded cedula list", zap.Int("count", len(cedulas)))

	periods := period.Discover(ctx, fetcher, portal.ListingURL(cfg.BaseURL), cfg.NPrevious+1)
	if len(periods) == 0 {
		return fmt.Errorf("period discovery returned zero periods")
	}
	log.Info("discovered periods", zap.Int("count", len(periods)))

	prepLabels, err := period.Enumerate(cfg.CurrentPeriod, cfg.NPrevious)
	if err != nil {
		return fmt.Errorf("enumerating preparation periods: %w", err)
	}

	var store sheet.Store
	if dryRun {
		store = newNopStore()
	} else {
		spreadsheetID, err := sheet.ExtractSpreadsheetID(cfg.TargetSheetURL)
		if err != nil {
			return err
		}
		gs, err := sheet.NewGoogleStore(ctx, spreadsheetID, cfg.CredentialsFile)
		if err != nil {
			return err
		}
		store = gs
	}

	grouper := sheet.NewGrouper(store, log)
	if err := grouper.Prepare(ctx, prepLabels); err != nil {
		return fmt.Errorf("preparing target sheets: %w", err)
	}

	scheduler := harvest.NewScheduler(fetcher, harvest.Config{
		BaseURL:             cfg.BaseURL,
		Concurrency:         cfg.Concurrency,
		DelayBetweenCedulas: cfg.DelayBetweenCedulas,
	}, log)

	runResult := scheduler.Run(ctx, cedulas, periods, grouper)

	if err := grouper.Flush(ctx); err != nil {
		runResult.CriticalErrors = append(runResult.CriticalErrors, err.Error())
	}

	log.Info(report.Summary(runResult))

	if cfg.ReportDir != "" {
		if err := report.Write(cfg.ReportDir, runResult); err != nil {
			log.Warn("writing report", zap.Error(err))
		}
	}

	if len(runResult.CriticalErrors) > 0 {
		return fmt.Errorf("run finished with %d critical errors", len(runResult.CriticalErrors))
	}
	return nil
}

// loadCedulas reads the source sheet's cedula column and cleans it.
func loadCedulas(ctx context.Context, fetcher *portal.Fetcher, cfg *config.Config) ([]string, error) {
	spreadsheetID, err := sheet.ExtractSpreadsheetID(cfg.SourceSheetURL)
	if err != nil {
		return nil, err
	}
	store, err := sheet.NewGoogleStore(ctx, spreadsheetID, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	raw, err := store.ReadColumn(ctx, cfg.SourceWorksheet, cfg.SourceColumn)
	if err != nil {
		return nil, err
	}
	return cedula.CleanList(raw), nil
}

// nopStore discards writes; used for --dry-run.
type nopStore struct{}

func newNopStore() sheet.Store { return nopStore{} }

func (nopStore) ListSheets(context.Context) ([]string, error)                       { return nil, nil }
func (nopStore) EnsureSheet(context.Context, string, []string) error               { return nil }
func (nopStore) AppendRows(context.Context, string, [][]string) error              { return nil }
func (nopStore) ReadColumn(context.Context, string, string) ([]string, error)       { return nil, nil }
