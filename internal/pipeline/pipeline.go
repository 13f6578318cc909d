// Package pipeline orchestrates one batch run: ingest, transform, load,
// quarantine and quality artifacts. Single-threaded and fail-fast; each
// stage fully consumes its input before the next starts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"starling/internal/analytics"
	"starling/internal/ingest"
	"starling/internal/quality"
	"starling/internal/transform"
	"starling/internal/warehouse"
)

// Config holds the file locations for one run. The international sales
// feed is optional; an absent file skips that stream.
type Config struct {
	EventsPath        string
	UsersPath         string
	IntlSalesPath     string
	WarehousePath     string
	QuarantinePath    string
	QualityReportPath string
	PreviewPath       string
	PreviewLimit      int
}

// Pipeline wires the stages together.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a pipeline. A nil logger discards output.
func New(cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = 50
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes one full pass. Record-level problems end up in the
// quarantine artifact and the quality report; stage-level and storage
// failures abort the run. Re-running over the same input converges to the
// same warehouse state.
func (p *Pipeline) Run(ctx context.Context) (*quality.Report, error) {
	report := quality.NewReport()

	ing, err := ingest.ReadEventsFile(p.cfg.EventsPath, p.logger)
	if err != nil {
		return nil, err
	}
	users, err := ingest.ReadUsersFile(p.cfg.UsersPath)
	if err != nil {
		return nil, err
	}

	rows, transformBad, metrics := transform.Apply(ing.Events, users, p.logger)

	// Ingest-stage and transform-stage rejections land in one artifact,
	// rewritten per run.
	bad := append(ing.Bad, transformBad...)
	if err := ingest.WriteBadRecords(p.cfg.QuarantinePath, bad); err != nil {
		return nil, err
	}

	wh, err := warehouse.Open(p.cfg.WarehousePath, p.logger)
	if err != nil {
		return nil, err
	}
	defer wh.Close()

	if _, err := wh.Load(ctx, rows); err != nil {
		return nil, err
	}

	if p.cfg.IntlSalesPath != "" {
		if _, err := os.Stat(p.cfg.IntlSalesPath); err == nil {
			sales, _, err := ingest.ReadIntlSalesFile(p.cfg.IntlSalesPath, p.logger)
			if err != nil {
				return nil, err
			}
			if _, err := wh.LoadIntlSales(ctx, sales); err != nil {
				return nil, err
			}
		} else {
			p.logger.Info("no international sales feed found, skipping", slog.String("path", p.cfg.IntlSalesPath))
		}
	}

	if p.cfg.PreviewPath != "" {
		preview, err := analytics.QueryFactPreview(ctx, wh.DB(), p.cfg.PreviewLimit)
		if err != nil {
			return nil, err
		}
		if err := analytics.WriteCSV(p.cfg.PreviewPath, analytics.PreviewHeader, preview); err != nil {
			return nil, err
		}
	}

	report.RawLines = ing.RawLines
	report.IngestGood = len(ing.Events)
	report.IngestBad = len(ing.Bad)
	report.TransformInvalidEventType = metrics.InvalidEventType
	report.LoadedRows = metrics.RowsOut
	report.DedupRemoved = metrics.DedupRemoved
	report.NullUserID = metrics.NullUserID
	report.Finalize()

	if err := report.Write(p.cfg.QualityReportPath); err != nil {
		return nil, err
	}

	p.logger.Info("run complete",
		slog.String("run_id", report.RunID),
		slog.String("warehouse", p.cfg.WarehousePath),
		slog.Int("loaded", report.LoadedRows),
		slog.Int("rejected", report.RejectedTotal))
	return report, nil
}

// Validate checks that the required inputs exist before a run starts.
func (c Config) Validate() error {
	for _, required := range []struct{ name, path string }{
		{"events", c.EventsPath},
		{"users", c.UsersPath},
	} {
		if required.path == "" {
			return fmt.Errorf("%s path is required", required.name)
		}
		if _, err := os.Stat(required.path); err != nil {
			return fmt.Errorf("%s feed not readable: %w", required.name, err)
		}
	}
	if c.WarehousePath == "" {
		return fmt.Errorf("warehouse path is required")
	}
	return nil
}
