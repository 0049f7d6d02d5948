package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/hygload/internal/config"
	"github.com/JonMunkholm/hygload/internal/core"
	"github.com/JonMunkholm/hygload/internal/logging"
	"github.com/JonMunkholm/hygload/internal/metrics"
	"github.com/JonMunkholm/hygload/internal/store"
	"github.com/JonMunkholm/hygload/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

// run performs one ingestion and returns the process exit code. Deferred
// releases happen before main exits.
func run() int {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"catalog", cfg.Catalog.Path,
		"driver", cfg.Store.Driver,
		"table", cfg.Store.Table,
		"key_policy", cfg.Ingest.KeyPolicy,
		"status_addr", cfg.Status.Addr,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		return 1
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}()

	if err := st.EnsureSchema(ctx); err != nil {
		slog.Error("failed to prepare schema", "error", err, "hint", core.FormatUserError(err))
		return 1
	}

	tracker := core.NewTracker()
	m := metrics.NewIngest()

	if cfg.Status.Addr != "" {
		server := web.NewServer(tracker, m)
		go func() {
			slog.Info("status server starting", "addr", cfg.Status.Addr)
			if err := server.Start(cfg.Status.Addr); err != nil {
				slog.Error("status server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Status.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("status server shutdown error", "error", err)
			}
		}()
	}

	src, err := core.OpenLineSource(cfg.Catalog.Path)
	if err != nil {
		slog.Error("failed to open catalog", "path", cfg.Catalog.Path, "error", err, "hint", core.FormatUserError(err))
		return 1
	}
	defer src.Close()

	maxFailed := cfg.Ingest.MaxFailedRows
	if maxFailed == 0 {
		maxFailed = -1
	}

	steps := newStepLogger(cfg.Ingest.ProgressStep)
	ingester := core.NewIngester(st, core.Options{
		OnProgress: func(p core.Progress) {
			tracker.Update(p)
			m.ObserveProgress(p)
			steps.observe(p)
		},
		OnReject: func(row core.FailedRow, err error) {
			m.ObserveReject(row)
			slog.Warn("record rejected",
				"line", row.LineNumber,
				"code", row.Code,
				"error", err,
			)
		},
		MaxFailedRows: maxFailed,
	})

	report, runErr := ingester.Run(ctx, src)

	if cfg.Ingest.FailedRowsPath != "" && len(report.FailedRows) > 0 {
		if err := core.WriteFailedRows(cfg.Ingest.FailedRowsPath, report.FailedRows); err != nil {
			slog.Error("failed to write failed rows", "path", cfg.Ingest.FailedRowsPath, "error", err)
		} else {
			slog.Info("failed rows written", "path", cfg.Ingest.FailedRowsPath, "rows", len(report.FailedRows))
		}
	}

	// The run context may already be cancelled; count with a fresh one.
	rows, countErr := st.Count(context.WithoutCancel(ctx))
	if countErr != nil {
		slog.Warn("failed to count stored rows", "error", countErr)
	}

	slog.Info("summary",
		"run_id", report.RunID,
		"lines", report.TotalLines,
		"processed", report.Processed,
		"persisted", report.Persisted,
		"rejected", report.Rejected,
		"skipped", report.Skipped,
		"duration", report.Duration.String(),
		"rows_in_table", rows,
	)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			slog.Warn("ingestion interrupted", "error", runErr)
		} else {
			slog.Error("ingestion failed", "error", runErr, "hint", core.FormatUserError(runErr))
		}
		return 1
	}
	return 0
}

// stepLogger logs progress each time another step percent is crossed.
type stepLogger struct {
	step int
	next int
}

func newStepLogger(step int) *stepLogger {
	return &stepLogger{step: step, next: step}
}

func (l *stepLogger) observe(p core.Progress) {
	if p.Phase != core.PhaseStreaming || l.step <= 0 {
		return
	}
	pct := p.Percent()
	if pct < float64(l.next) {
		return
	}
	slog.Info("progress",
		"percent", int(pct),
		"line", p.CurrentLine,
		"total", p.TotalLines,
		"persisted", p.Persisted,
		"rejected", p.Rejected,
		"skipped", p.Skipped,
	)
	for float64(l.next) <= pct {
		l.next += l.step
	}
}
