package core

// ingest.go drives one ingestion run over a LineSource.
//
// The run is a single sequential pass:
//
//	starting -> header -> streaming -> complete
//
// The header line is discarded unconditionally. Every later line is split,
// checked for FieldCount fields (others, and overlong lines, are skipped),
// mapped and appended.
// Parse and store failures are reported through OnReject and counted; they
// never stop the run. Only a source read error or a cancelled context ends
// it early.

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxFailedRows bounds Report.FailedRows when Options leaves it unset.
const DefaultMaxFailedRows = 1000

// Options tunes an Ingester.
type Options struct {
	OnProgress    ProgressCallback // Called after every line; may be nil
	OnReject      RejectCallback   // Called for every rejected record; may be nil
	MaxFailedRows int              // Failed rows kept in the report; 0 uses DefaultMaxFailedRows, <0 keeps none
	Logger        *slog.Logger     // Defaults to slog.Default()
}

// Ingester loads catalog lines into a store.
type Ingester struct {
	store RecordAppender
	opts  Options
}

// NewIngester creates an Ingester appending to store.
func NewIngester(store RecordAppender, opts Options) *Ingester {
	if opts.MaxFailedRows == 0 {
		opts.MaxFailedRows = DefaultMaxFailedRows
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Ingester{store: store, opts: opts}
}

// Run ingests every line of src. The returned Report is non-nil even when
// an error is returned; the error wraps ErrFatal.
func (in *Ingester) Run(ctx context.Context, src *LineSource) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:      uuid.NewString(),
		Source:     src.Name(),
		TotalLines: src.Total(),
	}
	logger := in.opts.Logger.With("run_id", report.RunID, "source", report.Source)

	progress := Progress{
		RunID:      report.RunID,
		Source:     report.Source,
		Phase:      PhaseStarting,
		TotalLines: report.TotalLines,
	}
	in.notify(progress)

	// Header
	progress.Phase = PhaseHeader
	if _, ok := src.Next(); ok {
		progress.CurrentLine = src.Read()
		in.notify(progress)
	}

	// Streaming
	progress.Phase = PhaseStreaming
	for {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, in.fail(progress, Fatal("ingest", err))
		}

		line, ok := src.Next()
		if !ok {
			break
		}
		lineNum := src.Read()
		report.Processed++

		fields := SplitLine(line)
		if src.Overlong() {
			report.Skipped++
			logger.Debug("line skipped", "line", lineNum, "reason", "exceeds max line size")
		} else if len(fields) != FieldCount {
			report.Skipped++
			logger.Debug("line skipped", "line", lineNum, "fields", len(fields))
		} else if star, err := MapStar(fields); err != nil {
			in.reject(report, lineNum, line, err)
		} else {
			report.Mapped++
			if err := in.store.Append(ctx, star); err != nil {
				in.reject(report, lineNum, line, &StoreError{ID: star.ID, Err: err})
			} else {
				report.Persisted++
			}
		}

		progress.CurrentLine = lineNum
		progress.Persisted = report.Persisted
		progress.Rejected = report.Rejected
		progress.Skipped = report.Skipped
		in.notify(progress)
	}

	report.Duration = time.Since(start)

	if err := src.Err(); err != nil {
		return report, in.fail(progress, Fatal("read catalog", err))
	}

	progress.Phase = PhaseComplete
	in.notify(progress)

	logger.Info("ingestion complete",
		"lines", report.TotalLines,
		"mapped", report.Mapped,
		"persisted", report.Persisted,
		"rejected", report.Rejected,
		"skipped", report.Skipped,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func (in *Ingester) notify(p Progress) {
	if in.opts.OnProgress != nil {
		in.opts.OnProgress(p)
	}
}

// fail publishes the failed phase and returns err.
func (in *Ingester) fail(p Progress, err error) error {
	p.Phase = PhaseFailed
	p.Error = err.Error()
	in.notify(p)
	return err
}

func (in *Ingester) reject(report *Report, lineNum int, line string, err error) {
	report.Rejected++

	row := FailedRow{
		LineNumber: lineNum,
		Code:       MapError(err).Code,
		Reason:     err.Error(),
		Data:       line,
	}
	if len(report.FailedRows) < in.opts.MaxFailedRows {
		report.FailedRows = append(report.FailedRows, row)
	}
	if in.opts.OnReject != nil {
		in.opts.OnReject(row, err)
	}
}
