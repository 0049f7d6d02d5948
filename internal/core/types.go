package core

import (
	"context"
	"time"
)

// FieldKind is the coercion policy applied to a raw catalog field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInt
	KindFloat
	KindNullInt
	KindNullFloat
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindNullInt:
		return "nullable integer"
	case KindNullFloat:
		return "nullable float"
	default:
		return "value"
	}
}

// FieldSpec describes one positional catalog column.
type FieldSpec struct {
	Position int       // 0-based index in the raw line
	Name     string    // Catalog header name
	DBColumn string    // Destination column (defaults to Name)
	Kind     FieldKind // Coercion policy
}

// Column returns the destination column name.
func (f FieldSpec) Column() string {
	if f.DBColumn != "" {
		return f.DBColumn
	}
	return f.Name
}

// RecordAppender persists one mapped star.
// Satisfied by every store backend.
type RecordAppender interface {
	Append(ctx context.Context, s Star) error
}

// Phase indicates the current state of an ingestion run.
type Phase string

const (
	PhaseStarting  Phase = "starting"
	PhaseHeader    Phase = "header"
	PhaseStreaming Phase = "streaming"
	PhaseComplete  Phase = "complete"
	PhaseFailed    Phase = "failed"
)

// Progress is a snapshot of an ingestion run.
type Progress struct {
	RunID       string `json:"runId"`
	Source      string `json:"source"`
	Phase       Phase  `json:"phase"`
	CurrentLine int    `json:"currentLine"` // Lines consumed so far, header included
	TotalLines  int    `json:"totalLines"`
	Persisted   int    `json:"persisted"`
	Rejected    int    `json:"rejected"`
	Skipped     int    `json:"skipped"`
	Error       string `json:"error,omitempty"` // Non-empty if Phase is PhaseFailed
}

// Percent returns the line-based progress (0-100).
func (p Progress) Percent() float64 {
	if p.TotalLines <= 0 {
		return 0
	}
	return float64(p.CurrentLine) * 100 / float64(p.TotalLines)
}

// FailedRow describes a rejected catalog line.
type FailedRow struct {
	LineNumber int
	Code       string
	Reason     string
	Data       string
}

// Report is the outcome of one ingestion run.
type Report struct {
	RunID      string
	Source     string
	TotalLines int // Lines in the source, header included
	Processed  int // Data lines consumed
	Mapped     int // Lines that produced a Star
	Persisted  int
	Rejected   int // Parse and store failures
	Skipped    int // Lines with the wrong field count
	FailedRows []FailedRow
	Duration   time.Duration
}

// ProgressCallback is called after every processed line.
type ProgressCallback func(Progress)

// RejectCallback is called for every rejected record with its error.
type RejectCallback func(FailedRow, error)
