package core

// errors.go defines the error taxonomy of an ingestion run.
//
// Record errors (SchemaError, ParseError, StoreError) are isolated to the
// offending line: the driver reports them and moves on. Anything wrapping
// ErrFatal ends the run.

import (
	"errors"
	"fmt"
)

// ErrFatal marks errors that abort an ingestion run: an unreachable store,
// a failed schema creation or an unreadable source.
var ErrFatal = errors.New("fatal")

// Fatal wraps err so that errors.Is(err, ErrFatal) reports true.
func Fatal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrFatal, err)
}

// SchemaError reports a line whose field count differs from the catalog layout.
type SchemaError struct {
	Got  int
	Want int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: expected %d fields, got %d", e.Want, e.Got)
}

// ParseError reports a field that could not be coerced to its declared kind.
// Column and Position are empty/-1 when the coercer is used standalone.
type ParseError struct {
	Column   string
	Position int
	Kind     FieldKind
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("parse %s (field %d): invalid %s %q", e.Column, e.Position, e.Kind, e.Value)
	}
	return fmt.Sprintf("parse: invalid %s %q", e.Kind, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StoreError reports a failed insert for a single record.
type StoreError struct {
	ID  int64
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store star %d: %v", e.ID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
