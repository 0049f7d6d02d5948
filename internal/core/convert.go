package core

// convert.go provides the field coercers for catalog cells.
//
// The HYG catalog marks absent values by leaving the cell empty:
//   - nullable integer columns (hip, hd, flam, comp, comp_primary) read as 0
//   - nullable float columns (ci, var_min, var_max) read as NaN
//
// Required numeric columns have no fallback: an empty or malformed cell is a
// ParseError. Text columns pass through untouched.

import (
	"math"
	"strconv"
	"strings"
)

// isTerminator reports whether s is nothing but a line terminator. The last
// column of a line may carry one when the source is split without trimming.
func isTerminator(s string) bool {
	return s == "\n" || s == "\r\n" || s == "\r"
}

// ToInt parses a required base-10 integer.
func ToInt(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &ParseError{Position: -1, Kind: KindInt, Value: s, Err: err}
	}
	return v, nil
}

// ToFloat parses a required floating-point literal.
func ToFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ParseError{Position: -1, Kind: KindFloat, Value: s, Err: err}
	}
	return v, nil
}

// ToNullInt parses a nullable integer; an empty cell reads as 0.
func ToNullInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &ParseError{Position: -1, Kind: KindNullInt, Value: s, Err: err}
	}
	return v, nil
}

// ToNullFloat parses a nullable float; an empty cell or a bare line
// terminator reads as NaN.
func ToNullFloat(s string) (float64, error) {
	if s == "" || isTerminator(s) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ParseError{Position: -1, Kind: KindNullFloat, Value: s, Err: err}
	}
	return v, nil
}

// Coerce converts s according to kind. Text is returned as string, the
// integer kinds as int64 and the float kinds as float64.
func Coerce(s string, kind FieldKind) (any, error) {
	switch kind {
	case KindInt:
		return ToInt(s)
	case KindFloat:
		return ToFloat(s)
	case KindNullInt:
		return ToNullInt(s)
	case KindNullFloat:
		return ToNullFloat(s)
	default:
		return s, nil
	}
}

// NullFloat returns nil for NaN and v otherwise. Stores that cannot hold
// NaN use it to bind the catalog's absent marker as SQL NULL.
func NullFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
