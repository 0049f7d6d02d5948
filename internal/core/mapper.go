package core

import (
	"errors"
	"strings"
)

// SplitLine splits a raw catalog line on commas. Catalog cells never
// contain quoted commas, so no CSV quoting is applied.
func SplitLine(line string) []string {
	return strings.Split(line, ",")
}

// MapStar builds a Star from exactly FieldCount raw fields.
// A wrong field count yields *SchemaError; the first uncoercible field
// yields *ParseError naming the column.
func MapStar(fields []string) (Star, error) {
	if len(fields) != FieldCount {
		return Star{}, &SchemaError{Got: len(fields), Want: FieldCount}
	}

	r := rowReader{fields: fields}
	s := Star{
		ID:  r.int(0),
		Hip: r.int(1),
		HD:  r.int(2),
		HR:  r.text(3),

		Gl:     r.text(4),
		Bf:     r.text(5),
		Proper: r.text(6),

		RA:    r.float(7),
		Dec:   r.float(8),
		Dist:  r.float(9),
		PMRA:  r.float(10),
		PMDec: r.float(11),
		RV:    r.float(12),

		Mag:    r.float(13),
		AbsMag: r.float(14),
		Spect:  r.text(15),
		CI:     r.float(16),

		X:  r.float(17),
		Y:  r.float(18),
		Z:  r.float(19),
		VX: r.float(20),
		VY: r.float(21),
		VZ: r.float(22),

		RARad:    r.float(23),
		DecRad:   r.float(24),
		PMRARad:  r.float(25),
		PMDecRad: r.float(26),

		Bayer:       r.text(27),
		Flam:        r.int(28),
		Con:         r.text(29),
		Comp:        r.int(30),
		CompPrimary: r.int(31),
		Base:        r.text(32),
		Lum:         r.float(33),
		VarType:     r.text(34),
		VarMin:      r.float(35),
		VarMax:      r.float(36),
	}
	if r.err != nil {
		return Star{}, r.err
	}
	return s, nil
}

// rowReader coerces positional fields, keeping the first error.
type rowReader struct {
	fields []string
	err    error
}

func (r *rowReader) text(pos int) string {
	return r.fields[pos]
}

func (r *rowReader) int(pos int) int64 {
	v, _ := r.coerce(pos).(int64)
	return v
}

func (r *rowReader) float(pos int) float64 {
	v, _ := r.coerce(pos).(float64)
	return v
}

// coerce converts the field at pos by its declared kind. After the first
// error it returns nil.
func (r *rowReader) coerce(pos int) any {
	if r.err != nil {
		return nil
	}
	v, err := Coerce(r.fields[pos], StarFields[pos].Kind)
	r.fail(pos, err)
	return v
}

func (r *rowReader) fail(pos int, err error) {
	if err == nil {
		return
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Column = StarFields[pos].Name
		pe.Position = pos
	}
	r.err = err
}
