package store

// schema.go derives the stars table DDL and insert statement from
// core.StarFields, so column order is defined in exactly one place.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/hygload/internal/core"
)

// dialect captures the SQL differences between backends.
type dialect struct {
	intType     string
	realType    string
	textType    string
	autoKey     string // Column definition for a store-assigned key
	placeholder func(n int) string
}

var sqliteDialect = dialect{
	intType:     "integer",
	realType:    "real",
	textType:    "text",
	autoKey:     "integer PRIMARY KEY",
	placeholder: func(int) string { return "?" },
}

var postgresDialect = dialect{
	intType:     "bigint",
	realType:    "double precision",
	textType:    "text",
	autoKey:     "bigint GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

func (d dialect) columnType(kind core.FieldKind) string {
	switch kind {
	case core.KindInt, core.KindNullInt:
		return d.intType
	case core.KindFloat, core.KindNullFloat:
		return d.realType
	default:
		return d.textType
	}
}

// createTableSQL returns an idempotent CREATE TABLE statement.
func (d dialect) createTableSQL(table string, policy KeyPolicy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdentifier(table))

	if policy == KeyAuto {
		fmt.Fprintf(&b, "\tid %s,\n", d.autoKey)
		fmt.Fprintf(&b, "\tsource_id %s NOT NULL", d.intType)
	} else {
		fmt.Fprintf(&b, "\tid %s PRIMARY KEY", d.intType)
	}

	for _, f := range core.DataFields() {
		fmt.Fprintf(&b, ",\n\t%s %s", quoteIdentifier(f.Column()), d.columnType(f.Kind))
	}
	b.WriteString("\n)")
	return b.String()
}

// insertSQL returns the single-row insert. The first bound value is the
// catalog id, followed by core.Star.Values.
func (d dialect) insertSQL(table string, policy KeyPolicy) string {
	keyCol := "id"
	if policy == KeyAuto {
		keyCol = "source_id"
	}

	fields := core.DataFields()
	cols := make([]string, 0, len(fields)+1)
	params := make([]string, 0, len(fields)+1)

	cols = append(cols, keyCol)
	params = append(params, d.placeholder(1))
	for i, f := range fields {
		cols = append(cols, quoteIdentifier(f.Column()))
		params = append(params, d.placeholder(i+2))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(table), strings.Join(cols, ", "), strings.Join(params, ", "))
}

func countSQL(table string) string {
	return "SELECT COUNT(*) FROM " + quoteIdentifier(table)
}

// insertArgs returns the bound values for s. When nanAsNull is set, NaN in
// nullable float columns is bound as NULL.
func insertArgs(s core.Star, nanAsNull bool) []any {
	values := s.Values()
	if nanAsNull {
		for i, f := range core.DataFields() {
			if f.Kind == core.KindNullFloat {
				values[i] = core.NullFloat(values[i].(float64))
			}
		}
	}
	return append([]any{s.ID}, values...)
}

// quoteIdentifier safely quotes a SQL identifier.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
