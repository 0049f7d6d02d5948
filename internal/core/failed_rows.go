package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var failedRowsHeader = []string{"line", "code", "reason", "data"}

// WriteFailedRows writes rejected lines to a CSV file at path, replacing
// any previous file. Nothing is written when rows is empty.
func WriteFailedRows(path string, rows []FailedRow) error {
	if len(rows) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create failed rows file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(failedRowsHeader); err != nil {
		return fmt.Errorf("write failed rows header: %w", err)
	}
	for _, row := range rows {
		rec := []string{strconv.Itoa(row.LineNumber), row.Code, row.Reason, row.Data}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write failed row %d: %w", row.LineNumber, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush failed rows: %w", err)
	}
	return f.Close()
}
