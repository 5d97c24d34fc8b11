package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM makes the exported file open correctly in Excel pt-BR.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the table as comma-separated UTF-8 with a byte-order mark,
// header row first, null cells empty, no index column.
func (t *Table) WriteCSV(w io.Writer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) && row[i].Valid {
				record[i] = row[i].S
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
