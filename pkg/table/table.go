// Package table implements the in-memory rectangular dataset shared by the
// whole pipeline: nullable string cells, header normalization, column-union
// concatenation, filtering, profiling, and CSV export.
package table

import "strings"

// Value is a single nullable cell.
type Value struct {
	S     string
	Valid bool
}

// String wraps s as a valid cell.
func String(s string) Value {
	return Value{S: s, Valid: true}
}

// Null is the absent cell.
var Null = Value{}

// Table is an ordered sequence of header labels plus row-major cells.
// Header uniqueness is not guaranteed until DedupeColumns has run.
type Table struct {
	Headers []string
	Rows    [][]Value
}

// New creates an empty table with the given headers.
func New(headers ...string) *Table {
	return &Table{Headers: headers}
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.Headers) }

// AppendRow adds a row. Short rows are padded with nulls, long rows are the
// caller's problem (the loader drops them before they get here).
func (t *Table) AppendRow(row []Value) {
	for len(row) < len(t.Headers) {
		row = append(row, Null)
	}
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]Value, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	vals := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		vals[i] = row[idx]
	}
	return vals, true
}

// AddColumn appends a derived column. The value slice must cover every row;
// missing tail entries read as null.
func (t *Table) AddColumn(name string, vals []Value) {
	t.Headers = append(t.Headers, name)
	for i := range t.Rows {
		v := Null
		if i < len(vals) {
			v = vals[i]
		}
		t.Rows[i] = append(t.Rows[i], v)
	}
}

// SetColumn overwrites the named column, appending it when absent.
func (t *Table) SetColumn(name string, vals []Value) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.AddColumn(name, vals)
		return
	}
	for i := range t.Rows {
		v := Null
		if i < len(vals) {
			v = vals[i]
		}
		t.Rows[i][idx] = v
	}
}

// NormalizeHeaders rewrites every header through NormalizeLabel.
func (t *Table) NormalizeHeaders() {
	for i, h := range t.Headers {
		t.Headers[i] = NormalizeLabel(h)
	}
}

// DedupeColumns drops every column whose header already appeared earlier.
// First occurrence wins; the survivors keep their original order and values.
func (t *Table) DedupeColumns() {
	seen := make(map[string]bool, len(t.Headers))
	keep := make([]int, 0, len(t.Headers))
	for i, h := range t.Headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		keep = append(keep, i)
	}
	if len(keep) == len(t.Headers) {
		return
	}

	headers := make([]string, len(keep))
	for j, i := range keep {
		headers[j] = t.Headers[i]
	}
	for r, row := range t.Rows {
		out := make([]Value, len(keep))
		for j, i := range keep {
			if i < len(row) {
				out[j] = row[i]
			}
		}
		t.Rows[r] = out
	}
	t.Headers = headers
}

// TrimCells strips surrounding whitespace from every valid cell.
func (t *Table) TrimCells() {
	for _, row := range t.Rows {
		for i, v := range row {
			if v.Valid {
				row[i] = String(strings.TrimSpace(v.S))
			}
		}
	}
}

// Concat concatenates tables by column union: the result's headers are the
// union in first-seen order, rows keep their per-table order, and cells for
// columns a table does not have are null.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	seen := make(map[string]int)
	for _, t := range tables {
		for _, h := range t.Headers {
			if _, ok := seen[h]; !ok {
				seen[h] = len(out.Headers)
				out.Headers = append(out.Headers, h)
			}
		}
	}

	for _, t := range tables {
		// Per-table header positions in the union. A header repeated within
		// one source table keeps its first occurrence only, matching what
		// DedupeColumns does downstream.
		idx := make([]int, len(t.Headers))
		local := make(map[string]bool, len(t.Headers))
		for i, h := range t.Headers {
			if local[h] {
				idx[i] = -1
				continue
			}
			local[h] = true
			idx[i] = seen[h]
		}
		for _, row := range t.Rows {
			dst := make([]Value, len(out.Headers))
			for i, v := range row {
				if i < len(idx) && idx[i] >= 0 {
					dst[idx[i]] = v
				}
			}
			out.Rows = append(out.Rows, dst)
		}
	}
	return out
}
