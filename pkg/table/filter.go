package table

import "strings"

// Predicate is one optional filter clause. An inactive predicate (empty
// selection, sentinel value, empty search term, or missing column) keeps
// every row; this is how "no filter selected" stays distinct from "filter
// to nothing".
type Predicate interface {
	mask(t *Table) []bool
}

// In keeps rows whose column value belongs to the selected set.
// An empty set is a no-op, not "reject all".
type In struct {
	Column string
	Values []string
}

func (p In) mask(t *Table) []bool {
	if len(p.Values) == 0 {
		return nil
	}
	idx := t.ColumnIndex(p.Column)
	if idx < 0 {
		return nil
	}
	set := make(map[string]struct{}, len(p.Values))
	for _, v := range p.Values {
		set[v] = struct{}{}
	}
	keep := make([]bool, len(t.Rows))
	for i, row := range t.Rows {
		if v := row[idx]; v.Valid {
			_, keep[i] = set[v.S]
		}
	}
	return keep
}

// Equal keeps rows whose column value equals Value exactly. The empty
// string is the "all" sentinel and short-circuits to a no-op.
type Equal struct {
	Column string
	Value  string
}

func (p Equal) mask(t *Table) []bool {
	if p.Value == "" {
		return nil
	}
	idx := t.ColumnIndex(p.Column)
	if idx < 0 {
		return nil
	}
	keep := make([]bool, len(t.Rows))
	for i, row := range t.Rows {
		if v := row[idx]; v.Valid {
			keep[i] = v.S == p.Value
		}
	}
	return keep
}

// Search keeps rows where any text-typed column contains Term,
// case-insensitively. An empty term is a no-op.
type Search struct {
	Term string
}

func (p Search) mask(t *Table) []bool {
	term := strings.ToLower(strings.TrimSpace(p.Term))
	if term == "" {
		return nil
	}
	cols := t.textColumns()
	keep := make([]bool, len(t.Rows))
	for i, row := range t.Rows {
		for _, c := range cols {
			if v := row[c]; v.Valid && strings.Contains(strings.ToLower(v.S), term) {
				keep[i] = true
				break
			}
		}
	}
	return keep
}

// Filter applies the conjunction of predicates and returns the surviving
// rows as a new table. Zero predicates return a copy with every row.
// The receiver is never mutated.
func (t *Table) Filter(preds ...Predicate) *Table {
	keep := make([]bool, len(t.Rows))
	for i := range keep {
		keep[i] = true
	}
	for _, p := range preds {
		m := p.mask(t)
		if m == nil {
			continue
		}
		for i := range keep {
			keep[i] = keep[i] && m[i]
		}
	}

	out := &Table{Headers: append([]string(nil), t.Headers...)}
	for i, row := range t.Rows {
		if keep[i] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
