package table

import "sort"

// CountRow is one bucket of an aggregation view.
type CountRow struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts occurrences of each non-null value in the column,
// sorted by count descending (value ascending on ties). topN <= 0 keeps
// every bucket.
func (t *Table) ValueCounts(column string, topN int) []CountRow {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, row := range t.Rows {
		if v := row[idx]; v.Valid && v.S != "" {
			counts[v.S]++
		}
	}
	out := make([]CountRow, 0, len(counts))
	for v, c := range counts {
		out = append(out, CountRow{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Series counts occurrences per value sorted by value ascending, the shape
// a time series chart wants (for year_month or year columns the string
// order is the chronological order).
func (t *Table) Series(column string) []CountRow {
	out := t.ValueCounts(column, 0)
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// GroupRow is one bucket of a multi-column crosstab.
type GroupRow struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// GroupCount counts rows per distinct combination of the given columns,
// skipping rows with a null in any of them, sorted by keys ascending.
func (t *Table) GroupCount(columns ...string) []GroupRow {
	idxs := make([]int, 0, len(columns))
	for _, c := range columns {
		i := t.ColumnIndex(c)
		if i < 0 {
			return nil
		}
		idxs = append(idxs, i)
	}

	type bucket struct {
		keys  []string
		count int
	}
	buckets := make(map[string]*bucket)
	for _, row := range t.Rows {
		keys := make([]string, len(idxs))
		ok := true
		for j, i := range idxs {
			v := row[i]
			if !v.Valid || v.S == "" {
				ok = false
				break
			}
			keys[j] = v.S
		}
		if !ok {
			continue
		}
		k := join(keys)
		if b, exists := buckets[k]; exists {
			b.count++
		} else {
			buckets[k] = &bucket{keys: keys, count: 1}
		}
	}

	out := make([]GroupRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, GroupRow{Keys: b.keys, Count: b.count})
	}
	sort.Slice(out, func(i, j int) bool {
		return join(out[i].Keys) < join(out[j].Keys)
	})
	return out
}

func join(keys []string) string {
	s := ""
	for _, k := range keys {
		s += k + "\x1f"
	}
	return s
}
