package table

import (
	"strconv"
	"strings"
	"time"
)

// Inferred column types reported by Profile.
const (
	TypeDate   = "date"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
)

// dateLayouts is tried in order; Brazilian day-first conventions come before
// ISO so 01/02/2024 reads as February 1st.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a cell as a date, day-first layouts tried first.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ColumnProfile is one row of the dataset profile.
type ColumnProfile struct {
	Column   string  `json:"coluna"`
	Dtype    string  `json:"dtype"`
	Nulls    int     `json:"n_nulos"`
	NullPct  float64 `json:"pct_nulos"`
	Distinct int     `json:"n_unicos"`
}

// Profile computes the per-column null/unique/dtype summary.
func (t *Table) Profile() []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(t.Headers))
	for i, h := range t.Headers {
		p := ColumnProfile{Column: h}
		distinct := make(map[string]struct{})
		var vals []string
		for _, row := range t.Rows {
			v := row[i]
			if !v.Valid || v.S == "" {
				p.Nulls++
				continue
			}
			distinct[v.S] = struct{}{}
			vals = append(vals, v.S)
		}
		p.Distinct = len(distinct)
		if n := len(t.Rows); n > 0 {
			p.NullPct = float64(p.Nulls) / float64(n) * 100
		}
		p.Dtype = inferType(vals)
		profiles = append(profiles, p)
	}
	return profiles
}

// inferType guesses a column type from its non-null values: int if every
// value parses as an integer, float if every value parses numerically, date
// if every value parses as a date, string otherwise.
func inferType(vals []string) string {
	if len(vals) == 0 {
		return TypeString
	}
	allInt, allFloat, allDate := true, true, true
	for _, s := range vals {
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
		if allDate {
			if _, ok := ParseDate(s); !ok {
				allDate = false
			}
		}
		if !allInt && !allFloat && !allDate {
			return TypeString
		}
	}
	switch {
	case allInt:
		return TypeInt
	case allFloat:
		return TypeFloat
	case allDate:
		return TypeDate
	}
	return TypeString
}

// textColumns returns the indices of columns whose inferred type is string.
// The free-text filter searches only these.
func (t *Table) textColumns() []int {
	var idx []int
	for i := range t.Headers {
		var vals []string
		for _, row := range t.Rows {
			if v := row[i]; v.Valid && v.S != "" {
				vals = append(vals, v.S)
			}
		}
		if inferType(vals) == TypeString {
			idx = append(idx, i)
		}
	}
	return idx
}
