// Package loader turns raw delimited-text bytes of unreliable encoding and
// delimiter into rectangular tables. Detection is a greedy cross-product
// search: encodings in priority order, delimiters per encoding, first parse
// that yields at least one column wins.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/observatorio-cat/observatorio/pkg/table"
)

// Options controls one load.
type Options struct {
	// Delimiter overrides auto-detection when nonzero.
	Delimiter rune
	// Decimal is the decimal separator used by numeric columns (',' or '.').
	// Zero means ','.
	Decimal rune
	// SkipRows drops this many leading rows before the header.
	SkipRows int
	// Encodings is the candidate priority list; nil means DefaultEncodings.
	Encodings []Encoding
}

func (o Options) encodings() []Encoding {
	if len(o.Encodings) == 0 {
		return DefaultEncodings()
	}
	return o.Encodings
}

func (o Options) decimal() rune {
	if o.Decimal == 0 {
		return ','
	}
	return o.Decimal
}

// Result reports which combination the search accepted.
type Result struct {
	Encoding    string `json:"encoding"`
	Delimiter   string `json:"delimiter"`
	DroppedRows int    `json:"dropped_rows"`
}

// Load reads the file once and runs the detection search over its bytes.
func Load(path string, opts Options) (*table.Table, Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	t, res, err := LoadBytes(raw, opts)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Source = path
		}
		return nil, Result{}, err
	}
	return t, res, nil
}

// LoadBytes runs the (encoding x delimiter) search over raw bytes.
//
// The search is encoding-major, delimiter-minor: an earlier encoding with a
// "wrong" delimiter can beat a later encoding with the "right" one. This
// greedy order is deliberate; latin1 leads precisely because it never
// rejects input.
func LoadBytes(raw []byte, opts Options) (*table.Table, Result, error) {
	sniffed, _ := SniffDelimiter(raw)
	delims := Candidates(opts.Delimiter, sniffed)

	var lastErr error
	for _, enc := range opts.encodings() {
		text, err := enc.Decode(raw)
		if err != nil {
			lastErr = err
			continue
		}
		for _, delim := range delims {
			t, dropped, err := parse(text, delim, opts.SkipRows)
			if err != nil {
				lastErr = err
				continue
			}
			if t.NumCols() < 1 {
				lastErr = fmt.Errorf("%s + %q: no columns", enc.Name, delim)
				continue
			}
			applyDecimal(t, opts.decimal())
			return t, Result{Encoding: enc.Name, Delimiter: string(delim), DroppedRows: dropped}, nil
		}
	}
	return nil, Result{}, &LoadError{Source: "input", Last: lastErr}
}

// parse does one lenient pass: quoted fields tolerated anywhere, variable
// field counts allowed, short rows null-padded, long rows dropped, and
// per-record parse errors skipped instead of aborting.
func parse(text string, delim rune, skipRows int) (*table.Table, int, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	for i := 0; i < skipRows; i++ {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				return nil, 0, fmt.Errorf("input exhausted skipping %d rows", skipRows)
			}
			// Malformed leading row still counts as skipped.
			continue
		}
	}

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	t := table.New(header...)

	dropped := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		if len(record) > len(header) {
			dropped++
			continue
		}
		row := make([]table.Value, len(record))
		for i, s := range record {
			row[i] = table.String(s)
		}
		t.AppendRow(row)
	}
	return t, dropped, nil
}

var decimalComma = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*,\d+$|^-?\d+,\d+$`)
var plainNumber = regexp.MustCompile(`^-?\d+([.,]\d+)?$`)

// applyDecimal rewrites comma decimals to dots, but only in columns whose
// every non-null value looks numeric under the comma convention. Mirrors
// how a decimal-aware reader converts whole columns, not individual cells.
func applyDecimal(t *table.Table, decimal rune) {
	if decimal != ',' {
		return
	}
	for col := 0; col < t.NumCols(); col++ {
		numeric := false
		eligible := true
		for _, row := range t.Rows {
			v := row[col]
			if !v.Valid || strings.TrimSpace(v.S) == "" {
				continue
			}
			s := strings.TrimSpace(v.S)
			if !plainNumber.MatchString(s) && !decimalComma.MatchString(s) {
				eligible = false
				break
			}
			if strings.ContainsRune(s, ',') {
				numeric = true
			}
		}
		if !eligible || !numeric {
			continue
		}
		for _, row := range t.Rows {
			v := row[col]
			if !v.Valid {
				continue
			}
			// Dots are thousands separators only in the comma-decimal form;
			// a plain dot-decimal like "1.5" stays as is.
			s := strings.TrimSpace(v.S)
			if decimalComma.MatchString(s) {
				s = strings.ReplaceAll(s, ".", "")
			}
			row[col] = table.String(strings.ReplaceAll(s, ",", "."))
		}
	}
}
