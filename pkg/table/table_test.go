package table

import (
	"reflect"
	"testing"
)

func row(vals ...string) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = String(v)
	}
	return out
}

func TestAppendRowPadsShortRows(t *testing.T) {
	tbl := New("a", "b", "c")
	tbl.AppendRow(row("1"))

	if got := tbl.Rows[0]; len(got) != 3 {
		t.Fatalf("row length = %d, want 3", len(got))
	}
	if tbl.Rows[0][1].Valid || tbl.Rows[0][2].Valid {
		t.Errorf("padded cells should be null, got %v", tbl.Rows[0])
	}
}

func TestSetColumnOverwritesOrAppends(t *testing.T) {
	tbl := New("a", "b")
	tbl.AppendRow(row("1", "2"))

	tbl.SetColumn("b", []Value{String("x")})
	if v, _ := tbl.Column("b"); v[0].S != "x" {
		t.Errorf("overwrite: b[0] = %q, want x", v[0].S)
	}

	tbl.SetColumn("c", []Value{String("y")})
	if tbl.NumCols() != 3 {
		t.Fatalf("cols = %d, want 3", tbl.NumCols())
	}
	if v, _ := tbl.Column("c"); v[0].S != "y" {
		t.Errorf("append: c[0] = %q, want y", v[0].S)
	}
}

func TestDedupeColumnsFirstWins(t *testing.T) {
	tbl := &Table{Headers: []string{"uf", "data", "uf"}}
	tbl.AppendRow(row("PR", "01/01/2024", "SP"))

	tbl.DedupeColumns()

	if !reflect.DeepEqual(tbl.Headers, []string{"uf", "data"}) {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	if got := tbl.Rows[0][0].S; got != "PR" {
		t.Errorf("uf = %q, want PR (first occurrence)", got)
	}
}

func TestDedupeColumnsNoDuplicatesUntouched(t *testing.T) {
	tbl := New("a", "b")
	tbl.AppendRow(row("1", "2"))
	tbl.DedupeColumns()
	if tbl.NumCols() != 2 || tbl.NumRows() != 1 {
		t.Fatalf("table changed: %d cols %d rows", tbl.NumCols(), tbl.NumRows())
	}
}

func TestTrimCells(t *testing.T) {
	tbl := New("a")
	tbl.AppendRow(row("  x \t"))
	tbl.AppendRow([]Value{Null})
	tbl.TrimCells()

	if got := tbl.Rows[0][0].S; got != "x" {
		t.Errorf("trimmed = %q, want x", got)
	}
	if tbl.Rows[1][0].Valid {
		t.Error("null cell became valid")
	}
}

func TestConcatColumnUnion(t *testing.T) {
	a := New("uf", "data")
	a.AppendRow(row("PR", "01/01/2024"))

	b := New("data", "setor")
	b.AppendRow(row("02/02/2024", "Comércio"))

	out := Concat(a, b)

	if !reflect.DeepEqual(out.Headers, []string{"uf", "data", "setor"}) {
		t.Fatalf("headers = %v", out.Headers)
	}
	if out.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", out.NumRows())
	}
	// First table has no setor; second has no uf.
	if out.Rows[0][2].Valid {
		t.Error("a row should have null setor")
	}
	if out.Rows[1][0].Valid {
		t.Error("b row should have null uf")
	}
	if got := out.Rows[1][1].S; got != "02/02/2024" {
		t.Errorf("b data = %q", got)
	}
}

func TestConcatRepeatedHeaderFirstWins(t *testing.T) {
	a := &Table{Headers: []string{"uf", "data", "uf"}}
	a.AppendRow(row("PR", "01/01/2024", "SP"))

	out := Concat(a)

	if !reflect.DeepEqual(out.Headers, []string{"uf", "data"}) {
		t.Fatalf("headers = %v", out.Headers)
	}
	if got := out.Rows[0][0].S; got != "PR" {
		t.Errorf("uf = %q, want PR (first occurrence)", got)
	}
}

func TestFilterNoOpPredicates(t *testing.T) {
	tbl := New("uf", "mes")
	tbl.AppendRow(row("PR", "2024-01"))
	tbl.AppendRow(row("SP", "2024-02"))

	tests := []struct {
		name string
		pred Predicate
	}{
		{"empty In set", In{Column: "uf"}},
		{"missing column In", In{Column: "nope", Values: []string{"x"}}},
		{"empty Equal sentinel", Equal{Column: "mes"}},
		{"missing column Equal", Equal{Column: "nope", Value: "x"}},
		{"empty Search term", Search{Term: "  "}},
	}
	for _, tt := range tests {
		got := tbl.Filter(tt.pred)
		if got.NumRows() != 2 {
			t.Errorf("%s: kept %d rows, want all 2", tt.name, got.NumRows())
		}
	}
}

func TestFilterConjunction(t *testing.T) {
	tbl := New("uf", "mes")
	tbl.AppendRow(row("PR", "2024-01"))
	tbl.AppendRow(row("PR", "2024-02"))
	tbl.AppendRow(row("SP", "2024-01"))

	got := tbl.Filter(
		In{Column: "uf", Values: []string{"PR"}},
		Equal{Column: "mes", Value: "2024-01"},
	)
	if got.NumRows() != 1 {
		t.Fatalf("kept %d rows, want 1", got.NumRows())
	}
	if got.Rows[0][0].S != "PR" || got.Rows[0][1].S != "2024-01" {
		t.Errorf("wrong row survived: %v", got.Rows[0])
	}
}

func TestFilterDoesNotMutateReceiver(t *testing.T) {
	tbl := New("uf")
	tbl.AppendRow(row("PR"))
	tbl.AppendRow(row("SP"))

	_ = tbl.Filter(In{Column: "uf", Values: []string{"PR"}})

	if tbl.NumRows() != 2 {
		t.Errorf("receiver mutated: %d rows left", tbl.NumRows())
	}
}

func TestFilterNullNeverMatches(t *testing.T) {
	tbl := New("uf")
	tbl.AppendRow(row("PR"))
	tbl.AppendRow([]Value{Null})

	got := tbl.Filter(In{Column: "uf", Values: []string{"PR"}})
	if got.NumRows() != 1 {
		t.Errorf("kept %d rows, want 1 (null must not match)", got.NumRows())
	}
}

func TestSearchCaseInsensitiveTextColumnsOnly(t *testing.T) {
	tbl := New("setor", "ano")
	tbl.AppendRow(row("Comércio", "2024"))
	tbl.AppendRow(row("Indústria", "2024"))

	got := tbl.Filter(Search{Term: "comérc"})
	if got.NumRows() != 1 {
		t.Fatalf("kept %d rows, want 1", got.NumRows())
	}

	// "2024" lives in an integer-typed column; the term must not hit it.
	got = tbl.Filter(Search{Term: "2024"})
	if got.NumRows() != 0 {
		t.Errorf("numeric column matched search, kept %d rows", got.NumRows())
	}
}

func TestValueCounts(t *testing.T) {
	tbl := New("uf")
	for _, v := range []string{"PR", "SP", "PR", "MG", "SP", "PR"} {
		tbl.AppendRow(row(v))
	}
	tbl.AppendRow([]Value{Null})

	got := tbl.ValueCounts("uf", 0)
	want := []CountRow{{"PR", 3}, {"SP", 2}, {"MG", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ValueCounts = %v, want %v", got, want)
	}

	if top := tbl.ValueCounts("uf", 2); len(top) != 2 || top[0].Value != "PR" {
		t.Errorf("topN = %v", top)
	}
}

func TestValueCountsTieBreaksByValue(t *testing.T) {
	tbl := New("uf")
	for _, v := range []string{"SP", "PR"} {
		tbl.AppendRow(row(v))
	}
	got := tbl.ValueCounts("uf", 0)
	if got[0].Value != "PR" || got[1].Value != "SP" {
		t.Errorf("tie order = %v, want value ascending", got)
	}
}

func TestSeriesSortedByValue(t *testing.T) {
	tbl := New("mes")
	for _, v := range []string{"2024-02", "2024-01", "2024-02"} {
		tbl.AppendRow(row(v))
	}
	got := tbl.Series("mes")
	want := []CountRow{{"2024-01", 1}, {"2024-02", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Series = %v, want %v", got, want)
	}
}

func TestGroupCountSkipsNullKeys(t *testing.T) {
	tbl := New("regiao", "uf")
	tbl.AppendRow(row("Sul", "PR"))
	tbl.AppendRow(row("Sul", "PR"))
	tbl.AppendRow(row("Sul", "SC"))
	tbl.AppendRow([]Value{Null, String("XX")})

	got := tbl.GroupCount("regiao", "uf")
	want := []GroupRow{
		{Keys: []string{"Sul", "PR"}, Count: 2},
		{Keys: []string{"Sul", "SC"}, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupCount = %v, want %v", got, want)
	}
}
