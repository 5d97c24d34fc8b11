package roles

import (
	"errors"
	"testing"
)

func TestDetectExactMatch(t *testing.T) {
	headers := []string{"data_acidente", "uf", "setor", "lesao", "origem", "tipo_acidente"}
	m, err := Detect{}.Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := map[Role]string{
		Date:         "data_acidente",
		State:        "uf",
		Sector:       "setor",
		Injury:       "lesao",
		Agent:        "origem",
		AccidentType: "tipo_acidente",
	}
	for role, col := range want {
		if got := m[role]; got != col {
			t.Errorf("%s = %q, want %q", role, got, col)
		}
	}
	if missing := m.Missing(Required); len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestDetectPartialMatch(t *testing.T) {
	// No exact candidate, but the substring scan binds them.
	headers := []string{"dt_do_registro_data_acidente", "sigla_uf_munic_acidente"}
	m, err := Detect{}.Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := m[Date]; got != "dt_do_registro_data_acidente" {
		t.Errorf("date = %q", got)
	}
	if got := m[State]; got != "sigla_uf_munic_acidente" {
		t.Errorf("state = %q", got)
	}
}

func TestDetectExactBeatsPartial(t *testing.T) {
	// "data_acidente_completa" contains the top candidate as a substring,
	// but "data" matches a later candidate exactly; exact wins.
	headers := []string{"data_acidente_completa", "data"}
	m, err := Detect{}.Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := m[Date]; got != "data" {
		t.Errorf("date = %q, want data (exact match beats substring)", got)
	}
}

func TestDetectUnboundRolesAbsent(t *testing.T) {
	m, err := Detect{}.Resolve([]string{"coluna_qualquer", "outra"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("mapping = %v, want empty", m)
	}
	if missing := m.Missing(Required); len(missing) != len(Required) {
		t.Errorf("missing = %v, want all required", missing)
	}
}

func TestDetectRolesIndependent(t *testing.T) {
	// uf_munic_empregador satisfies both State (candidate list) and
	// EmployerState; each role binds on its own.
	m, err := Detect{}.Resolve([]string{"uf_munic_empregador"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m[State] != "uf_munic_empregador" || m[EmployerState] != "uf_munic_empregador" {
		t.Errorf("mapping = %v, want both roles bound to the same column", m)
	}
}

func TestDetectNormalizesHeaders(t *testing.T) {
	m, err := Detect{}.Resolve([]string{"Data do Acidente", "UF Munic. Acidente"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// The mapping reports the original header, not the normalized form.
	if got := m[Date]; got != "Data do Acidente" {
		t.Errorf("date = %q, want original header", got)
	}
}

func TestFixedResolve(t *testing.T) {
	f := Fixed{Columns: map[Role]string{
		Date:  "data",
		State: "uf",
	}}

	m, err := f.Resolve([]string{"data", "uf", "extra"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m[Date] != "data" || m[State] != "uf" {
		t.Errorf("mapping = %v", m)
	}
}

func TestFixedMissingColumnFatal(t *testing.T) {
	f := Fixed{Columns: map[Role]string{
		Date:  "data",
		State: "uf",
	}}

	_, err := f.Resolve([]string{"data"})
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %T (%v), want *MissingColumnsError", err, err)
	}
	if len(missing.Columns) != 1 || missing.Columns[0] != "uf" {
		t.Errorf("Columns = %v, want [uf]", missing.Columns)
	}
}
