package geo

import "testing"

func TestSigla(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"Paraná", "PR", true},
		{"PARANA", "PR", true},
		{"parana", "PR", true},
		{"pr", "PR", true},
		{"PR", "PR", true},
		{"São Paulo", "SP", true},
		{"SAO  PAULO", "SP", true},
		{"  Rio de Janeiro  ", "RJ", true},
		{"Mato Grosso do Sul", "MS", true},
		{"Distrito Federal", "DF", true},
		{"Espírito Santo", "ES", true},
		{"Nowhereland", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := Sigla(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Sigla(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSiglaTwoLetterShortCircuit(t *testing.T) {
	// Any two alphabetic characters pass through uppercased, even when
	// they are not a real UF code. Region lookup is where fakes fall out.
	got, ok := Sigla("xx")
	if !ok || got != "XX" {
		t.Fatalf("Sigla(xx) = %q, %v", got, ok)
	}
	if _, ok := Region("XX"); ok {
		t.Error("Region(XX) should be unknown")
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"PR", "Sul", true},
		{"rs", "Sul", true},
		{"SP", "Sudeste", true},
		{"BA", "Nordeste", true},
		{"AM", "Norte", true},
		{"DF", "Centro-Oeste", true},
		{" TO ", "Norte", true},
		{"ZZ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Region(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Region(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAllStatesHaveRegions(t *testing.T) {
	if len(ufSiglas) != 27 {
		t.Errorf("ufSiglas has %d entries, want 27", len(ufSiglas))
	}
	if len(ufRegiao) != 27 {
		t.Errorf("ufRegiao has %d entries, want 27", len(ufRegiao))
	}
	for name, code := range ufSiglas {
		if _, ok := ufRegiao[code]; !ok {
			t.Errorf("state %s (%s) has no region", name, code)
		}
	}
}
