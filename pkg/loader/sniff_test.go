package loader

import (
	"reflect"
	"testing"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
		ok     bool
	}{
		{"semicolon", "a;b;c\n1;2;3\n", ';', true},
		{"comma", "a,b\n1,2\n", ',', true},
		{"tab", "a\tb\n1\t2\n", '\t', true},
		{"pipe", "a|b\n1|2\n", '|', true},
		{"inconsistent counts", "a;b\n1;2;3\n", 0, false},
		{"no delimiter", "abc\ndef\n", 0, false},
		{"empty", "", 0, false},
		{"single line", "a;b;c", ';', true},
	}
	for _, tt := range tests {
		got, ok := SniffDelimiter([]byte(tt.sample))
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("%s: SniffDelimiter = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSniffPrefersHigherCount(t *testing.T) {
	// Both ; and , appear consistently; ; appears twice per line.
	got, ok := SniffDelimiter([]byte("a;b;c,d\n1;2;3,4\n"))
	if !ok || got != ';' {
		t.Errorf("SniffDelimiter = %q, %v; want ;", got, ok)
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		explicit, sniffed rune
		want              []rune
	}{
		{0, 0, []rune{';', ',', '\t', '|'}},
		{0, ',', []rune{',', ';', '\t', '|'}},
		{'|', ';', []rune{'|', ';', ',', '\t'}},
		{';', ';', []rune{';', ',', '\t', '|'}},
	}
	for _, tt := range tests {
		got := Candidates(tt.explicit, tt.sniffed)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Candidates(%q, %q) = %q, want %q", tt.explicit, tt.sniffed, got, tt.want)
		}
	}
}

func TestDecodeStrictUTF8(t *testing.T) {
	latin1Bytes := []byte("Com\xe9rcio")

	for _, enc := range DefaultEncodings() {
		got, err := enc.Decode(latin1Bytes)
		switch enc.Name {
		case "latin1":
			if err != nil || got != "Comércio" {
				t.Errorf("latin1 decode = %q, %v", got, err)
			}
		case "utf-8", "utf-8-sig":
			if err == nil {
				t.Errorf("%s accepted invalid UTF-8", enc.Name)
			}
		case "cp1252":
			if err != nil {
				t.Errorf("cp1252 decode failed: %v", err)
			}
		}
	}
}

func TestReorder(t *testing.T) {
	encs := Reorder("utf-8")
	if encs[0].Name != "utf-8" {
		t.Errorf("first = %s, want utf-8", encs[0].Name)
	}
	if len(encs) != 4 {
		t.Errorf("len = %d, want 4", len(encs))
	}

	// Unknown name keeps the default order.
	encs = Reorder("koi8-r")
	if encs[0].Name != "latin1" {
		t.Errorf("first = %s, want latin1", encs[0].Name)
	}
}
