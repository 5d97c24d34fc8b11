package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadDirConcatenatesWithProvenance(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"2023.csv": "Data;UF\n01/01/2023;PR\n",
		"2024.csv": "Data;UF;Setor\n01/01/2024;SP;Comércio\n02/01/2024;MG;Indústria\n",
	})

	tbl, reports, err := LoadDir(dir, Options{}, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.NumRows())
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}

	// Provenance column tags each row with its origin file.
	origin, ok := tbl.Column(ProvenanceColumn)
	if !ok {
		t.Fatalf("missing %s column", ProvenanceColumn)
	}
	if origin[0].S != "2023.csv" || origin[1].S != "2024.csv" {
		t.Errorf("origins = %q, %q", origin[0].S, origin[1].S)
	}

	// Column union: the 2023 file has no Setor; its rows read null there.
	setor, ok := tbl.Column("Setor")
	if !ok {
		t.Fatal("missing Setor column")
	}
	if setor[0].Valid {
		t.Error("2023 row should have null Setor")
	}
	if setor[1].S != "Comércio" {
		t.Errorf("2024 Setor = %q", setor[1].S)
	}
}

func TestLoadDirSkipsBadFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.csv":  "a;b\n1;2\n",
		"empty.csv": "",
	})

	tbl, reports, err := LoadDir(dir, Options{}, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if tbl.NumRows() != 1 {
		t.Errorf("rows = %d, want 1", tbl.NumRows())
	}

	var failed int
	for _, r := range reports {
		if r.Err != "" {
			failed++
			if r.File != "empty.csv" {
				t.Errorf("wrong file failed: %s", r.File)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed reports = %d, want 1", failed)
	}
}

func TestLoadDirRepeatedHeaderKeepsFirst(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"dup.csv": "uf;data;uf\nPR;01/01/2024;SP\n",
	})

	tbl, _, err := LoadDir(dir, Options{}, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	uf, ok := tbl.Column("uf")
	if !ok {
		t.Fatal("missing uf column")
	}
	if uf[0].S != "PR" {
		t.Errorf("uf[0] = %q, want PR (first occurrence must win)", uf[0].S)
	}
}

func TestLoadDirNoFilesFound(t *testing.T) {
	dir := t.TempDir()
	_, _, err := LoadDir(dir, Options{}, nil)
	var notFound *NoFilesFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %T (%v), want *NoFilesFoundError", err, err)
	}
}

func TestLoadDirAllFilesFail(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.csv": "",
		"b.csv": "",
	})
	_, reports, err := LoadDir(dir, Options{}, nil)
	var noneLoaded *NoFilesLoadedError
	if !errors.As(err, &noneLoaded) {
		t.Fatalf("err = %T (%v), want *NoFilesLoadedError", err, err)
	}
	if noneLoaded.Failures != 2 {
		t.Errorf("Failures = %d, want 2", noneLoaded.Failures)
	}
	if len(reports) != 2 {
		t.Errorf("reports = %d, want 2 (one per failed file)", len(reports))
	}
}
