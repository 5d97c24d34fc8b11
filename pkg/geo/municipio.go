package geo

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// municipiosTSV is the embedded default table: one "<token>\t<name>" pair
// per line, tokens being the 6-digit-code-plus-truncated-name composites
// emitted by the source government system. They must match byte-for-byte,
// truncation artifacts included.
//
//go:embed municipios.tsv
var municipiosTSV string

// Municipios resolves employer municipality tokens to canonical names.
//
// Lifecycle: the first run writes the embedded table to a sidecar file and
// every later run reads the sidecar instead, so operators can extend or
// correct the table by editing the file. Deleting the sidecar regenerates
// the default. Duplicate tokens keep the last occurrence.
type Municipios struct {
	entries map[string]string
	path    string
}

// OpenMunicipios loads the sidecar at path, generating it from the embedded
// table when absent. An empty path skips the sidecar entirely and uses the
// embedded table as-is.
func OpenMunicipios(path string, logger *slog.Logger) (*Municipios, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Municipios{path: path}

	if path == "" {
		m.entries = parseMunicipios(strings.NewReader(municipiosTSV))
		return m, nil
	}

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		m.entries = parseMunicipios(f)
		logger.Info("municipality table loaded from sidecar", "path", path, "entries", len(m.entries))
		return m, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open municipality sidecar %s: %w", path, err)
	}

	logger.Info("municipality sidecar absent, generating", "path", path)
	if err := m.Regenerate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Regenerate rewrites the sidecar from the embedded table and reloads. The
// overwrite is total: external edits are discarded.
func (m *Municipios) Regenerate() error {
	m.entries = parseMunicipios(strings.NewReader(municipiosTSV))
	if m.path == "" {
		return nil
	}

	f, err := os.Create(m.path)
	if err != nil {
		return fmt.Errorf("create municipality sidecar %s: %w", m.path, err)
	}
	// One line per distinct token, first-seen order, last-wins value, so a
	// reload of the sidecar sees exactly the in-memory table.
	var order []string
	written := make(map[string]bool, len(m.entries))
	for _, line := range strings.Split(strings.TrimSpace(municipiosTSV), "\n") {
		token, _, ok := strings.Cut(strings.TrimRight(line, "\r"), "\t")
		if ok && token != "" && !written[token] {
			written[token] = true
			order = append(order, token)
		}
	}
	w := bufio.NewWriter(f)
	for _, token := range order {
		fmt.Fprintf(w, "%s\t%s\n", token, m.entries[token])
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write municipality sidecar: %w", err)
	}
	return f.Close()
}

func parseMunicipios(r io.Reader) map[string]string {
	entries := make(map[string]string, 3000)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		token, name, ok := strings.Cut(strings.TrimRight(sc.Text(), "\r"), "\t")
		if !ok || token == "" {
			continue
		}
		entries[token] = name
	}
	return entries
}

// Resolve returns the canonical name for a token, or false; callers fall
// back to the raw token.
func (m *Municipios) Resolve(token string) (string, bool) {
	name, ok := m.entries[strings.TrimSpace(token)]
	return name, ok
}

// Len returns the number of loaded pairs.
func (m *Municipios) Len() int { return len(m.entries) }
