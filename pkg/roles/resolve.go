package roles

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/observatorio-cat/observatorio/pkg/table"
)

// Detect is the dynamic strategy: per role, exact candidate match first,
// then a substring scan over headers in table order. Never fails; roles
// that match nothing stay unbound and required gaps are only logged.
type Detect struct {
	Logger *slog.Logger
}

func (d Detect) Resolve(headers []string) (Mapping, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make([]string, len(headers))
	index := make(map[string]string, len(headers))
	for i, h := range headers {
		n := table.NormalizeLabel(h)
		normalized[i] = n
		if _, ok := index[n]; !ok {
			index[n] = h
		}
	}

	m := make(Mapping)
	for _, role := range All {
		if col, ok := exactMatch(role, index); ok {
			m[role] = col
			continue
		}
		if col, ok := partialMatch(role, headers, normalized); ok {
			m[role] = col
		}
	}

	if missing := m.Missing(Required); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, r := range missing {
			names[i] = string(r)
		}
		logger.Warn("required roles not detected, continuing degraded", "roles", strings.Join(names, ","))
	}
	return m, nil
}

func exactMatch(role Role, index map[string]string) (string, bool) {
	for _, pat := range patterns[role] {
		if col, ok := index[pat]; ok {
			return col, true
		}
	}
	return "", false
}

// partialMatch scans headers in their original order; for each header,
// candidate patterns in priority order. First containing header wins.
func partialMatch(role Role, headers, normalized []string) (string, bool) {
	for i, n := range normalized {
		for _, pat := range patterns[role] {
			if strings.Contains(n, pat) {
				return headers[i], true
			}
		}
	}
	return "", false
}

// MissingColumnsError reports hard-coded columns absent from the input.
// Only the Fixed strategy raises it.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns not present: %s", strings.Join(e.Columns, ", "))
}

// Fixed is the hard-coded strategy: an explicit role-to-column table for
// sources whose layout is known in advance. Any configured column missing
// from the headers is fatal.
type Fixed struct {
	Columns map[Role]string
}

func (f Fixed) Resolve(headers []string) (Mapping, error) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	m := make(Mapping, len(f.Columns))
	var missing []string
	for _, role := range All {
		col, ok := f.Columns[role]
		if !ok {
			continue
		}
		if !present[col] {
			missing = append(missing, col)
			continue
		}
		m[role] = col
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return m, nil
}
