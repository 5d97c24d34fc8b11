// Package dataset assembles the enriched accident table: header
// normalization, role resolution, and the derived temporal and geographic
// columns the filtering views consume.
package dataset

import (
	"fmt"
	"log/slog"

	"github.com/observatorio-cat/observatorio/pkg/geo"
	"github.com/observatorio-cat/observatorio/pkg/roles"
	"github.com/observatorio-cat/observatorio/pkg/table"
)

// Derived column names.
const (
	ColYear                 = "ano"
	ColYearMonth            = "mes"
	ColStateCode            = "uf_sigla"
	ColRegion               = "regiao"
	ColEmployerStateCode    = "uf_empregador_sigla"
	ColEmployerMunicipality = "municipio_empregador_novo"
)

// Options configures one build.
type Options struct {
	// Resolver binds semantic roles to columns; nil means the dynamic
	// detect-and-degrade strategy.
	Resolver roles.Resolver
	// Municipios backs the employer-municipality lookup; nil skips it.
	Municipios *geo.Municipios
	Logger     *slog.Logger
}

// Diagnostics counts lookup hits so degraded enrichment is visible without
// ever being an error.
type Diagnostics struct {
	MissingRoles       []string `json:"missing_roles,omitempty"`
	DatesParsed        int      `json:"dates_parsed"`
	DatesTotal         int      `json:"dates_total"`
	UFResolved         int      `json:"uf_resolved"`
	UFTotal            int      `json:"uf_total"`
	EmployerUFResolved int      `json:"employer_uf_resolved"`
	EmployerUFTotal    int      `json:"employer_uf_total"`
	MunicResolved      int      `json:"munic_resolved"`
	MunicTotal         int      `json:"munic_total"`
}

// Dataset is the enriched table plus how it was resolved.
type Dataset struct {
	Table   *table.Table
	Mapping roles.Mapping
	Diag    Diagnostics
}

// Build normalizes headers, resolves roles, copies resolved columns under
// their canonical names, and derives the enrichment columns. The input
// table is mutated and owned by the returned dataset.
//
// Only the Fixed resolver strategy can fail here; everything downstream of
// resolution degrades instead of erroring.
func Build(t *table.Table, opts Options) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = roles.Detect{Logger: logger}
	}

	t.NormalizeHeaders()
	t.DedupeColumns()
	t.TrimCells()

	mapping, err := resolver.Resolve(t.Headers)
	if err != nil {
		return nil, fmt.Errorf("resolve columns: %w", err)
	}

	ds := &Dataset{Table: t, Mapping: mapping}
	for _, r := range mapping.Missing(roles.Required) {
		ds.Diag.MissingRoles = append(ds.Diag.MissingRoles, string(r))
	}

	// Copy each resolved column under its canonical role name. The source
	// column stays; views address the canonical name only.
	for _, role := range roles.All {
		src, ok := mapping[role]
		if !ok || src == string(role) {
			continue
		}
		vals, ok := t.Column(src)
		if !ok {
			continue
		}
		t.SetColumn(string(role), vals)
	}

	ds.deriveTime()
	ds.deriveUF()
	ds.deriveEmployerUF()
	ds.deriveEmployerMunicipality(opts.Municipios)

	logger.Info("dataset built",
		"rows", t.NumRows(), "cols", t.NumCols(),
		"uf_resolved", ds.Diag.UFResolved, "uf_total", ds.Diag.UFTotal,
		"munic_resolved", ds.Diag.MunicResolved, "munic_total", ds.Diag.MunicTotal)
	return ds, nil
}
