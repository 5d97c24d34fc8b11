package dataset

import (
	"fmt"

	"github.com/observatorio-cat/observatorio/pkg/geo"
	"github.com/observatorio-cat/observatorio/pkg/roles"
	"github.com/observatorio-cat/observatorio/pkg/table"
)

// deriveTime adds ano and mes (YYYY-MM) from the date role. Unparseable
// dates leave both null; the raw date cell is untouched.
func (ds *Dataset) deriveTime() {
	vals, ok := ds.column(roles.Date)
	if !ok {
		return
	}
	years := make([]table.Value, len(vals))
	months := make([]table.Value, len(vals))
	for i, v := range vals {
		if !v.Valid || v.S == "" {
			continue
		}
		ds.Diag.DatesTotal++
		ts, ok := table.ParseDate(v.S)
		if !ok {
			continue
		}
		ds.Diag.DatesParsed++
		years[i] = table.String(fmt.Sprintf("%d", ts.Year()))
		months[i] = table.String(ts.Format("2006-01"))
	}
	ds.Table.SetColumn(ColYear, years)
	ds.Table.SetColumn(ColYearMonth, months)
}

// deriveUF adds uf_sigla and regiao from the accident state role. Unknown
// state names leave both null.
func (ds *Dataset) deriveUF() {
	vals, ok := ds.column(roles.State)
	if !ok {
		return
	}
	siglas := make([]table.Value, len(vals))
	regions := make([]table.Value, len(vals))
	for i, v := range vals {
		if !v.Valid || v.S == "" {
			continue
		}
		ds.Diag.UFTotal++
		sigla, ok := geo.Sigla(v.S)
		if !ok {
			continue
		}
		ds.Diag.UFResolved++
		siglas[i] = table.String(sigla)
		if region, ok := geo.Region(sigla); ok {
			regions[i] = table.String(region)
		}
	}
	ds.Table.SetColumn(ColStateCode, siglas)
	ds.Table.SetColumn(ColRegion, regions)
}

// deriveEmployerUF adds uf_empregador_sigla from the employer state role,
// falling back to the raw value when the lookup misses.
func (ds *Dataset) deriveEmployerUF() {
	vals, ok := ds.column(roles.EmployerState)
	if !ok {
		return
	}
	siglas := make([]table.Value, len(vals))
	for i, v := range vals {
		if !v.Valid || v.S == "" {
			siglas[i] = v
			continue
		}
		ds.Diag.EmployerUFTotal++
		if sigla, ok := geo.Sigla(v.S); ok {
			ds.Diag.EmployerUFResolved++
			siglas[i] = table.String(sigla)
		} else {
			siglas[i] = v
		}
	}
	ds.Table.SetColumn(ColEmployerStateCode, siglas)
}

// deriveEmployerMunicipality adds municipio_empregador_novo from the
// employer municipality role via the token table, falling back to the raw
// token on a miss.
func (ds *Dataset) deriveEmployerMunicipality(m *geo.Municipios) {
	if m == nil {
		return
	}
	vals, ok := ds.column(roles.EmployerMunicipality)
	if !ok {
		return
	}
	names := make([]table.Value, len(vals))
	for i, v := range vals {
		if !v.Valid || v.S == "" {
			names[i] = v
			continue
		}
		ds.Diag.MunicTotal++
		if name, ok := m.Resolve(v.S); ok {
			ds.Diag.MunicResolved++
			names[i] = table.String(name)
		} else {
			names[i] = v
		}
	}
	ds.Table.SetColumn(ColEmployerMunicipality, names)
}

// column reads the canonical column for a resolved role; absent roles or
// columns read as not-ok.
func (ds *Dataset) column(role roles.Role) ([]table.Value, bool) {
	if _, ok := ds.Mapping[role]; !ok {
		return nil, false
	}
	return ds.Table.Column(string(role))
}
