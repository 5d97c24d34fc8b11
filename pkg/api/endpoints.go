package api

import (
	"context"
	"fmt"

	"github.com/observatorio-cat/observatorio/pkg/dataset"
	"github.com/observatorio-cat/observatorio/pkg/kit"
	"github.com/observatorio-cat/observatorio/pkg/loader"
	"github.com/observatorio-cat/observatorio/pkg/roles"
	"github.com/observatorio-cat/observatorio/pkg/table"
)

// Shared request/response types used by both HTTP and MCP transports.

// queryReq carries the global filters. Every field is independently
// optional; empty selections and empty strings are no-ops.
type queryReq struct {
	UF           []string `json:"uf,omitempty"`
	Regiao       []string `json:"regiao,omitempty"`
	Mes          string   `json:"mes,omitempty"`
	Ano          string   `json:"ano,omitempty"`
	TipoAcidente []string `json:"tipo_acidente,omitempty"`
	CnaeCodigo   []string `json:"cnae_codigo,omitempty"`
	Setor        []string `json:"setor,omitempty"`
	Arquivo      []string `json:"arquivo_origem,omitempty"`
	Termo        string   `json:"termo,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// predicates translates the request into the filter conjunction.
func (q queryReq) predicates() []table.Predicate {
	return []table.Predicate{
		table.In{Column: dataset.ColStateCode, Values: q.UF},
		table.In{Column: dataset.ColRegion, Values: q.Regiao},
		table.Equal{Column: dataset.ColYearMonth, Value: q.Mes},
		table.Equal{Column: dataset.ColYear, Value: q.Ano},
		table.In{Column: string(roles.AccidentType), Values: q.TipoAcidente},
		table.In{Column: string(roles.SectorCode), Values: q.CnaeCodigo},
		table.In{Column: string(roles.Sector), Values: q.Setor},
		table.In{Column: loader.ProvenanceColumn, Values: q.Arquivo},
		table.Search{Term: q.Termo},
	}
}

type queryResponse struct {
	Total   int        `json:"total"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type summaryResponse struct {
	Rows     int                 `json:"rows"`
	Cols     int                 `json:"cols"`
	Files    int                 `json:"files"`
	UFs      int                 `json:"ufs"`
	Sectors  int                 `json:"sectors"`
	Mapping  map[string]string   `json:"mapping"`
	Diag     dataset.Diagnostics `json:"diagnostics"`
	LastMes  string              `json:"last_month,omitempty"`
	LastQty  int                 `json:"last_month_count,omitempty"`
	DeltaQty int                 `json:"last_month_delta,omitempty"`
}

type countsReq struct {
	queryReq
	Column string `json:"column"`
	TopN   int    `json:"top_n,omitempty"`
}

type countsResponse struct {
	Column  string           `json:"column"`
	Buckets []table.CountRow `json:"buckets"`
}

type seriesReq struct {
	queryReq
	Unit string `json:"unit"` // "mes" or "ano"
}

type seriesResponse struct {
	Unit   string           `json:"unit"`
	Points []table.CountRow `json:"points"`
}

type regionCrossResponse struct {
	Groups []table.GroupRow `json:"groups"`
}

type profileResponse struct {
	Columns []table.ColumnProfile `json:"columns"`
	Diag    dataset.Diagnostics   `json:"diagnostics"`
}

type filesResponse struct {
	Files []loader.FileReport `json:"files"`
}

// --- endpoints ---

func (s *Service) summaryEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		ds, err := s.Dataset()
		if err != nil {
			return nil, err
		}
		t := ds.Table

		resp := summaryResponse{
			Rows:    t.NumRows(),
			Cols:    t.NumCols(),
			Mapping: make(map[string]string, len(ds.Mapping)),
			Diag:    ds.Diag,
		}
		for role, col := range ds.Mapping {
			resp.Mapping[string(role)] = col
		}
		resp.Files = len(t.ValueCounts(loader.ProvenanceColumn, 0))
		resp.UFs = len(t.ValueCounts(dataset.ColStateCode, 0))
		resp.Sectors = len(t.ValueCounts(string(roles.Sector), 0))

		if series := t.Series(dataset.ColYearMonth); len(series) > 0 {
			last := series[len(series)-1]
			resp.LastMes, resp.LastQty = last.Value, last.Count
			if len(series) > 1 {
				resp.DeltaQty = last.Count - series[len(series)-2].Count
			} else {
				resp.DeltaQty = last.Count
			}
		}
		return resp, nil
	}
}

func (s *Service) queryEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*queryReq)
		ds, err := s.Dataset()
		if err != nil {
			return nil, err
		}

		filtered := ds.Table.Filter(req.predicates()...)
		resp := queryResponse{Total: filtered.NumRows(), Headers: filtered.Headers}

		start, end := page(filtered.NumRows(), req.Offset, req.Limit)
		for _, row := range filtered.Rows[start:end] {
			out := make([]string, len(filtered.Headers))
			for i, v := range row {
				if v.Valid {
					out[i] = v.S
				}
			}
			resp.Rows = append(resp.Rows, out)
		}
		return resp, nil
	}
}

func (s *Service) countsEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*countsReq)
		if req.Column == "" {
			return nil, fmt.Errorf("column is required")
		}
		ds, err := s.Dataset()
		if err != nil {
			return nil, err
		}
		filtered := ds.Table.Filter(req.predicates()...)
		return countsResponse{
			Column:  req.Column,
			Buckets: filtered.ValueCounts(req.Column, req.TopN),
		}, nil
	}
}

func (s *Service) seriesEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*seriesReq)
		col := dataset.ColYearMonth
		if req.Unit == "ano" {
			col = dataset.ColYear
		}
		ds, err := s.Dataset()
		if err != nil {
			return nil, err
		}
		filtered := ds.Table.Filter(req.predicates()...)
		return seriesResponse{Unit: req.Unit, Points: filtered.Series(col)}, nil
	}
}

func (s *Service) regionCrossEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*queryReq)
		ds, err := s.Dataset()
		if err != nil {
			return nil, err
		}
		filtered := ds.Table.Filter(req.predicates()...)
		return regionCrossResponse{
			Groups: filtered.GroupCount(dataset.ColRegion, dataset.ColStateCode),
		}, nil
	}
}

func (s *Service) profileEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		ds, err := s.Dataset()
		if err != nil {
			return nil, err
		}
		return profileResponse{Columns: ds.Table.Profile(), Diag: ds.Diag}, nil
	}
}

func (s *Service) filesEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		if _, err := s.Dataset(); err != nil {
			return nil, err
		}
		return filesResponse{Files: s.Reports()}, nil
	}
}

func page(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return offset, end
}
