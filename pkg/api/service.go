// Package api exposes the enriched dataset to the presentation layer:
// filtering, aggregation views, profile, and CSV export, over HTTP and MCP.
// The pipeline itself is stateless; this layer owns the one cache the
// design assumes, keyed by source fingerprint and load options, invalidated
// only by an explicit reload.
package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/observatorio-cat/observatorio/pkg/catalog"
	"github.com/observatorio-cat/observatorio/pkg/dataset"
	"github.com/observatorio-cat/observatorio/pkg/geo"
	"github.com/observatorio-cat/observatorio/pkg/loader"
	"github.com/observatorio-cat/observatorio/pkg/roles"
)

// Source describes where and how to load the data.
type Source struct {
	// Path is a CSV file, or a directory when Dir is set.
	Path string
	Dir  bool
	// Options is passed through to the loader.
	Options loader.Options
	// Fixed, when non-nil, selects the hard-coded column strategy instead
	// of dynamic detection.
	Fixed map[roles.Role]string
}

// Service loads on demand, memoizes, and serves views.
type Service struct {
	source Source
	munic  *geo.Municipios
	log    *catalog.LoadLog
	logger *slog.Logger

	mu      sync.Mutex
	cached  *dataset.Dataset
	key     string
	reports []loader.FileReport
}

// NewService wires a service. loadLog may be nil (no persistent history).
func NewService(source Source, munic *geo.Municipios, loadLog *catalog.LoadLog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, munic: munic, log: loadLog, logger: logger}
}

// Dataset returns the enriched dataset, loading it when the cache is cold
// or the source fingerprint changed. Filter tweaks therefore never re-run
// the loader; only new data or an explicit Reload does.
func (s *Service) Dataset() (*dataset.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.fingerprint()
	if err != nil {
		return nil, err
	}
	if s.cached != nil && s.key == key {
		return s.cached, nil
	}

	ds, reports, err := s.load()
	if err != nil {
		return nil, err
	}
	s.cached, s.key, s.reports = ds, key, reports
	return ds, nil
}

// Reload drops the cache so the next view re-runs the whole pipeline.
func (s *Service) Reload() {
	s.mu.Lock()
	s.cached, s.key = nil, ""
	s.mu.Unlock()
	s.logger.Info("dataset cache invalidated")
}

// Reports returns the per-file report of the last successful load.
func (s *Service) Reports() []loader.FileReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports
}

// History returns persisted load history, newest first.
func (s *Service) History(n int) ([]catalog.Entry, error) {
	if s.log == nil {
		return nil, nil
	}
	return s.log.Recent(n)
}

func (s *Service) load() (*dataset.Dataset, []loader.FileReport, error) {
	opts := dataset.Options{Municipios: s.munic, Logger: s.logger}
	if s.source.Fixed != nil {
		opts.Resolver = roles.Fixed{Columns: s.source.Fixed}
	}

	if s.source.Dir {
		tbl, reports, err := loader.LoadDir(s.source.Path, s.source.Options, s.logger)
		if err != nil {
			return nil, nil, err
		}
		ds, err := dataset.Build(tbl, opts)
		if err != nil {
			return nil, nil, err
		}
		s.record(reports)
		return ds, reports, nil
	}

	tbl, res, err := loader.Load(s.source.Path, s.source.Options)
	if err != nil {
		return nil, nil, err
	}
	reports := []loader.FileReport{{
		File:      filepath.Base(s.source.Path),
		Rows:      tbl.NumRows(),
		Cols:      tbl.NumCols(),
		Encoding:  res.Encoding,
		Delimiter: res.Delimiter,
	}}
	ds, err := dataset.Build(tbl, opts)
	if err != nil {
		return nil, nil, err
	}
	s.record(reports)
	return ds, reports, nil
}

func (s *Service) record(reports []loader.FileReport) {
	if s.log == nil {
		return
	}
	if err := s.log.Record(reports); err != nil {
		s.logger.Warn("load history not recorded", "error", err)
	}
}

// fingerprint keys the cache on source identity: path, mtime, and size of
// every involved file, plus the load options.
func (s *Service) fingerprint() (string, error) {
	files := []string{s.source.Path}
	if s.source.Dir {
		matches, err := filepath.Glob(filepath.Join(s.source.Path, "*.csv"))
		if err != nil {
			return "", fmt.Errorf("glob %s: %w", s.source.Path, err)
		}
		files = matches
	}

	key := fmt.Sprintf("delim=%q;dec=%q;skip=%d", s.source.Options.Delimiter, s.source.Options.Decimal, s.source.Options.SkipRows)
	for _, e := range s.source.Options.Encodings {
		key += ";" + e.Name
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			key += fmt.Sprintf("|%s:absent", f)
			continue
		}
		key += fmt.Sprintf("|%s:%d:%d", f, info.ModTime().UnixNano(), info.Size())
	}
	return key, nil
}
