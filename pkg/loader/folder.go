package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/observatorio-cat/observatorio/pkg/table"
)

// ProvenanceColumn tags every aggregated row with its origin file.
const ProvenanceColumn = "arquivo_origem"

// FileReport describes how one file of a batch fared.
type FileReport struct {
	File      string `json:"arquivo"`
	Rows      int    `json:"linhas"`
	Cols      int    `json:"colunas"`
	Encoding  string `json:"encoding"`
	Delimiter string `json:"separador"`
	Err       string `json:"erro,omitempty"`
}

// LoadDir loads every *.csv file directly under dir (non-recursive, lexical
// order) and concatenates the successes by column union, tagging rows with
// the origin filename. One bad file is skipped, not fatal; the batch fails
// only when the directory has no CSV files at all (*NoFilesFoundError) or
// when every file fails (*NoFilesLoadedError).
func LoadDir(dir string, opts Options, logger *slog.Logger) (*table.Table, []FileReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, nil, &NoFilesFoundError{Dir: dir}
	}

	var (
		tables  []*table.Table
		reports []FileReport
	)
	for _, path := range files {
		name := filepath.Base(path)
		t, res, err := Load(path, opts)
		if err != nil {
			logger.Warn("file skipped", "file", name, "error", err)
			reports = append(reports, FileReport{File: name, Err: err.Error()})
			continue
		}

		tag := make([]table.Value, t.NumRows())
		for i := range tag {
			tag[i] = table.String(name)
		}
		t.AddColumn(ProvenanceColumn, tag)

		tables = append(tables, t)
		reports = append(reports, FileReport{
			File:      name,
			Rows:      t.NumRows(),
			Cols:      t.NumCols(),
			Encoding:  res.Encoding,
			Delimiter: res.Delimiter,
		})
		logger.Info("file loaded", "file", name, "rows", t.NumRows(), "cols", t.NumCols(),
			"encoding", res.Encoding, "delimiter", res.Delimiter)
	}

	if len(tables) == 0 {
		return nil, reports, &NoFilesLoadedError{Dir: dir, Failures: len(files)}
	}
	return table.Concat(tables...), reports, nil
}
