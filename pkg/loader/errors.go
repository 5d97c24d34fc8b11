package loader

import "fmt"

// LoadError means every (encoding, delimiter) combination failed to produce
// a table with at least one column. It carries the last underlying parse
// failure.
type LoadError struct {
	Source string
	Last   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: no encoding/delimiter combination produced a table (last error: %v)", e.Source, e.Last)
}

func (e *LoadError) Unwrap() error { return e.Last }

// NoFilesFoundError means directory mode matched zero *.csv files.
type NoFilesFoundError struct {
	Dir string
}

func (e *NoFilesFoundError) Error() string {
	return fmt.Sprintf("no CSV files found in %s", e.Dir)
}

// NoFilesLoadedError means directory mode found files but every single one
// failed to load.
type NoFilesLoadedError struct {
	Dir      string
	Failures int
}

func (e *NoFilesLoadedError) Error() string {
	return fmt.Sprintf("none of the %d CSV files in %s could be loaded", e.Failures, e.Dir)
}
