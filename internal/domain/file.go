package domain

import "errors"

// ErrNoMatchingFiles is returned when an input directory holds no file for
// any configured buoy. The run has nothing to aggregate and is aborted.
var ErrNoMatchingFiles = errors.New("no input files matched a configured buoy")

// SkipReason explains why a matched file contributed no records.
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipOpen       SkipReason = "open_failed"
	SkipDecompress SkipReason = "decompress_failed"
	SkipRead       SkipReason = "read_failed"
	SkipEmpty      SkipReason = "empty"
)

// FileResult is the outcome of reading one matched input file: either its
// parsed observations or the reason it was skipped.
type FileResult struct {
	File         string
	Source       Source
	Observations []Observation
	Skip         SkipReason
	Err          error
}

// Skipped reports whether the file contributed nothing.
func (r FileResult) Skipped() bool {
	return r.Skip != SkipNone
}
