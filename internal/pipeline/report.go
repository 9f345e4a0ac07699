package pipeline

import (
	"time"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// Report summarizes one ingest run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	FilesMatched int
	FilesParsed  int
	Skipped      []SkippedFile

	RecordsParsed  int
	RecordsDropped int
	RecordsKept    int

	Regions []string
	Rows    int
}

// SkippedFile is a matched file that contributed no records.
type SkippedFile struct {
	File   string
	BuoyID string
	Reason domain.SkipReason
	Error  string
}

// Duration is the wall time of the run.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// LogAttrs returns the report as slog key-value pairs.
func (r Report) LogAttrs() []any {
	return []any{
		"files_matched", r.FilesMatched,
		"files_parsed", r.FilesParsed,
		"files_skipped", len(r.Skipped),
		"records_parsed", r.RecordsParsed,
		"records_dropped", r.RecordsDropped,
		"records_kept", r.RecordsKept,
		"total_rows", r.Rows,
		"regions", r.Regions,
		"duration", r.Duration(),
	}
}
