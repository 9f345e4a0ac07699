package artifact

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// CSVStore keeps the summary as a comma-separated file with a header row.
type CSVStore struct {
	path string
}

// NewCSVStore creates a CSVStore at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string { return s.path }

// LoadSummary replaces the artifact with rows. An empty table still produces
// a file holding the header.
func (s *CSVStore) LoadSummary(_ context.Context, rows []domain.Aggregate) error {
	return writeAtomic(s.path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(Columns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for _, r := range rows {
			rec := []string{
				r.Region,
				r.Date.Format(DateLayout),
				strconv.FormatFloat(r.AvgWaveHeight, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// ReadSummary parses the artifact. The header must match Columns exactly.
func (s *CSVStore) ReadSummary(_ context.Context) ([]domain.Aggregate, error) {
	f, err := openArtifact(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(Columns)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrSchemaMismatch)
		}
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}
	if !slices.Equal(header, Columns) {
		return nil, fmt.Errorf("%w: header %v, want %v", ErrSchemaMismatch, header, Columns)
	}

	rows := []domain.Aggregate{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
		}
		avg, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %s %q is not numeric", ErrSchemaMismatch, line, ColAvgWaveHeight, rec[2])
		}
		row, err := toRow(line, rec[0], rec[1], avg)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
