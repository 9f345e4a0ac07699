package artifact

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/parquet-go/parquet-go"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// summaryRow is the Parquet layout of one artifact row. The date stays an
// ISO string so both formats share one contract.
type summaryRow struct {
	Region        string  `parquet:"region"`
	Date          string  `parquet:"date"`
	AvgWaveHeight float64 `parquet:"avg_wave_height"`
}

// ParquetStore keeps the summary as a Parquet file.
type ParquetStore struct {
	path string
}

// NewParquetStore creates a ParquetStore at path.
func NewParquetStore(path string) *ParquetStore {
	return &ParquetStore{path: path}
}

func (s *ParquetStore) Path() string { return s.path }

// LoadSummary replaces the artifact with rows.
func (s *ParquetStore) LoadSummary(_ context.Context, rows []domain.Aggregate) error {
	out := make([]summaryRow, len(rows))
	for i, r := range rows {
		out[i] = summaryRow{
			Region:        r.Region,
			Date:          r.Date.Format(DateLayout),
			AvgWaveHeight: r.AvgWaveHeight,
		}
	}

	return writeAtomic(s.path, func(w io.Writer) error {
		pw := parquet.NewGenericWriter[summaryRow](w)
		if _, err := pw.Write(out); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("close parquet writer: %w", err)
		}
		return nil
	})
}

// ReadSummary reads every row. The file schema must carry exactly the
// artifact columns.
func (s *ParquetStore) ReadSummary(_ context.Context) ([]domain.Aggregate, error) {
	f, err := openArtifact(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	var names []string
	for _, field := range pf.Schema().Fields() {
		names = append(names, field.Name())
	}
	want := slices.Clone(Columns)
	slices.Sort(names)
	slices.Sort(want)
	if !slices.Equal(names, want) {
		return nil, fmt.Errorf("%w: columns %v, want %v", ErrSchemaMismatch, names, Columns)
	}

	raw, err := parquet.Read[summaryRow](f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	rows := make([]domain.Aggregate, 0, len(raw))
	for i, r := range raw {
		row, err := toRow(i+1, r.Region, r.Date, r.AvgWaveHeight)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
