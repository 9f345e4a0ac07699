// Package ndbc reads gzip-compressed NDBC standard meteorological files from
// a local directory.
package ndbc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// ErrInputDir is returned when the input directory cannot be listed.
var ErrInputDir = errors.New("input directory unreadable")

// Reader discovers and parses the files of configured buoys.
// It implements pipeline.Extractor.
type Reader struct {
	dir     string
	catalog *config.Catalog
	schema  *domain.Schema
	workers int
	logger  *slog.Logger
}

// NewReader creates a Reader over dir. workers bounds how many files are
// decompressed and parsed at once.
func NewReader(dir string, catalog *config.Catalog, workers int, logger *slog.Logger) (*Reader, error) {
	schema, err := catalog.Schema()
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &Reader{dir: dir, catalog: catalog, schema: schema, workers: workers, logger: logger}, nil
}

// match is an input file selected for parsing.
type match struct {
	name   string
	source domain.Source
}

// Extract reads every matched file. The returned results follow directory
// order (sorted by filename) regardless of how parsing was scheduled, so the
// union downstream is reproducible. Per-file failures are reported in the
// results; only an unreadable directory or zero matches is an error.
func (r *Reader) Extract(ctx context.Context) ([]domain.FileResult, error) {
	matches, err := r.discover()
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrNoMatchingFiles, r.dir)
	}

	results := make([]domain.FileResult, len(matches))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, m := range matches {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = r.readFile(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// discover lists the directory and keeps files that carry the configured
// suffix and whose id prefix is a configured buoy. Other files are ignored.
func (r *Reader) discover() ([]match, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputDir, err)
	}

	var out []match
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, r.catalog.FileSuffix) || len(name) < r.catalog.IDLength {
			continue
		}
		id := name[:r.catalog.IDLength]
		region, ok := r.catalog.Region(id)
		if !ok {
			r.logger.Debug("ignoring file for unmapped buoy", "file", name, "buoy", id)
			continue
		}
		out = append(out, match{name: name, source: domain.Source{BuoyID: id, Region: region}})
	}
	return out, nil
}

func (r *Reader) readFile(m match) domain.FileResult {
	res := domain.FileResult{File: m.name, Source: m.source}
	r.logger.Info("reading file", "file", m.name, "buoy", m.source.BuoyID, "region", m.source.Region)

	f, err := os.Open(filepath.Join(r.dir, m.name))
	if err != nil {
		res.Skip, res.Err = domain.SkipOpen, err
		return res
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		res.Skip, res.Err = domain.SkipDecompress, err
		return res
	}
	defer zr.Close()

	obs, err := r.schema.Parse(zr, m.source)
	if err != nil {
		res.Skip, res.Err = parseSkipReason(err), err
		return res
	}
	if len(obs) == 0 {
		res.Skip = domain.SkipEmpty
		return res
	}
	res.Observations = obs
	return res
}

// parseSkipReason tells a corrupt gzip stream apart from any other failure
// while reading a file's records.
func parseSkipReason(err error) domain.SkipReason {
	var corrupt flate.CorruptInputError
	switch {
	case errors.Is(err, gzip.ErrChecksum), errors.Is(err, gzip.ErrHeader),
		errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &corrupt):
		return domain.SkipDecompress
	default:
		return domain.SkipRead
	}
}
