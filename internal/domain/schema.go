package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// NDBC standard meteorological column names.
const (
	ColYear           = "YYYY"
	ColMonth          = "MM"
	ColDay            = "DD"
	ColHour           = "hh"
	ColMinute         = "mm"
	ColWindDir        = "WDIR"
	ColWindSpeed      = "WSPD"
	ColGustSpeed      = "GST"
	ColWaveHeight     = "WVHT"
	ColDominantPeriod = "DPD"
	ColAveragePeriod  = "APD"
	ColMeanWaveDir    = "MWD"
	ColPressure       = "PRES"
	ColAirTemp        = "ATMP"
	ColWaterTemp      = "WTMP"
	ColDewPoint       = "DEWP"
	ColVisibility     = "VIS"
	ColTide           = "TIDE"
)

// DefaultColumns is the 18-field layout of NDBC historical stdmet files.
var DefaultColumns = []string{
	ColYear, ColMonth, ColDay, ColHour, ColMinute, ColWindDir, ColWindSpeed, ColGustSpeed,
	ColWaveHeight, ColDominantPeriod, ColAveragePeriod, ColMeanWaveDir, ColPressure,
	ColAirTemp, ColWaterTemp, ColDewPoint, ColVisibility, ColTide,
}

// DefaultMissingValues are the sentinels NDBC writes for unmeasured fields.
var DefaultMissingValues = []string{"MM", "999.0", "99.00", "9999.0"}

// RequiredColumns must appear in every schema; without them no record can
// be aggregated.
var RequiredColumns = []string{ColYear, ColMonth, ColDay, ColHour, ColWaveHeight}

type fieldSetter func(o *Observation, tok string, missing MissingValues)

func intField(dst func(o *Observation) **int) fieldSetter {
	return func(o *Observation, tok string, missing MissingValues) {
		*dst(o) = missing.parseInt(tok)
	}
}

func floatField(dst func(o *Observation) **float64) fieldSetter {
	return func(o *Observation, tok string, missing MissingValues) {
		*dst(o) = missing.parseFloat(tok)
	}
}

var columnFields = map[string]fieldSetter{
	ColYear:           intField(func(o *Observation) **int { return &o.Year }),
	ColMonth:          intField(func(o *Observation) **int { return &o.Month }),
	ColDay:            intField(func(o *Observation) **int { return &o.Day }),
	ColHour:           intField(func(o *Observation) **int { return &o.Hour }),
	ColMinute:         intField(func(o *Observation) **int { return &o.Minute }),
	ColWindDir:        floatField(func(o *Observation) **float64 { return &o.WindDir }),
	ColWindSpeed:      floatField(func(o *Observation) **float64 { return &o.WindSpeed }),
	ColGustSpeed:      floatField(func(o *Observation) **float64 { return &o.GustSpeed }),
	ColWaveHeight:     floatField(func(o *Observation) **float64 { return &o.WaveHeight }),
	ColDominantPeriod: floatField(func(o *Observation) **float64 { return &o.DominantPeriod }),
	ColAveragePeriod:  floatField(func(o *Observation) **float64 { return &o.AveragePeriod }),
	ColMeanWaveDir:    floatField(func(o *Observation) **float64 { return &o.MeanWaveDir }),
	ColPressure:       floatField(func(o *Observation) **float64 { return &o.Pressure }),
	ColAirTemp:        floatField(func(o *Observation) **float64 { return &o.AirTemp }),
	ColWaterTemp:      floatField(func(o *Observation) **float64 { return &o.WaterTemp }),
	ColDewPoint:       floatField(func(o *Observation) **float64 { return &o.DewPoint }),
	ColVisibility:     floatField(func(o *Observation) **float64 { return &o.Visibility }),
	ColTide:           floatField(func(o *Observation) **float64 { return &o.Tide }),
}

// KnownColumn reports whether name is an NDBC stdmet column the parser can map.
func KnownColumn(name string) bool {
	_, ok := columnFields[name]
	return ok
}

// Schema maps whitespace-separated fields onto Observation by position.
type Schema struct {
	columns []string
	setters []fieldSetter
	missing MissingValues
}

// NewSchema builds a schema from an ordered column list and a sentinel set.
func NewSchema(columns, missingValues []string) (*Schema, error) {
	if len(columns) == 0 {
		return nil, errors.New("schema needs at least one column")
	}
	seen := make(map[string]bool, len(columns))
	setters := make([]fieldSetter, len(columns))
	for i, c := range columns {
		set, ok := columnFields[c]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c)
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
		setters[i] = set
	}
	for _, c := range RequiredColumns {
		if !seen[c] {
			return nil, fmt.Errorf("missing required column %q", c)
		}
	}
	return &Schema{
		columns: append([]string(nil), columns...),
		setters: setters,
		missing: NewMissingValues(missingValues),
	}, nil
}

// Columns returns the ordered column names.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// MaxLineBytes bounds one input line. Longer lines are consumed and kept as
// a single malformed Observation.
const MaxLineBytes = 1 << 20

// Parse reads a stdmet text stream: the first line is a header and is
// skipped, every following non-blank line becomes one Observation tagged with
// src. Runs of whitespace count as a single delimiter. Lines shorter than the
// schema leave trailing fields nil; lines longer than the schema, or than
// MaxLineBytes, are malformed and yield an untimed Observation so the filter
// drops them. An error is returned only when r itself fails.
func (s *Schema) Parse(r io.Reader, src Source) ([]Observation, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var out []Observation
	header := true
	for {
		line, overlong, err := readLine(br, MaxLineBytes)
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return nil, fmt.Errorf("read observations: %w", err)
		}
		switch {
		case header:
			header = false
		case overlong:
			out = append(out, Observation{BuoyID: src.BuoyID, Region: src.Region})
		default:
			if fields := strings.Fields(string(line)); len(fields) > 0 {
				out = append(out, s.ParseFields(fields, src))
			}
		}
		if eof {
			return out, nil
		}
	}
}

// readLine returns the next line including its terminator. A line longer
// than limit is consumed to its end and reported as overlong without content.
func readLine(br *bufio.Reader, limit int) (line []byte, overlong bool, err error) {
	for {
		chunk, rerr := br.ReadSlice('\n')
		if !overlong {
			if len(line)+len(chunk) > limit {
				overlong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !errors.Is(rerr, bufio.ErrBufferFull) {
			return line, overlong, rerr
		}
	}
}

// ParseFields maps one already-split line onto an Observation.
func (s *Schema) ParseFields(fields []string, src Source) Observation {
	o := Observation{BuoyID: src.BuoyID, Region: src.Region}
	if len(fields) > len(s.setters) {
		return o
	}
	for i, tok := range fields {
		s.setters[i](&o, tok, s.missing)
	}
	o.Time = deriveTime(o.Year, o.Month, o.Day, o.Hour)
	return o
}

// MissingValues recognizes sentinel tokens.
type MissingValues struct {
	tokens  map[string]struct{}
	numbers []float64
}

// NewMissingValues builds a sentinel set. Numeric sentinels also match by
// value, so "999" is missing when "999.0" is configured.
func NewMissingValues(tokens []string) MissingValues {
	m := MissingValues{tokens: make(map[string]struct{}, len(tokens))}
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		m.tokens[t] = struct{}{}
		if v, err := strconv.ParseFloat(t, 64); err == nil {
			m.numbers = append(m.numbers, v)
		}
	}
	return m
}

// IsMissing reports whether tok denotes an unmeasured value.
func (m MissingValues) IsMissing(tok string) bool {
	if _, ok := m.tokens[tok]; ok {
		return true
	}
	if len(m.numbers) == 0 {
		return false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return false
	}
	for _, n := range m.numbers {
		if v == n {
			return true
		}
	}
	return false
}

func (m MissingValues) parseFloat(tok string) *float64 {
	if m.IsMissing(tok) {
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (m MissingValues) parseInt(tok string) *int {
	if m.IsMissing(tok) {
		return nil
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return nil
	}
	return &v
}
