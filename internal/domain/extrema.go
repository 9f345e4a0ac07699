package domain

import (
	"slices"
	"time"
)

// Extremum holds the highest and lowest mean of one region within a view.
type Extremum struct {
	Region   string
	MaxValue float64
	MaxDate  time.Time
	MinValue float64
	MinDate  time.Time
}

// ComputeExtrema finds, per region, the rows with the largest and smallest
// mean. Ties go to the earliest date. Regions come back sorted.
func ComputeExtrema(rows []Aggregate) []Extremum {
	sorted := append([]Aggregate(nil), rows...)
	SortAggregates(sorted)

	var out []Extremum
	for _, r := range sorted {
		if len(out) == 0 || out[len(out)-1].Region != r.Region {
			out = append(out, Extremum{
				Region:   r.Region,
				MaxValue: r.AvgWaveHeight,
				MaxDate:  r.Date,
				MinValue: r.AvgWaveHeight,
				MinDate:  r.Date,
			})
			continue
		}
		e := &out[len(out)-1]
		if r.AvgWaveHeight > e.MaxValue {
			e.MaxValue, e.MaxDate = r.AvgWaveHeight, r.Date
		}
		if r.AvgWaveHeight < e.MinValue {
			e.MinValue, e.MinDate = r.AvgWaveHeight, r.Date
		}
	}
	return slices.Clip(out)
}
