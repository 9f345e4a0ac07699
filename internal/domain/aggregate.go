package domain

import (
	"cmp"
	"slices"
	"time"
)

// Aggregate is the mean wave height of one region over one period. In the
// persisted daily table Date is a calendar day; in resampled views it is the
// last day of the week or month bucket.
type Aggregate struct {
	Region        string
	Date          time.Time
	AvgWaveHeight float64
}

type regionDay struct {
	region string
	date   time.Time
}

type meanAcc struct {
	sum float64
	n   int
}

// AggregateDaily averages wave height per (region, calendar day). Only valid
// observations are counted. Rows come back sorted by region, then date.
func AggregateDaily(obs []Observation) []Aggregate {
	groups := make(map[regionDay]*meanAcc)
	var order []regionDay
	for _, o := range obs {
		if !o.Valid() {
			continue
		}
		k := regionDay{region: o.Region, date: o.Date()}
		acc, ok := groups[k]
		if !ok {
			acc = &meanAcc{}
			groups[k] = acc
			order = append(order, k)
		}
		acc.sum += *o.WaveHeight
		acc.n++
	}

	out := make([]Aggregate, 0, len(order))
	for _, k := range order {
		acc := groups[k]
		out = append(out, Aggregate{
			Region:        k.region,
			Date:          k.date,
			AvgWaveHeight: acc.sum / float64(acc.n),
		})
	}
	SortAggregates(out)
	return out
}

// SortAggregates orders rows by region, then date.
func SortAggregates(rows []Aggregate) {
	slices.SortStableFunc(rows, func(a, b Aggregate) int {
		if c := cmp.Compare(a.Region, b.Region); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
}

// Regions returns the distinct regions of rows in sorted order.
func Regions(rows []Aggregate) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	slices.Sort(out)
	return out
}

// ForRegion returns the rows belonging to region, preserving order.
func ForRegion(rows []Aggregate, region string) []Aggregate {
	var out []Aggregate
	for _, r := range rows {
		if r.Region == region {
			out = append(out, r)
		}
	}
	return out
}
