package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity selects the bucket size of a resampled view.
type Granularity string

const (
	Daily   Granularity = "Daily"
	Weekly  Granularity = "Weekly"
	Monthly Granularity = "Monthly"
)

// ErrUnknownGranularity is returned for a granularity name that is not one
// of Granularities.
var ErrUnknownGranularity = errors.New("unknown granularity")

// Granularities lists the selectable granularities in display order.
var Granularities = []Granularity{Daily, Weekly, Monthly}

// ParseGranularity accepts a granularity name case-insensitively. An empty
// string selects Daily.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownGranularity, s)
	}
}

// Resample re-aggregates a daily table. Daily returns a copy of rows in their
// input order. Weekly and Monthly average the daily means falling into each
// bucket, per region; buckets without rows are not emitted. Results are sorted
// by region, then bucket date. Any other granularity is ErrUnknownGranularity.
func Resample(rows []Aggregate, g Granularity) ([]Aggregate, error) {
	var bucket func(time.Time) time.Time
	switch g {
	case Daily:
		return append([]Aggregate(nil), rows...), nil
	case Weekly:
		bucket = weekEnd
	case Monthly:
		bucket = monthEnd
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownGranularity, g)
	}

	sorted := append([]Aggregate(nil), rows...)
	SortAggregates(sorted)

	groups := make(map[regionDay]*meanAcc)
	var order []regionDay
	for _, r := range sorted {
		k := regionDay{region: r.Region, date: bucket(r.Date)}
		acc, ok := groups[k]
		if !ok {
			acc = &meanAcc{}
			groups[k] = acc
			order = append(order, k)
		}
		acc.sum += r.AvgWaveHeight
		acc.n++
	}

	out := make([]Aggregate, 0, len(order))
	for _, k := range order {
		acc := groups[k]
		out = append(out, Aggregate{Region: k.region, Date: k.date, AvgWaveHeight: acc.sum / float64(acc.n)})
	}
	SortAggregates(out)
	return out, nil
}

// weekEnd returns the Sunday closing the Monday-Sunday week containing d.
func weekEnd(d time.Time) time.Time {
	d = truncateToDay(d)
	offset := (7 - int(d.Weekday())) % 7
	return d.AddDate(0, 0, offset)
}

// monthEnd returns the last day of d's calendar month.
func monthEnd(d time.Time) time.Time {
	d = truncateToDay(d)
	return time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
