package domain

import "slices"

// Combine concatenates the observations of every non-skipped file, in the
// order the results are given.
func Combine(results []FileResult) []Observation {
	n := 0
	for _, r := range results {
		if !r.Skipped() {
			n += len(r.Observations)
		}
	}
	out := make([]Observation, 0, n)
	for _, r := range results {
		if r.Skipped() {
			continue
		}
		out = append(out, r.Observations...)
	}
	return out
}

// FilterValid keeps observations with a timestamp and a numeric wave height
// and returns how many were dropped.
func FilterValid(obs []Observation) ([]Observation, int) {
	kept := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.Valid() {
			kept = append(kept, o)
		}
	}
	return kept, len(obs) - len(kept)
}

// SortByTime orders observations by timestamp. Equal timestamps keep their
// input order.
func SortByTime(obs []Observation) {
	slices.SortStableFunc(obs, func(a, b Observation) int {
		return a.Time.Compare(b.Time)
	})
}
