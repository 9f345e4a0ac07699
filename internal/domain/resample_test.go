package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		in      string
		want    Granularity
		wantErr bool
	}{
		{"", Daily, false},
		{"Daily", Daily, false},
		{"weekly", Weekly, false},
		{" MONTHLY ", Monthly, false},
		{"yearly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g, err := ParseGranularity(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownGranularity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestWeekEnd(t *testing.T) {
	sunday := day(2023, time.June, 18)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", day(2023, time.June, 12), sunday},
		{"saturday", day(2023, time.June, 17), sunday},
		{"sunday is its own week end", sunday, sunday},
		{"crosses month", day(2023, time.June, 30), day(2023, time.July, 2)},
		{"crosses year", day(2023, time.December, 28), day(2023, time.December, 31)},
		{"crosses year into january", day(2024, time.December, 31), day(2025, time.January, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, weekEnd(tt.in))
		})
	}
}

func TestMonthEnd(t *testing.T) {
	assert.Equal(t, day(2024, time.February, 29), monthEnd(day(2024, time.February, 3)))
	assert.Equal(t, day(2023, time.February, 28), monthEnd(day(2023, time.February, 28)))
	assert.Equal(t, day(2023, time.December, 31), monthEnd(day(2023, time.December, 1)))
}

func eightDays(region string, start time.Time, values []float64) []Aggregate {
	rows := make([]Aggregate, len(values))
	for i, v := range values {
		rows[i] = Aggregate{Region: region, Date: start.AddDate(0, 0, i), AvgWaveHeight: v}
	}
	return rows
}

func TestResample_Weekly(t *testing.T) {
	// Wed 2023-06-14 .. Wed 2023-06-21: Wed-Sun in week ending 06-18, Mon-Wed in week ending 06-25.
	start := day(2023, time.June, 14)
	rows := append(
		eightDays("A", start, []float64{1, 2, 3, 4, 5, 6, 7, 8}),
		eightDays("B", start, []float64{2, 2, 2, 2, 2, 4, 4, 4})...,
	)

	got, err := Resample(rows, Weekly)
	require.NoError(t, err)
	require.Len(t, got, 4)

	byRegion := map[string][]Aggregate{"A": ForRegion(got, "A"), "B": ForRegion(got, "B")}
	for region, buckets := range byRegion {
		assert.LessOrEqual(t, len(buckets), 2, region)
	}

	assert.Equal(t, Aggregate{Region: "A", Date: day(2023, time.June, 18), AvgWaveHeight: 3}, got[0])
	assert.Equal(t, Aggregate{Region: "A", Date: day(2023, time.June, 25), AvgWaveHeight: 7}, got[1])
	assert.Equal(t, Aggregate{Region: "B", Date: day(2023, time.June, 18), AvgWaveHeight: 2}, got[2])
	assert.Equal(t, Aggregate{Region: "B", Date: day(2023, time.June, 25), AvgWaveHeight: 4}, got[3])
}

func TestResample_Idempotent(t *testing.T) {
	start := day(2023, time.June, 14)
	rows := append(
		eightDays("B", start, []float64{0.3, 1.7, 2.2, 0.9, 1.1, 1.4, 2.8, 0.1}),
		eightDays("A", start, []float64{1.1, 2.2, 3.3, 4.4, 5.5, 6.6, 7.7, 8.8})...,
	)
	snapshot := append([]Aggregate(nil), rows...)

	for _, g := range Granularities {
		first, err := Resample(rows, g)
		require.NoError(t, err)
		second, err := Resample(rows, g)
		require.NoError(t, err)
		assert.Equal(t, first, second, string(g))
	}
	assert.Equal(t, snapshot, rows, "input must not be mutated")
}

func TestResample_DailyIsIdentity(t *testing.T) {
	rows := []Aggregate{
		{Region: "B", Date: day(2023, time.June, 2), AvgWaveHeight: 1},
		{Region: "A", Date: day(2023, time.June, 1), AvgWaveHeight: 2},
	}
	got, err := Resample(rows, Daily)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestResample_MonthlyOmitsEmptyBuckets(t *testing.T) {
	rows := []Aggregate{
		{Region: "A", Date: day(2023, time.January, 5), AvgWaveHeight: 1},
		{Region: "A", Date: day(2023, time.January, 20), AvgWaveHeight: 3},
		{Region: "A", Date: day(2023, time.March, 1), AvgWaveHeight: 5},
	}

	got, err := Resample(rows, Monthly)
	require.NoError(t, err)
	require.Len(t, got, 2, "February has no rows and is not emitted")
	assert.Equal(t, Aggregate{Region: "A", Date: day(2023, time.January, 31), AvgWaveHeight: 2}, got[0])
	assert.Equal(t, Aggregate{Region: "A", Date: day(2023, time.March, 31), AvgWaveHeight: 5}, got[1])
}

func TestResample_Empty(t *testing.T) {
	for _, g := range Granularities {
		got, err := Resample(nil, g)
		require.NoError(t, err)
		assert.Empty(t, got, string(g))
	}
}

func TestResample_UnknownGranularity(t *testing.T) {
	rows := []Aggregate{{Region: "A", Date: day(2023, time.June, 14), AvgWaveHeight: 1}}

	for _, g := range []Granularity{"Yearly", "daily", ""} {
		t.Run(string(g), func(t *testing.T) {
			got, err := Resample(rows, g)
			require.ErrorIs(t, err, ErrUnknownGranularity)
			assert.Nil(t, got)
		})
	}
}
