package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeExtrema(t *testing.T) {
	rows := []Aggregate{
		{Region: "South Shore", Date: day(2023, time.March, 31), AvgWaveHeight: 0.8},
		{Region: "North Shore", Date: day(2023, time.January, 31), AvgWaveHeight: 3.1},
		{Region: "North Shore", Date: day(2023, time.February, 28), AvgWaveHeight: 2.4},
		{Region: "North Shore", Date: day(2023, time.July, 31), AvgWaveHeight: 1.2},
		{Region: "South Shore", Date: day(2023, time.July, 31), AvgWaveHeight: 1.9},
	}

	got := ComputeExtrema(rows)
	require.Len(t, got, 2)

	assert.Equal(t, Extremum{
		Region:   "North Shore",
		MaxValue: 3.1, MaxDate: day(2023, time.January, 31),
		MinValue: 1.2, MinDate: day(2023, time.July, 31),
	}, got[0])
	assert.Equal(t, Extremum{
		Region:   "South Shore",
		MaxValue: 1.9, MaxDate: day(2023, time.July, 31),
		MinValue: 0.8, MinDate: day(2023, time.March, 31),
	}, got[1])
}

func TestComputeExtrema_TiesPickEarliestDate(t *testing.T) {
	// Input deliberately out of date order.
	rows := []Aggregate{
		{Region: "A", Date: day(2023, time.May, 31), AvgWaveHeight: 2.5},
		{Region: "A", Date: day(2023, time.April, 30), AvgWaveHeight: 1.0},
		{Region: "A", Date: day(2023, time.February, 28), AvgWaveHeight: 2.5},
		{Region: "A", Date: day(2023, time.January, 31), AvgWaveHeight: 1.0},
	}

	got := ComputeExtrema(rows)
	require.Len(t, got, 1)
	assert.Equal(t, day(2023, time.February, 28), got[0].MaxDate)
	assert.Equal(t, day(2023, time.January, 31), got[0].MinDate)
}

func TestComputeExtrema_SingleRow(t *testing.T) {
	d := day(2023, time.June, 30)
	got := ComputeExtrema([]Aggregate{{Region: "A", Date: d, AvgWaveHeight: 1.5}})
	require.Len(t, got, 1)
	assert.Equal(t, d, got[0].MaxDate)
	assert.Equal(t, d, got[0].MinDate)
	assert.Equal(t, 1.5, got[0].MaxValue)
	assert.Equal(t, 1.5, got[0].MinValue)
}

func TestComputeExtrema_Empty(t *testing.T) {
	assert.Empty(t, ComputeExtrema(nil))
}
