package domain

import (
	"math"
	"time"
)

// Observation is one data line of an NDBC standard meteorological file.
// Measurement fields are nil when the raw token was a missing-value sentinel
// or was not numeric.
type Observation struct {
	Year   *int
	Month  *int
	Day    *int
	Hour   *int
	Minute *int

	WindDir        *float64 // WDIR, degT
	WindSpeed      *float64 // WSPD, m/s
	GustSpeed      *float64 // GST, m/s
	WaveHeight     *float64 // WVHT, m
	DominantPeriod *float64 // DPD, sec
	AveragePeriod  *float64 // APD, sec
	MeanWaveDir    *float64 // MWD, degT
	Pressure       *float64 // PRES, hPa
	AirTemp        *float64 // ATMP, degC
	WaterTemp      *float64 // WTMP, degC
	DewPoint       *float64 // DEWP, degC
	Visibility     *float64 // VIS, nmi
	Tide           *float64 // TIDE, ft

	// Time is the UTC hour built from Year/Month/Day/Hour. Zero when those
	// fields do not form a calendar hour.
	Time time.Time

	BuoyID string
	Region string
}

// Source identifies the buoy and region a file's records are tagged with.
type Source struct {
	BuoyID string
	Region string
}

// HasTime reports whether a timestamp could be derived.
func (o Observation) HasTime() bool {
	return !o.Time.IsZero()
}

// Date returns the calendar day of the observation (midnight UTC).
func (o Observation) Date() time.Time {
	return truncateToDay(o.Time)
}

// Valid reports whether the observation can contribute to aggregation: it
// needs a timestamp and a finite wave height.
func (o Observation) Valid() bool {
	if !o.HasTime() || o.WaveHeight == nil {
		return false
	}
	v := *o.WaveHeight
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// deriveTime combines the date fields into a UTC hour. It returns the zero
// time when any field is missing or the combination is not on the calendar.
func deriveTime(year, month, day, hour *int) time.Time {
	if year == nil || month == nil || day == nil || hour == nil {
		return time.Time{}
	}
	y, m, d, h := *year, *month, *day, *hour
	if y < 1 || y > 9999 || m < 1 || m > 12 || d < 1 || d > 31 || h < 0 || h > 23 {
		return time.Time{}
	}
	t := time.Date(y, time.Month(m), d, h, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31 June -> 1 July); reject instead.
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}
	}
	return t
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
