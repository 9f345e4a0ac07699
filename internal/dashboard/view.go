package dashboard

import (
	"fmt"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// MonthLayout renders a bucket date as month and year, e.g. "June 2023".
const MonthLayout = "January 2006"

// View is one rendering of the dashboard at a chosen granularity.
type View struct {
	Granularity domain.Granularity
	Rows        []domain.Aggregate
	Regions     []string
	Extrema     []domain.Extremum
}

// NewView resamples daily rows to g and computes per-region extrema over the
// resampled table. It is recomputed on every request.
func NewView(daily []domain.Aggregate, g domain.Granularity) (View, error) {
	rows, err := domain.Resample(daily, g)
	if err != nil {
		return View{}, err
	}
	return View{
		Granularity: g,
		Rows:        rows,
		Regions:     domain.Regions(rows),
		Extrema:     domain.ComputeExtrema(rows),
	}, nil
}

// Region returns the resampled series of one region.
func (v View) Region(region string) []domain.Aggregate {
	return domain.ForRegion(v.Rows, region)
}

// ShowSummary reports whether the highest/lowest summary belongs on the page.
func (v View) ShowSummary() bool {
	return v.Granularity == domain.Monthly
}

// SummaryEntry is one region's highest and lowest, formatted for display.
type SummaryEntry struct {
	Region string
	Text   string
}

// Line renders the entry with the region in markdown bold.
func (s SummaryEntry) Line() string {
	return "**" + s.Region + "** " + s.Text
}

// NewSummaryEntry formats an extremum as
// "Highest: <v> m in <Month YYYY> | Lowest: <v> m in <Month YYYY>".
func NewSummaryEntry(e domain.Extremum) SummaryEntry {
	return SummaryEntry{
		Region: e.Region,
		Text: fmt.Sprintf("Highest: %.2f m in %s | Lowest: %.2f m in %s",
			e.MaxValue, e.MaxDate.Format(MonthLayout),
			e.MinValue, e.MinDate.Format(MonthLayout),
		),
	}
}

// Summary formats every region of a monthly view. It is empty for the other
// granularities.
func (v View) Summary() []SummaryEntry {
	if !v.ShowSummary() {
		return nil
	}
	out := make([]SummaryEntry, len(v.Extrema))
	for i, e := range v.Extrema {
		out[i] = NewSummaryEntry(e)
	}
	return out
}
