package dashboard

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

const yAxisLabel = "Avg Wave Height (m)"

// ChartTitle is the heading of one region's chart, e.g.
// "North Shore – Weekly Wave Height".
func ChartTitle(region string, g domain.Granularity) string {
	return fmt.Sprintf("%s – %s Wave Height", region, g)
}

// RenderChart writes a standalone HTML line chart of one region's series.
func RenderChart(w io.Writer, region string, g domain.Granularity, series []domain.Aggregate) error {
	dates := make([]string, len(series))
	points := make([]opts.LineData, len(series))
	for i, r := range series {
		dates[i] = r.Date.Format(artifact.DateLayout)
		points[i] = opts.LineData{Value: r.AvgWaveHeight, Symbol: "circle"}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: ChartTitle(region, g),
			Width:     "1100px",
			Height:    "460px",
		}),
		charts.WithTitleOpts(opts.Title{Title: ChartTitle(region, g)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxisLabel}),
	)
	line.SetXAxis(dates).AddSeries(region, points)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart %s: %w", region, err)
	}
	return nil
}
