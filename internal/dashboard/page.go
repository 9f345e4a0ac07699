package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// Title is the dashboard heading.
const Title = "NOAA Wave Height Dashboard"

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

type granularityOption struct {
	Value    domain.Granularity
	Selected bool
}

type chartRef struct {
	Heading string
	Src     string
}

type tableRow struct {
	Region        string
	Date          string
	AvgWaveHeight string
}

type pageData struct {
	Title         string
	Error         string
	Granularities []granularityOption
	ShowTable     bool
	Charts        []chartRef
	Rows          []tableRow
	ExportURL     string
	Summary       []SummaryEntry
}

// RenderIndex writes the dashboard page for v. Charts are loaded from
// /chart/{region}; the table is included only when showTable is set.
func RenderIndex(w io.Writer, v View, showTable bool) error {
	data := pageData{
		Title:     Title,
		ShowTable: showTable,
		ExportURL: "/export.xlsx?granularity=" + url.QueryEscape(string(v.Granularity)),
		Summary:   v.Summary(),
	}
	for _, g := range domain.Granularities {
		data.Granularities = append(data.Granularities, granularityOption{Value: g, Selected: g == v.Granularity})
	}
	for _, region := range v.Regions {
		data.Charts = append(data.Charts, chartRef{
			Heading: fmt.Sprintf("%s – %s Average Wave Height", region, v.Granularity),
			Src:     "/chart/" + url.PathEscape(region) + "?granularity=" + url.QueryEscape(string(v.Granularity)),
		})
	}
	if showTable {
		data.Rows = make([]tableRow, len(v.Rows))
		for i, r := range v.Rows {
			data.Rows[i] = tableRow{
				Region:        r.Region,
				Date:          r.Date.Format(artifact.DateLayout),
				AvgWaveHeight: strconv.FormatFloat(r.AvgWaveHeight, 'f', 4, 64),
			}
		}
	}
	return indexTemplate.Execute(w, data)
}

// RenderError writes the dashboard page in its blocking error state.
func RenderError(w io.Writer, err error) error {
	return indexTemplate.Execute(w, pageData{
		Title: Title,
		Error: "Summary data is unavailable: " + err.Error(),
	})
}
