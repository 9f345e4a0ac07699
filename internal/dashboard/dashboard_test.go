package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/observability"
)

type fakeReader struct {
	mu    sync.Mutex
	calls int
	rows  []domain.Aggregate
	errs  []error
}

func (f *fakeReader) ReadSummary(_ context.Context) ([]domain.Aggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return append([]domain.Aggregate(nil), f.rows...), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// twoMonths holds June and July 2023 for two regions.
func twoMonths() []domain.Aggregate {
	return []domain.Aggregate{
		{Region: "North Shore", Date: day(2023, time.June, 1), AvgWaveHeight: 2.0},
		{Region: "North Shore", Date: day(2023, time.June, 2), AvgWaveHeight: 3.0},
		{Region: "North Shore", Date: day(2023, time.July, 1), AvgWaveHeight: 1.0},
		{Region: "South Shore", Date: day(2023, time.June, 1), AvgWaveHeight: 0.5},
		{Region: "South Shore", Date: day(2023, time.July, 1), AvgWaveHeight: 1.234},
	}
}

func mustView(t *testing.T, daily []domain.Aggregate, g domain.Granularity) View {
	t.Helper()
	v, err := NewView(daily, g)
	require.NoError(t, err)
	return v
}

func TestLoader_LoadsOnce(t *testing.T) {
	reader := &fakeReader{rows: twoMonths()}
	metrics := observability.NewMetricsForTesting()
	l := NewLoader(reader, discardLogger(), metrics)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := l.Summary(context.Background())
			assert.NoError(t, err)
			assert.Len(t, rows, 5)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.ArtifactRows))
}

func TestLoader_FailureIsNotCached(t *testing.T) {
	reader := &fakeReader{rows: twoMonths(), errs: []error{artifact.ErrNotFound}}
	metrics := observability.NewMetricsForTesting()
	l := NewLoader(reader, discardLogger(), metrics)

	_, err := l.Summary(context.Background())
	require.ErrorIs(t, err, artifact.ErrNotFound)

	rows, err := l.Summary(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, 2, reader.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ArtifactLoadErrors))
}

func TestLoader_CheckReadiness(t *testing.T) {
	reader := &fakeReader{errs: []error{artifact.ErrSchemaMismatch}}
	l := NewLoader(reader, discardLogger(), observability.NewMetricsForTesting())

	err := l.CheckReadiness(context.Background())
	require.ErrorIs(t, err, artifact.ErrSchemaMismatch)
	require.NoError(t, l.CheckReadiness(context.Background()))
}

func TestNewView_Monthly(t *testing.T) {
	v := mustView(t, twoMonths(), domain.Monthly)

	assert.Equal(t, []string{"North Shore", "South Shore"}, v.Regions)
	assert.Equal(t, []domain.Aggregate{
		{Region: "North Shore", Date: day(2023, time.June, 30), AvgWaveHeight: 2.5},
		{Region: "North Shore", Date: day(2023, time.July, 31), AvgWaveHeight: 1.0},
	}, v.Region("North Shore"))

	require.True(t, v.ShowSummary())
	summary := v.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t,
		"**North Shore** Highest: 2.50 m in June 2023 | Lowest: 1.00 m in July 2023",
		summary[0].Line())
	assert.Equal(t,
		"**South Shore** Highest: 1.23 m in July 2023 | Lowest: 0.50 m in June 2023",
		summary[1].Line())
}

func TestNewView_SummaryOnlyForMonthly(t *testing.T) {
	for _, g := range []domain.Granularity{domain.Daily, domain.Weekly} {
		v := mustView(t, twoMonths(), g)
		assert.False(t, v.ShowSummary(), g)
		assert.Nil(t, v.Summary(), g)
		assert.Len(t, v.Extrema, 2, "extrema are computed for every granularity")
	}
}

func TestNewView_UnknownGranularity(t *testing.T) {
	_, err := NewView(twoMonths(), "Yearly")
	require.ErrorIs(t, err, domain.ErrUnknownGranularity)
}

func TestNewView_DailyKeepsRows(t *testing.T) {
	v := mustView(t, twoMonths(), domain.Daily)
	assert.Equal(t, twoMonths(), v.Rows)
}

func TestChartTitle(t *testing.T) {
	assert.Equal(t, "North Shore – Weekly Wave Height", ChartTitle("North Shore", domain.Weekly))
}

func TestRenderChart(t *testing.T) {
	v := mustView(t, twoMonths(), domain.Daily)

	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, "North Shore", v.Granularity, v.Region("North Shore")))

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "2023-06-01")
	assert.Contains(t, out, "2023-07-01")
	assert.NotContains(t, out, "South Shore")
}

func TestBuildXLSX(t *testing.T) {
	v := mustView(t, twoMonths(), domain.Weekly)

	data, err := BuildXLSX(v)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Weekly")
	require.NoError(t, err)
	require.Len(t, rows, len(v.Rows)+1)
	assert.Equal(t, artifact.Columns, rows[0])
	assert.Equal(t, "North Shore", rows[1][0])
	assert.Equal(t, v.Rows[0].Date.Format(artifact.DateLayout), rows[1][1])
}

func TestBuildSummaryPDF(t *testing.T) {
	for _, rows := range [][]domain.Aggregate{twoMonths(), nil} {
		data, err := BuildSummaryPDF(mustView(t, rows, domain.Monthly))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	}
}

func TestRenderIndex(t *testing.T) {
	tests := []struct {
		name        string
		g           domain.Granularity
		showTable   bool
		contains    []string
		notContains []string
	}{
		{
			name:        "daily default",
			g:           domain.Daily,
			contains:    []string{Title, `value="Daily" checked`, "North Shore – Daily Average Wave Height", "/chart/North%20Shore?granularity=Daily"},
			notContains: []string{"Monthly Summary", "<table>"},
		},
		{
			name:        "weekly with table",
			g:           domain.Weekly,
			showTable:   true,
			contains:    []string{`value="Weekly" checked`, "<table>", "/export.xlsx?granularity=Weekly"},
			notContains: []string{"Monthly Summary"},
		},
		{
			name: "monthly summary",
			g:    domain.Monthly,
			contains: []string{
				"Monthly Summary – Highest and Lowest by Region",
				"<strong>North Shore</strong> Highest: 2.50 m in June 2023 | Lowest: 1.00 m in July 2023",
				"/summary.pdf",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderIndex(&buf, mustView(t, twoMonths(), tt.g), tt.showTable))
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderError(&buf, errors.New("summary artifact not found")))
	assert.Contains(t, buf.String(), "Summary data is unavailable: summary artifact not found")
	assert.NotContains(t, buf.String(), "Choose aggregation")
}
