// Package http serves the dashboard and its health, readiness and metrics
// endpoints.
package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/dashboard"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/observability"
)

// SummarySource provides the loaded summary table. It is ready once the
// table has loaded.
type SummarySource interface {
	sharedobs.ReadinessChecker
	Summary(ctx context.Context) ([]domain.Aggregate, error)
}

// Server exposes the dashboard plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	source     SummarySource
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the dashboard HTTP server.
func NewServer(addr string, source SummarySource, metrics *observability.Metrics, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:  source,
		metrics: metrics,
		logger:  logger,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(source))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{}))

	r.Get("/", s.handleIndex)
	r.Get("/chart/{region}", s.handleChart)
	r.Get("/api/series", s.handleSeries)
	r.Get("/export.xlsx", s.handleExport)
	r.Get("/summary.pdf", s.handleSummaryPDF)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// view builds the dashboard view for the request's granularity. On failure
// it returns the status code the error maps to.
func (s *Server) view(r *http.Request, route string, g domain.Granularity) (dashboard.View, int, error) {
	s.metrics.DashboardRequests.WithLabelValues(route, string(g)).Inc()

	rows, err := s.source.Summary(r.Context())
	if err != nil {
		return dashboard.View{}, statusFor(err), err
	}
	v, err := dashboard.NewView(rows, g)
	if err != nil {
		return dashboard.View{}, http.StatusBadRequest, err
	}
	return v, http.StatusOK, nil
}

// granularity parses the granularity query parameter. An unknown value is
// counted and answered with 400.
func (s *Server) granularity(w http.ResponseWriter, r *http.Request, route string) (domain.Granularity, bool) {
	g, err := domain.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		s.metrics.DashboardRequests.WithLabelValues(route, "invalid").Inc()
		writeError(w, http.StatusBadRequest, err)
		return "", false
	}
	return g, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	g, ok := s.granularity(w, r, "index")
	if !ok {
		return
	}
	v, status, err := s.view(r, "index", g)

	var buf bytes.Buffer
	if err != nil {
		if rerr := dashboard.RenderError(&buf, err); rerr != nil {
			writeError(w, http.StatusInternalServerError, rerr)
			return
		}
	} else if err := dashboard.RenderIndex(&buf, v, r.URL.Query().Get("show_table") == "1"); err != nil {
		s.logger.Error("render index failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeBody(w, status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	region, err := regionParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g, ok := s.granularity(w, r, "chart")
	if !ok {
		return
	}
	v, status, err := s.view(r, "chart", g)
	if err != nil {
		writeError(w, status, err)
		return
	}

	series := v.Region(region)
	if len(series) == 0 {
		writeError(w, http.StatusNotFound, errors.New("unknown region "+region))
		return
	}

	var buf bytes.Buffer
	if err := dashboard.RenderChart(&buf, region, g, series); err != nil {
		s.logger.Error("render chart failed", "error", err, "region", region)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeBody(w, http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

type seriesRow struct {
	Region        string  `json:"region"`
	Date          string  `json:"date"`
	AvgWaveHeight float64 `json:"avg_wave_height"`
}

type extremumJSON struct {
	Region   string  `json:"region"`
	MaxValue float64 `json:"max_value"`
	MaxDate  string  `json:"max_date"`
	MinValue float64 `json:"min_value"`
	MinDate  string  `json:"min_date"`
}

type seriesResponse struct {
	Granularity domain.Granularity `json:"granularity"`
	Rows        []seriesRow        `json:"rows"`
	Extrema     []extremumJSON     `json:"extrema"`
	Summary     []string           `json:"summary,omitempty"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	g, ok := s.granularity(w, r, "series")
	if !ok {
		return
	}
	v, status, err := s.view(r, "series", g)
	if err != nil {
		writeError(w, status, err)
		return
	}

	resp := seriesResponse{
		Granularity: v.Granularity,
		Rows:        make([]seriesRow, len(v.Rows)),
		Extrema:     make([]extremumJSON, len(v.Extrema)),
	}
	for i, row := range v.Rows {
		resp.Rows[i] = seriesRow{
			Region:        row.Region,
			Date:          row.Date.Format(artifact.DateLayout),
			AvgWaveHeight: row.AvgWaveHeight,
		}
	}
	for i, e := range v.Extrema {
		resp.Extrema[i] = extremumJSON{
			Region:   e.Region,
			MaxValue: e.MaxValue,
			MaxDate:  e.MaxDate.Format(artifact.DateLayout),
			MinValue: e.MinValue,
			MinDate:  e.MinDate.Format(artifact.DateLayout),
		}
	}
	for _, entry := range v.Summary() {
		resp.Summary = append(resp.Summary, entry.Line())
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, ok := s.granularity(w, r, "export")
	if !ok {
		return
	}
	v, status, err := s.view(r, "export", g)
	if err != nil {
		writeError(w, status, err)
		return
	}

	data, err := dashboard.BuildXLSX(v)
	if err != nil {
		s.logger.Error("build xlsx failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="wave_heights_`+string(g)+`.xlsx"`)
	writeBody(w, http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	v, status, err := s.view(r, "summary", domain.Monthly)
	if err != nil {
		writeError(w, status, err)
		return
	}

	data, err := dashboard.BuildSummaryPDF(v)
	if err != nil {
		s.logger.Error("build pdf failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="monthly_summary.pdf"`)
	writeBody(w, http.StatusOK, "application/pdf", data)
}

// statusFor maps a summary load error to a response code. A missing or
// unreadable artifact leaves the dashboard without data.
func statusFor(err error) int {
	if errors.Is(err, artifact.ErrNotFound) || errors.Is(err, artifact.ErrSchemaMismatch) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// regionParam returns the decoded {region} segment. chi matches against
// RawPath when the request carries one, so only then is the segment still
// escaped.
func regionParam(r *http.Request) (string, error) {
	region := chi.URLParam(r, "region")
	if r.URL.RawPath == "" {
		return region, nil
	}
	return url.PathUnescape(region)
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
