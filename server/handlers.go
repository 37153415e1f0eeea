package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"pricelabs-dash/dashboard"
	"pricelabs-dash/storage"
)

var templateFuncs = template.FuncMap{
	"stamp": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 3:04:05 PM")
	},
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListings is the proxy route: it forwards to PriceLabs with the
// server-side key and relays status, body and rate limit headers.
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	res := s.proxy.Forward(r.Context())

	setIfPresent(w.Header(), "X-RateLimit-Remaining", res.RateLimit.Remaining)
	setIfPresent(w.Header(), "X-RateLimit-Reset", res.RateLimit.Reset)
	setIfPresent(w.Header(), "X-RateLimit-Limit", res.RateLimit.Limit)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(res.Status)
	if _, err := w.Write(res.Body); err != nil {
		loggerFrom(r.Context(), s.logger).Error("[server] Failed to write proxy response: %v", err)
	}
}

// pageData is what the dashboard template renders.
type pageData struct {
	dashboard.View
	Cards []card
	// Span is the colspan of full-width rows: the toggle column plus the headers.
	Span int
}

// ensureLoaded runs the one-time initial load detached from the request.
// The source's client timeout bounds it.
func (s *Server) ensureLoaded(r *http.Request) {
	_ = s.dash.Load(context.WithoutCancel(r.Context()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.ensureLoaded(r)

	view := s.dash.View()
	switch r.URL.Query().Get("theme") {
	case "dark":
		view.Dark = true
	case "light":
		view.Dark = false
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, pageData{View: view, Cards: summaryCards(view), Span: len(view.Columns) + 1}); err != nil {
		loggerFrom(r.Context(), s.logger).Error("[server] Render dashboard: %v", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	s.ensureLoaded(r)
	respondJSON(w, http.StatusOK, s.dash.View())
}

func (s *Server) handleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	s.ensureLoaded(r)

	report, err := s.dash.Report()
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err)
		return
	}

	var buf bytes.Buffer
	if err := storage.WriteSummaryCSV(&buf, report.Groups); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="group_summary.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	if err := s.dash.Sort(r.FormValue("column")); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	backToDashboard(w, r)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.dash.ToggleGroup(r.FormValue("group"))
	backToDashboard(w, r)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)
	// Fetch failures are kept by the dashboard and shown in its error state.
	err := s.dash.Refresh(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, dashboard.ErrCoolingDown):
		logger.Warn("[server] Refresh ignored: %d s of cooldown left", s.dash.CooldownRemaining())
	case errors.Is(err, dashboard.ErrRefreshInProgress):
		logger.Warn("[server] Refresh ignored: already refreshing")
	}
	backToDashboard(w, r)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	s.dash.ToggleDarkMode()
	backToDashboard(w, r)
}

func backToDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func setIfPresent(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// summaryCards feeds the three stat tiles above the table.
func summaryCards(v dashboard.View) []card {
	return []card{
		{Title: "Total Groups", Value: v.TotalGroups, Tone: "blue"},
		{Title: "Total Listings", Value: v.TotalListings, Tone: "green"},
		{Title: "Avg Listings/Group", Value: v.AvgListingsPerGroup, Tone: "purple"},
	}
}

type card struct {
	Title string
	Value int
	Tone  string
}
