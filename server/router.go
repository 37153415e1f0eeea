package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID(s.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(prometheusMetrics)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/pricelabs", func(r chi.Router) {
		if s.opts.ProxyRateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.ProxyRateLimit, time.Minute))
		}
		r.Get("/listings", s.handleListings)
	})

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Get("/", s.handleDashboardJSON)
		r.Get("/summary.csv", s.handleSummaryCSV)
	})

	r.Get("/", s.handleIndex)
	r.Route("/dashboard", func(r chi.Router) {
		r.Post("/sort", s.handleSort)
		r.Post("/toggle", s.handleToggle)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/theme", s.handleTheme)
	})

	return r
}
