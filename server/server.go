package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"pricelabs-dash/dashboard"
	"pricelabs-dash/pricelabs"
	"pricelabs-dash/utils"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options configures the HTTP surface.
type Options struct {
	Addr string
	// ProxyRateLimit caps proxy calls per client IP per minute; 0 disables.
	ProxyRateLimit int
}

// Server hosts the listings proxy and the dashboard on one listener.
type Server struct {
	opts   Options
	proxy  *pricelabs.Proxy
	dash   *dashboard.Dashboard
	logger *utils.Logger
	page   *template.Template
}

// New wires a Server. The page template is parsed eagerly so a broken
// template fails at startup.
func New(opts Options, proxy *pricelabs.Proxy, dash *dashboard.Dashboard, logger *utils.Logger) (*Server, error) {
	page, err := template.New("dashboard.html.tmpl").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/dashboard.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}
	return &Server{opts: opts, proxy: proxy, dash: dash, logger: logger, page: page}, nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Listening on %s", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("[server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
