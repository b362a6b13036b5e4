// Package httpapi exposes a Gazetteer over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options configures the middleware stack.
type Options struct {
	Logger    zerolog.Logger
	Timeout   time.Duration // per-request; 0 disables
	RateLimit rate.Limit    // requests per second; 0 disables
	Burst     int
}

type Server struct{ mux *chi.Mux }

func New(opts Options) *Server {
	m := chi.NewRouter()

	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	if opts.Timeout > 0 {
		m.Use(Timeout(opts.Timeout))
	}
	if opts.RateLimit > 0 {
		m.Use(RateLimit(rate.NewLimiter(opts.RateLimit, max(1, opts.Burst))))
	}
	m.Use(Metrics)
	m.Use(Logger(opts.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
