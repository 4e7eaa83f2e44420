package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Timeout     time.Duration
	CORSOrigins []string
	RateRPS     float64
	RateBurst   int
}

type Server struct{ mux *chi.Mux }

// New builds the router. ctx bounds background work owned by middleware.
func New(ctx context.Context, opt Options) *Server {
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(RateLimit(ctx, opt.RateRPS, opt.RateBurst))
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(CORS(opt.CORSOrigins))
	m.Use(Timeout(opt.Timeout))
	m.Use(Session)
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no route for "+r.URL.Path)
	})
	m.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" "+r.URL.Path)
	})

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
