package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

type Options struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
	Production     bool // hides error details from clients
}

func New(o Options) *Server {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 15 * time.Second
	}
	m := chi.NewRouter()

	// all middlewares go here, before any routes are added
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(RecoverJSON(o.Production))
	m.Use(CORS(o.CORSOrigins))
	m.Use(Timeout(o.RequestTimeout))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
