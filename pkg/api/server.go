package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/reel/pkg/httputil"
	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
)

// Server serves the catalog API under /api/v1
type Server struct {
	store     storage.Store
	router    *mux.Router
	validator *Validator
	metrics   *observability.Metrics
}

// Option configures a Server
type Option func(*Server)

// WithMetrics records Prometheus request metrics per route template
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new API server backed by store
func NewServer(store storage.Store, opts ...Option) *Server {
	s := &Server{
		store:     store,
		router:    mux.NewRouter(),
		validator: NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}
	s.router.NotFoundHandler = http.HandlerFunc(routeNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.Use(httputil.ContentTypeMiddleware)

	// Film routes
	v1.HandleFunc("/films", s.listFilms).Methods(http.MethodGet)
	v1.HandleFunc("/films", s.createFilm).Methods(http.MethodPost)
	v1.HandleFunc("/films/{id}", s.getFilm).Methods(http.MethodGet)
	v1.HandleFunc("/films/{id}", s.updateFilm).Methods(http.MethodPut)
	v1.HandleFunc("/films/{id}", s.deleteFilm).Methods(http.MethodDelete)

	// Film search routes
	v1.HandleFunc("/films/search/year/{year}", s.findFilmsByYear).Methods(http.MethodGet)
	v1.HandleFunc("/films/search/rating/{rating}", s.findFilmsByRating).Methods(http.MethodGet)
	v1.HandleFunc("/films/search/longer-than/{minutes}", s.findFilmsLongerThan).Methods(http.MethodGet)
	v1.HandleFunc("/films/search/title", s.searchFilmsByTitle).Methods(http.MethodGet)
	v1.HandleFunc("/films/search/language/{languageName}", s.findFilmsByLanguage).Methods(http.MethodGet)

	// Actor routes
	v1.HandleFunc("/actors", s.listActors).Methods(http.MethodGet)
	v1.HandleFunc("/actors", s.createActor).Methods(http.MethodPost)
	v1.HandleFunc("/actors/{id}", s.getActor).Methods(http.MethodGet)
	v1.HandleFunc("/actors/{id}", s.updateActor).Methods(http.MethodPut)
	v1.HandleFunc("/actors/{id}", s.deleteActor).Methods(http.MethodDelete)

	// Language routes
	v1.HandleFunc("/languages", s.listLanguages).Methods(http.MethodGet)
	v1.HandleFunc("/languages/{id}", s.getLanguage).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the router for additional routes
func (s *Server) Router() *mux.Router {
	return s.router
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFoundError(w, "No handler found for "+r.Method+" "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteErrorMessage(w, http.StatusMethodNotAllowed, "Request method '"+r.Method+"' is not supported")
}
