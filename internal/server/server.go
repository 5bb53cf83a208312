package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftsheet/internal/config"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   storage.Store
	catalog config.Catalog
	loc     *time.Location
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. loc is the zone
// entries are stamped in when the client omits a date.
func New(store storage.Store, catalog config.Catalog, loc *time.Location, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		catalog: catalog,
		loc:     loc,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sets", s.handleLogSet)
		r.Delete("/api/v1/sets/last", s.handleUndoLastSet)
		r.Post("/api/v1/measurements", s.handleLogMeasurement)
		r.Post("/api/v1/calories", s.handleLogCalories)
	})

	// Read endpoints
	s.router.Get("/api/v1/sets", s.handleListSets)
	s.router.Get("/api/v1/comparison", s.handleComparison)
	s.router.Get("/api/v1/summary/day", s.handleDaySummary)
	s.router.Get("/api/v1/summary/recent", s.handleRecentSummary)
	s.router.Get("/api/v1/measurements", s.handleListMeasurements)
	s.router.Get("/api/v1/measurements/weekly", s.handleWeeklyTrend)
	s.router.Get("/api/v1/calories", s.handleListCalories)
	s.router.Get("/api/v1/calories/today", s.handleTodayCalories)
	s.router.Get("/api/v1/progress", s.handleProgress)
	s.router.Get("/api/v1/catalog", s.handleCatalog)
}
