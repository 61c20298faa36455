package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"folio.dev/internal/middleware"
	"folio.dev/internal/palette"
	"folio.dev/internal/services"
)

// Deps are the services the routes are served from
type Deps struct {
	Projects  *services.ProjectService
	About     *services.AboutService
	Sampler   *palette.Sampler
	StaticDir string
	Logger    *zap.Logger
}

// SetupRoutes configures all routes and returns the router
func SetupRoutes(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.WithRequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))

	projectHandler := NewProjectHandler(d.Projects, log)
	aboutHandler := NewAboutHandler(d.About, log)
	colorHandler := NewColorHandler(d.Sampler, log)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Project endpoints
		r.Get("/projects", projectHandler.ListProjects)
		r.Get("/projects/featured", projectHandler.Featured)
		r.Get("/projects/facets", projectHandler.Facets)
		r.Get("/projects/groups", projectHandler.Groups)
		r.Get("/projects/{slug}", projectHandler.GetProject)

		r.Get("/colors", colorHandler.Sample)

		r.Get("/about", aboutHandler.About)
		r.Get("/experiences", aboutHandler.Experiences)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	// Static files
	staticDir := d.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Handle("/static/*", http.StripPrefix("/static", fileServer))

	// Serve index.html at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	})

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, log *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Error encoding JSON", zap.Int("status", status), zap.Error(err))
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, log *zap.Logger, status int, message string) {
	respondJSON(w, log, status, map[string]string{"error": message})
}
