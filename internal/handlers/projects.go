package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"folio.dev/internal/catalog"
	"folio.dev/internal/models"
	"folio.dev/internal/services"
)

// ProjectHandler handles project-related endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
	log            *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: ps, log: log}
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	c := catalog.ParseCriteria(r.URL.Query())
	respondJSON(w, h.log, http.StatusOK, h.projectService.List(r.Context(), c))
}

// Featured handles GET /api/projects/featured
func (h *ProjectHandler) Featured(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.projectService.Featured(r.Context()))
}

// Facets handles GET /api/projects/facets
func (h *ProjectHandler) Facets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.projectService.Facets(r.Context()))
}

// Groups handles GET /api/projects/groups
func (h *ProjectHandler) Groups(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.projectService.Groups(r.Context()))
}

// GetProject handles GET /api/projects/{slug}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, err := h.projectService.Get(r.Context(), slug)
	if errors.Is(err, services.ErrNotFound) {
		respondJSON(w, h.log, http.StatusNotFound, map[string]string{
			"error": "Project not found",
			"state": string(models.StateNotFound),
		})
		return
	}

	respondJSON(w, h.log, http.StatusOK, project)
}
