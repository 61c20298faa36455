package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"folio.dev/internal/services"
)

// AboutHandler handles the about page endpoints
type AboutHandler struct {
	aboutService *services.AboutService
	log          *zap.Logger
}

// NewAboutHandler creates a new AboutHandler
func NewAboutHandler(as *services.AboutService, log *zap.Logger) *AboutHandler {
	return &AboutHandler{aboutService: as, log: log}
}

// About handles GET /api/about
func (h *AboutHandler) About(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.aboutService.About(r.Context()))
}

// Experiences handles GET /api/experiences
func (h *AboutHandler) Experiences(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.aboutService.Experiences(r.Context()))
}
