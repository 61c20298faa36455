package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"folio.dev/internal/palette"
)

// ColorResponse is the scrim for a single image
type ColorResponse struct {
	URL      string           `json:"url"`
	Color    palette.Color    `json:"color"`
	Hex      string           `json:"hex"`
	Gradient palette.Gradient `json:"gradient"`
}

// ColorHandler samples arbitrary image URLs
type ColorHandler struct {
	sampler *palette.Sampler
	log     *zap.Logger
}

// NewColorHandler creates a new ColorHandler
func NewColorHandler(s *palette.Sampler, log *zap.Logger) *ColorHandler {
	return &ColorHandler{sampler: s, log: log}
}

// Sample handles GET /api/colors?url=
func (h *ColorHandler) Sample(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		respondError(w, h.log, http.StatusBadRequest, "Missing url parameter")
		return
	}

	c := h.sampler.Sample(r.Context(), url)
	respondJSON(w, h.log, http.StatusOK, ColorResponse{
		URL:      url,
		Color:    c,
		Hex:      c.Hex(),
		Gradient: palette.Scrim(c),
	})
}
