package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"folio.dev/internal/models"
	"folio.dev/internal/store"
)

// AboutPage is the about page payload
type AboutPage struct {
	State models.ViewState `json:"state"`
	About *models.About    `json:"about,omitempty"`
}

// ExperienceListing is the experience list payload
type ExperienceListing struct {
	State       models.ViewState    `json:"state"`
	Experiences []models.Experience `json:"experiences"`
}

// AboutService serves the about page and experience list
type AboutService struct {
	store store.Store
	log   *zap.Logger
}

// NewAboutService creates a new AboutService
func NewAboutService(st store.Store, log *zap.Logger) *AboutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AboutService{store: st, log: log}
}

// About returns the about page, or an empty page if none is stored
func (s *AboutService) About(ctx context.Context) AboutPage {
	a, err := s.store.About(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("Error fetching about data", zap.Error(err))
		}
		return AboutPage{State: models.StateEmpty}
	}
	return AboutPage{State: models.StatePopulated, About: &a}
}

// Experiences returns the experience list, newest first
func (s *AboutService) Experiences(ctx context.Context) ExperienceListing {
	exps, err := s.store.Experiences(ctx)
	if err != nil {
		s.log.Error("Error fetching experiences", zap.Error(err))
		exps = []models.Experience{}
	}
	return ExperienceListing{State: models.StateFor(len(exps)), Experiences: exps}
}
