package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"folio.dev/internal/catalog"
	"folio.dev/internal/models"
	"folio.dev/internal/palette"
	"folio.dev/internal/store"
)

// MinGroupSize is the smallest tag rail worth showing
const MinGroupSize = 2

// ErrNotFound is returned by Get when no project matches the slug
var ErrNotFound = errors.New("project not found")

// Card is a project with its image scrim
type Card struct {
	models.Project
	Color    palette.Color    `json:"color"`
	Gradient palette.Gradient `json:"gradient"`
}

// ProjectListing is the result of listing projects
type ProjectListing struct {
	State    models.ViewState `json:"state"`
	Criteria catalog.Criteria `json:"criteria"`
	Query    string           `json:"query"`
	Filtered bool             `json:"filtered"`
	Projects []Card           `json:"projects"`
}

// ProjectDetail is a project page
type ProjectDetail struct {
	State    models.ViewState      `json:"state"`
	Project  Card                  `json:"project"`
	Sections []models.Section      `json:"sections"`
	Related  catalog.RelatedGroups `json:"related"`
}

// TagGroup is one "explore" rail
type TagGroup struct {
	Tag      string           `json:"tag"`
	Projects []models.Project `json:"projects"`
}

// ProjectService handles project-related operations
type ProjectService struct {
	store   store.Store
	sampler *palette.Sampler
	board   *palette.Board
	log     *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(st store.Store, sampler *palette.Sampler, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{
		store:   st,
		sampler: sampler,
		board:   palette.NewBoard(),
		log:     log,
	}
}

// List returns the projects matching c with their scrims.
// Store failures are logged and reported as an empty listing.
func (s *ProjectService) List(ctx context.Context, c catalog.Criteria) ProjectListing {
	projects := s.all(ctx, c)
	return ProjectListing{
		State:    models.StateFor(len(projects)),
		Criteria: c,
		Query:    c.Values().Encode(),
		Filtered: !c.Empty(),
		Projects: s.cards(ctx, projects),
	}
}

// Featured returns the featured projects with their scrims
func (s *ProjectService) Featured(ctx context.Context) ProjectListing {
	projects := catalog.Featured(s.all(ctx, catalog.Criteria{}))
	return ProjectListing{
		State:    models.StateFor(len(projects)),
		Projects: s.cards(ctx, projects),
	}
}

// Get returns the project page for slug
func (s *ProjectService) Get(ctx context.Context, slug string) (ProjectDetail, error) {
	p, err := s.store.ProjectBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("Error fetching project", zap.String("slug", slug), zap.Error(err))
		}
		return ProjectDetail{State: models.StateNotFound}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}

	sections, err := s.store.Sections(ctx, p.ID)
	if err != nil {
		s.log.Error("Error fetching project content", zap.Int64("project_id", p.ID), zap.Error(err))
		sections = []models.Section{}
	}

	cards := s.cards(ctx, []models.Project{p})
	return ProjectDetail{
		State:    models.StatePopulated,
		Project:  cards[0],
		Sections: sections,
		Related:  catalog.Related(p, s.all(ctx, catalog.Criteria{})),
	}, nil
}

// Groups returns the tag rails with at least MinGroupSize projects, sorted by tag
func (s *ProjectService) Groups(ctx context.Context) []TagGroup {
	groups := catalog.GroupByTag(s.all(ctx, catalog.Criteria{}))
	out := []TagGroup{}
	for _, tag := range catalog.SortedTags(groups) {
		if len(groups[tag]) < MinGroupSize {
			continue
		}
		out = append(out, TagGroup{Tag: tag, Projects: groups[tag]})
	}
	return out
}

// Facets returns the available filter values
func (s *ProjectService) Facets(ctx context.Context) catalog.Facets {
	return catalog.BuildFacets(s.all(ctx, catalog.Criteria{}))
}

// Refresh resamples every project's cover into a new board generation.
// Results of an earlier, slower Refresh are discarded. Without sampler
// caching there is no board and every listing samples afresh.
func (s *ProjectService) Refresh(ctx context.Context) {
	if !s.sampler.Caching() {
		return
	}
	projects := s.all(ctx, catalog.Criteria{})
	for _, p := range projects {
		s.sampler.Forget(p.ImageURL)
	}
	gen := s.board.Fill(ctx, s.sampler, projects)
	s.log.Debug("scrim colors refreshed", zap.Uint64("generation", gen), zap.Int("projects", len(projects)))
}

// all lists projects, folding store errors into an empty result
func (s *ProjectService) all(ctx context.Context, c catalog.Criteria) []models.Project {
	projects, err := s.store.ListProjects(ctx, c)
	if err != nil {
		s.log.Error("Error fetching projects", zap.Any("criteria", c), zap.Error(err))
		return []models.Project{}
	}
	return projects
}

// cards attaches scrims, sampling only the projects missing from the board
func (s *ProjectService) cards(ctx context.Context, projects []models.Project) []Card {
	colors := make(map[int64]palette.Color, len(projects))
	var missing []models.Project
	for _, p := range projects {
		if !s.sampler.Caching() {
			missing = append(missing, p)
			continue
		}
		if c, ok := s.board.Get(p.ID); ok {
			colors[p.ID] = c
			continue
		}
		missing = append(missing, p)
	}
	for id, c := range s.sampler.SampleAll(ctx, missing) {
		colors[id] = c
	}

	cards := make([]Card, len(projects))
	for i, p := range projects {
		c := colors[p.ID]
		cards[i] = Card{Project: p, Color: c, Gradient: palette.Scrim(c)}
	}
	return cards
}
