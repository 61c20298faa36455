package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"folio.dev/internal/catalog"
	"folio.dev/internal/models"
)

// Memory is an in-process Writer
type Memory struct {
	mu          sync.RWMutex
	projects    []models.Project
	sections    map[int64][]models.Section
	about       *models.About
	experiences []models.Experience
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{sections: make(map[int64][]models.Section)}
}

// Replace swaps the content for ds
func (m *Memory) Replace(ctx context.Context, ds *Dataset) error {
	projects := make([]models.Project, 0, len(ds.Projects))
	sections := make(map[int64][]models.Section, len(ds.Projects))
	for _, ps := range ds.Projects {
		p := ps.Project
		p.Tags = slices.Clone(p.Tags)
		projects = append(projects, p)
		for _, seed := range ps.Sections {
			sec, err := seed.Section(p.ID)
			if err != nil {
				return fmt.Errorf("replace: %w", err)
			}
			sections[p.ID] = append(sections[p.ID], sec)
		}
	}
	catalog.SortProjects(projects)
	for id := range sections {
		sortSections(sections[id])
	}

	var about *models.About
	if ds.About != nil {
		a := *ds.About
		a.Brands = slices.Clone(a.Brands)
		a.Awards = slices.Clone(a.Awards)
		a.CareerHighlights = slices.Clone(a.CareerHighlights)
		sortAbout(&a)
		about = &a
	}
	experiences := slices.Clone(ds.Experiences)
	sortExperiences(experiences)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = projects
	m.sections = sections
	m.about = about
	m.experiences = experiences
	return nil
}

// ListProjects returns the projects matching c
func (m *Memory) ListProjects(ctx context.Context, c catalog.Criteria) ([]models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return catalog.Filter(m.projects, c), nil
}

// ProjectBySlug returns the project with slug
func (m *Memory) ProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	if err := ctx.Err(); err != nil {
		return models.Project{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("project %q: %w", slug, ErrNotFound)
}

// Sections returns a project's sections
func (m *Memory) Sections(ctx context.Context, projectID int64) ([]models.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.sections[projectID])
	if out == nil {
		out = []models.Section{}
	}
	return out, nil
}

// About returns the about page
func (m *Memory) About(ctx context.Context) (models.About, error) {
	if err := ctx.Err(); err != nil {
		return models.About{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.about == nil {
		return models.About{}, fmt.Errorf("about: %w", ErrNotFound)
	}
	return *m.about, nil
}

// Experiences returns all experiences, newest first
func (m *Memory) Experiences(ctx context.Context) ([]models.Experience, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.experiences)
	if out == nil {
		out = []models.Experience{}
	}
	return out, nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

func sortSections(secs []models.Section) {
	slices.SortStableFunc(secs, func(a, b models.Section) int {
		return cmp.Compare(a.Order, b.Order)
	})
}

func sortAbout(a *models.About) {
	slices.SortStableFunc(a.CareerHighlights, func(x, y models.CareerHighlight) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
	slices.SortStableFunc(a.Awards, func(x, y models.Award) int {
		return cmp.Compare(y.Year, x.Year)
	})
}

func sortExperiences(exps []models.Experience) {
	slices.SortStableFunc(exps, func(a, b models.Experience) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
