package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"folio.dev/internal/models"
)

// ErrInvalidDataset wraps every validation failure of a dataset
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is the full content of the portfolio as loaded from a seed file
type Dataset struct {
	Projects    []ProjectSeed       `yaml:"projects"`
	About       *models.About       `yaml:"about"`
	Experiences []models.Experience `yaml:"experiences"`
}

// ProjectSeed is a project with its sections inline
type ProjectSeed struct {
	models.Project `yaml:",inline"`
	Sections       []SectionSeed `yaml:"sections"`
}

// SectionSeed is a section whose content is free-form YAML
type SectionSeed struct {
	ID        string             `yaml:"id"`
	Type      models.SectionType `yaml:"type"`
	Title     string             `yaml:"title"`
	Order     int                `yaml:"order"`
	Content   map[string]any     `yaml:"content"`
	CreatedAt time.Time          `yaml:"created_at"`
}

// LoadDataset reads and normalizes a YAML dataset from path
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset decodes and normalizes a YAML dataset.
// An empty document is rejected so a half-written file never wipes the store.
func ParseDataset(data []byte) (*Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDataset)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.Normalize(time.Now()); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Normalize validates the dataset and fills generated fields: project IDs
// (max existing + 1 onward), section IDs, missing timestamps, aspect ratios
// and nil tag lists.
func (ds *Dataset) Normalize(now time.Time) error {
	now = now.UTC()

	var maxID int64
	for _, p := range ds.Projects {
		maxID = max(maxID, p.ID)
	}

	slugs := make(map[string]bool, len(ds.Projects))
	ids := make(map[int64]bool, len(ds.Projects))
	for i := range ds.Projects {
		p := &ds.Projects[i]
		if !models.ValidSlug(p.Slug) {
			return fmt.Errorf("%w: project %d: slug %q is not URL-safe", ErrInvalidDataset, i, p.Slug)
		}
		if slugs[p.Slug] {
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalidDataset, p.Slug)
		}
		slugs[p.Slug] = true

		if p.ID == 0 {
			maxID++
			p.ID = maxID
		}
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate project id %d", ErrInvalidDataset, p.ID)
		}
		ids[p.ID] = true

		if p.Title == "" {
			return fmt.Errorf("%w: project %q has no title", ErrInvalidDataset, p.Slug)
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		p.AspectRatio = p.AspectRatio.OrDefault()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}

		for j := range p.Sections {
			sec := &p.Sections[j]
			if !sec.Type.Valid() {
				return fmt.Errorf("%w: project %q section %d: unknown type %q", ErrInvalidDataset, p.Slug, j, sec.Type)
			}
			if sec.ID == "" {
				sec.ID = uuid.NewString()
			}
			if sec.CreatedAt.IsZero() {
				sec.CreatedAt = now
			}
		}
	}

	for i := range ds.Experiences {
		if ds.Experiences[i].ID == 0 {
			ds.Experiences[i].ID = int64(i + 1)
		}
		if ds.Experiences[i].CreatedAt.IsZero() {
			ds.Experiences[i].CreatedAt = now
		}
	}
	if ds.About != nil {
		for i := range ds.About.CareerHighlights {
			if ds.About.CareerHighlights[i].ID == 0 {
				ds.About.CareerHighlights[i].ID = int64(i + 1)
			}
		}
		for i := range ds.About.Awards {
			if ds.About.Awards[i].ID == 0 {
				ds.About.Awards[i].ID = int64(i + 1)
			}
		}
	}
	return nil
}

// Section converts the seed into a stored section of projectID
func (s SectionSeed) Section(projectID int64) (models.Section, error) {
	raw := []byte("{}")
	if len(s.Content) > 0 {
		var err error
		raw, err = json.Marshal(s.Content)
		if err != nil {
			return models.Section{}, fmt.Errorf("encode section %s content: %w", s.ID, err)
		}
	}
	return models.Section{
		ID:        s.ID,
		ProjectID: projectID,
		Type:      s.Type,
		Title:     s.Title,
		Order:     s.Order,
		CreatedAt: s.CreatedAt,
		Raw:       raw,
		Payload:   models.DecodePayload(s.Type, raw),
	}, nil
}
