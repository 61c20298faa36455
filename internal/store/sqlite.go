package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"folio.dev/internal/catalog"
	"folio.dev/internal/models"
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const projectColumns = `id, slug, title, description, image_url, link, category, client, role, year,
	tags_json, sort_order, aspect_ratio, featured, featured_order, created_at`

// SQLite is a Writer backed by a SQLite database file
type SQLite struct {
	db     *sql.DB
	dbPath string
	log    *zap.Logger
}

// OpenSQLite creates or opens the content database at dbPath
func OpenSQLite(dbPath string, log *zap.Logger) (*SQLite, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Debug("content database ready", zap.String("path", dbPath))
	return &SQLite{db: db, dbPath: dbPath, log: log}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *SQLite) Path() string {
	return s.dbPath
}

// ListProjects translates c into SQL predicates: equality for client, year
// and role, JSON array membership for tag.
func (s *SQLite) ListProjects(ctx context.Context, c catalog.Criteria) ([]models.Project, error) {
	var where []string
	var args []any
	eq := func(col, val string) {
		if val != "" {
			where = append(where, col+" = ?")
			args = append(args, val)
		}
	}
	eq("client", c.Client)
	eq("year", c.Year)
	eq("role", c.Role)
	if c.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(projects.tags_json) WHERE json_each.value = ?)")
		args = append(args, c.Tag)
	}

	q := "SELECT " + projectColumns + " FROM projects"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sort_order ASC, created_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return projects, nil
}

// ProjectBySlug returns the project with slug
func (s *SQLite) ProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE slug = ?", slug)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %q: %w", slug, ErrNotFound)
	}
	return p, err
}

// Sections returns a project's sections ordered by Order
func (s *SQLite) Sections(ctx context.Context, projectID int64) ([]models.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, type, title, content_json, sort_order, created_at
		FROM project_sections WHERE project_id = ? ORDER BY sort_order ASC, created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	sections := []models.Section{}
	for rows.Next() {
		var sec models.Section
		var raw, created string
		if err := rows.Scan(&sec.ID, &sec.ProjectID, &sec.Type, &sec.Title, &raw, &sec.Order, &created); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sec.Raw = json.RawMessage(raw)
		sec.Payload = models.DecodePayload(sec.Type, sec.Raw)
		sec.CreatedAt = parseTime(created)
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	return sections, nil
}

// About returns the about page with its highlights and awards
func (s *SQLite) About(ctx context.Context) (models.About, error) {
	var a models.About
	var brands string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, title, avatar_url, short_bio, what_i_do, brands_json
		FROM about WHERE id = 1`).
		Scan(&a.ID, &a.Name, &a.Email, &a.Title, &a.AvatarURL, &a.ShortBio, &a.WhatIDo, &brands)
	if errors.Is(err, sql.ErrNoRows) {
		return models.About{}, fmt.Errorf("about: %w", ErrNotFound)
	}
	if err != nil {
		return models.About{}, fmt.Errorf("query about: %w", err)
	}
	a.Brands = decodeStrings(brands)

	hl, err := s.db.QueryContext(ctx, `
		SELECT id, company, role, period, logo_url, created_at
		FROM career_highlights ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return models.About{}, fmt.Errorf("query career highlights: %w", err)
	}
	defer hl.Close()
	a.CareerHighlights = []models.CareerHighlight{}
	for hl.Next() {
		var h models.CareerHighlight
		var created string
		if err := hl.Scan(&h.ID, &h.Company, &h.Role, &h.Period, &h.LogoURL, &created); err != nil {
			return models.About{}, fmt.Errorf("scan career highlight: %w", err)
		}
		h.CreatedAt = parseTime(created)
		a.CareerHighlights = append(a.CareerHighlights, h)
	}
	if err := hl.Err(); err != nil {
		return models.About{}, fmt.Errorf("query career highlights: %w", err)
	}

	aw, err := s.db.QueryContext(ctx, `SELECT id, title, issuer, year FROM awards ORDER BY year DESC, id ASC`)
	if err != nil {
		return models.About{}, fmt.Errorf("query awards: %w", err)
	}
	defer aw.Close()
	a.Awards = []models.Award{}
	for aw.Next() {
		var w models.Award
		if err := aw.Scan(&w.ID, &w.Title, &w.Issuer, &w.Year); err != nil {
			return models.About{}, fmt.Errorf("scan award: %w", err)
		}
		a.Awards = append(a.Awards, w)
	}
	if err := aw.Err(); err != nil {
		return models.About{}, fmt.Errorf("query awards: %w", err)
	}
	return a, nil
}

// Experiences returns all experiences, newest first
func (s *SQLite) Experiences(ctx context.Context) ([]models.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company, role, period, logo_url, created_at
		FROM experiences ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	defer rows.Close()

	out := []models.Experience{}
	for rows.Next() {
		var e models.Experience
		var created string
		if err := rows.Scan(&e.ID, &e.Company, &e.Role, &e.Period, &e.LogoURL, &created); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	return out, nil
}

// Replace swaps all content for ds in one transaction
func (s *SQLite) Replace(ctx context.Context, ds *Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"project_sections", "projects", "about", "career_highlights", "awards", "experiences"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, ps := range ds.Projects {
		p := ps.Project
		tags, err := json.Marshal(nonNil(p.Tags))
		if err != nil {
			return fmt.Errorf("encode tags of %q: %w", p.Slug, err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Slug, p.Title, p.Description, p.ImageURL, p.Link, p.Category, p.Client, p.Role, p.Year,
			string(tags), p.Order, string(p.AspectRatio), p.Featured, p.FeaturedOrder, formatTime(p.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert project %q: %w", p.Slug, err)
		}

		for _, seed := range ps.Sections {
			sec, err := seed.Section(p.ID)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO project_sections
				(id, project_id, type, title, content_json, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				sec.ID, sec.ProjectID, string(sec.Type), sec.Title, string(sec.Raw), sec.Order, formatTime(sec.CreatedAt))
			if err != nil {
				return fmt.Errorf("insert section %s of %q: %w", sec.ID, p.Slug, err)
			}
		}
	}

	if a := ds.About; a != nil {
		brands, err := json.Marshal(nonNil(a.Brands))
		if err != nil {
			return fmt.Errorf("encode brands: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO about
			(id, name, email, title, avatar_url, short_bio, what_i_do, brands_json) VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
			a.Name, a.Email, a.Title, a.AvatarURL, a.ShortBio, a.WhatIDo, string(brands))
		if err != nil {
			return fmt.Errorf("insert about: %w", err)
		}
		for _, h := range a.CareerHighlights {
			_, err := tx.ExecContext(ctx, `INSERT INTO career_highlights
				(id, company, role, period, logo_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
				h.ID, h.Company, h.Role, h.Period, h.LogoURL, formatTime(h.CreatedAt))
			if err != nil {
				return fmt.Errorf("insert career highlight %q: %w", h.Company, err)
			}
		}
		for _, w := range a.Awards {
			_, err := tx.ExecContext(ctx, `INSERT INTO awards (id, title, issuer, year) VALUES (?, ?, ?, ?)`,
				w.ID, w.Title, w.Issuer, w.Year)
			if err != nil {
				return fmt.Errorf("insert award %q: %w", w.Title, err)
			}
		}
	}

	for _, e := range ds.Experiences {
		_, err := tx.ExecContext(ctx, `INSERT INTO experiences
			(id, company, role, period, logo_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Company, e.Role, e.Period, e.LogoURL, formatTime(e.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert experience %q: %w", e.Company, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Info("content replaced",
		zap.Int("projects", len(ds.Projects)),
		zap.Int("experiences", len(ds.Experiences)))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	var tags, aspect, created string
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.ImageURL, &p.Link, &p.Category,
		&p.Client, &p.Role, &p.Year, &tags, &p.Order, &aspect, &p.Featured, &p.FeaturedOrder, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan project: %w", err)
	}
	p.Tags = decodeStrings(tags)
	p.AspectRatio = models.AspectRatio(aspect)
	p.CreatedAt = parseTime(created)
	return p, nil
}

func decodeStrings(s string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(s), &out)
	if out == nil {
		out = []string{}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
