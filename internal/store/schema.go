package store

// Schema is the SQL schema of the content database
const Schema = `
CREATE TABLE IF NOT EXISTS projects (
	id             INTEGER PRIMARY KEY,
	slug           TEXT NOT NULL UNIQUE,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	image_url      TEXT NOT NULL DEFAULT '',
	link           TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	client         TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT '',
	year           TEXT NOT NULL DEFAULT '',
	tags_json      TEXT NOT NULL DEFAULT '[]',
	sort_order     INTEGER NOT NULL DEFAULT 0,
	aspect_ratio   TEXT NOT NULL DEFAULT '',
	featured       INTEGER NOT NULL DEFAULT 0,
	featured_order INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_order ON projects(sort_order, created_at);
CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client);
CREATE INDEX IF NOT EXISTS idx_projects_role ON projects(role);
CREATE INDEX IF NOT EXISTS idx_projects_year ON projects(year);

CREATE TABLE IF NOT EXISTS project_sections (
	id           TEXT PRIMARY KEY,
	project_id   INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	type         TEXT NOT NULL CHECK(type IN ('text', 'gallery', 'video', 'image')),
	title        TEXT NOT NULL DEFAULT '',
	content_json TEXT NOT NULL DEFAULT '{}',
	sort_order   INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sections_project ON project_sections(project_id, sort_order);

CREATE TABLE IF NOT EXISTS about (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	name        TEXT NOT NULL,
	email       TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	avatar_url  TEXT NOT NULL DEFAULT '',
	short_bio   TEXT NOT NULL DEFAULT '',
	what_i_do   TEXT NOT NULL DEFAULT '',
	brands_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS career_highlights (
	id         INTEGER PRIMARY KEY,
	company    TEXT NOT NULL,
	role       TEXT NOT NULL DEFAULT '',
	period     TEXT NOT NULL DEFAULT '',
	logo_url   TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS awards (
	id     INTEGER PRIMARY KEY,
	title  TEXT NOT NULL,
	issuer TEXT NOT NULL DEFAULT '',
	year   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS experiences (
	id         INTEGER PRIMARY KEY,
	company    TEXT NOT NULL,
	role       TEXT NOT NULL DEFAULT '',
	period     TEXT NOT NULL DEFAULT '',
	logo_url   TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
`
