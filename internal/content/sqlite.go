package content

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// schema is the SQLite layout of a portfolio. List tables carry a position
// column that fixes source order. A table that does not exist is a missing category.
const schema = `
CREATE TABLE IF NOT EXISTS personal (
	name TEXT NOT NULL,
	age INTEGER NOT NULL DEFAULT 0,
	location TEXT NOT NULL DEFAULT '',
	degree TEXT NOT NULL DEFAULT '',
	graduation_year TEXT NOT NULL DEFAULT '',
	coding_since TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS education (
	position INTEGER NOT NULL,
	id TEXT NOT NULL,
	institution TEXT NOT NULL DEFAULT '',
	year TEXT NOT NULL DEFAULT '',
	degree TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	details TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS skills (
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	level INTEGER NOT NULL DEFAULT 0,
	years INTEGER NOT NULL DEFAULT 0,
	projects INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS technologies (
	position INTEGER NOT NULL,
	label TEXT NOT NULL,
	items TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS projects (
	position INTEGER NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	tech TEXT NOT NULL DEFAULT '',
	lines INTEGER NOT NULL DEFAULT 0,
	time TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	details TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS contact (
	email TEXT NOT NULL DEFAULT '',
	github TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT ''
);
`

// listSep joins list-valued columns (project tech, technology items).
const listSep = ","

// LoadSQLite reads a snapshot from a SQLite database file.
func LoadSQLite(ctx context.Context, path string) (*Snapshot, error) {
	// sql.Open would silently create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open content database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content database: %w", err)
	}
	defer db.Close()

	tables, err := listTables(ctx, db)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}

	if tables["personal"] {
		if snap.Personal, err = loadPersonal(ctx, db); err != nil {
			return nil, err
		}
	}
	if tables["education"] {
		if snap.Education, err = loadEducation(ctx, db); err != nil {
			return nil, err
		}
	}
	if tables["skills"] {
		if snap.Skills, err = loadSkills(ctx, db); err != nil {
			return nil, err
		}
	}
	if tables["technologies"] {
		if snap.Technologies, err = loadTechnologies(ctx, db); err != nil {
			return nil, err
		}
	}
	if tables["projects"] {
		if snap.Projects, err = loadProjects(ctx, db); err != nil {
			return nil, err
		}
	}
	if tables["contact"] {
		if snap.Contact, err = loadContact(ctx, db); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func listTables(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list content tables: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables[name] = true
	}
	return tables, rows.Err()
}

func loadPersonal(ctx context.Context, db *sql.DB) (*Personal, error) {
	var p Personal
	err := db.QueryRowContext(ctx, `SELECT name, age, location, degree, graduation_year, coding_since, description FROM personal LIMIT 1`).
		Scan(&p.Name, &p.Age, &p.Location, &p.Degree, &p.GraduationYear, &p.CodingSince, &p.Description)
	if err == sql.ErrNoRows {
		// An empty table is treated the same as a missing one.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load personal: %w", err)
	}
	return &p, nil
}

func loadContact(ctx context.Context, db *sql.DB) (*Contact, error) {
	var c Contact
	err := db.QueryRowContext(ctx, `SELECT email, github, location, note FROM contact LIMIT 1`).
		Scan(&c.Email, &c.GitHub, &c.Location, &c.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	return &c, nil
}

func loadEducation(ctx context.Context, db *sql.DB) ([]Education, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, institution, year, degree, description, details FROM education ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	defer rows.Close()

	out := []Education{}
	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.Institution, &e.Year, &e.Degree, &e.Description, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func loadSkills(ctx context.Context, db *sql.DB) ([]Skill, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, level, years, projects FROM skills ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	defer rows.Close()

	out := []Skill{}
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.Name, &s.Level, &s.Years, &s.Projects); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func loadTechnologies(ctx context.Context, db *sql.DB) ([]TechGroup, error) {
	rows, err := db.QueryContext(ctx, `SELECT label, items FROM technologies ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load technologies: %w", err)
	}
	defer rows.Close()

	var out []TechGroup
	for rows.Next() {
		var (
			g     TechGroup
			items string
		)
		if err := rows.Scan(&g.Label, &items); err != nil {
			return nil, fmt.Errorf("failed to scan technology group: %w", err)
		}
		g.Items = splitList(items)
		out = append(out, g)
	}
	return out, rows.Err()
}

func loadProjects(ctx context.Context, db *sql.DB) ([]Project, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, title, tech, lines, time, description, details FROM projects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		var (
			p    Project
			tech string
		)
		if err := rows.Scan(&p.ID, &p.Title, &tech, &p.Lines, &p.Time, &p.Description, &p.Details); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Tech = splitList(tech)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ExportSQLite writes snap to a new SQLite database at path, replacing any
// existing file. Missing categories produce no table, so a round trip keeps them missing.
func ExportSQLite(ctx context.Context, snap *Snapshot, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to create content database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin export: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for _, stmt := range schemaFor(snap) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if p := snap.Personal; p != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO personal (name, age, location, degree, graduation_year, coding_since, description) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Age, p.Location, p.Degree, p.GraduationYear, p.CodingSince, p.Description); err != nil {
			return fmt.Errorf("failed to insert personal: %w", err)
		}
	}
	for i, e := range snap.Education {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO education (position, id, institution, year, degree, description, details) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, e.ID, e.Institution, e.Year, e.Degree, e.Description, e.Details); err != nil {
			return fmt.Errorf("failed to insert education %q: %w", e.ID, err)
		}
	}
	for i, s := range snap.Skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skills (position, name, level, years, projects) VALUES (?, ?, ?, ?, ?)`,
			i, s.Name, s.Level, s.Years, s.Projects); err != nil {
			return fmt.Errorf("failed to insert skill %q: %w", s.Name, err)
		}
	}
	for i, g := range snap.Technologies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO technologies (position, label, items) VALUES (?, ?, ?)`,
			i, g.Label, strings.Join(g.Items, listSep)); err != nil {
			return fmt.Errorf("failed to insert technology group %q: %w", g.Label, err)
		}
	}
	for i, p := range snap.Projects {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO projects (position, id, title, tech, lines, time, description, details) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, p.ID, p.Title, strings.Join(p.Tech, listSep), p.Lines, p.Time, p.Description, p.Details); err != nil {
			return fmt.Errorf("failed to insert project %q: %w", p.ID, err)
		}
	}
	if c := snap.Contact; c != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contact (email, github, location, note) VALUES (?, ?, ?, ?)`,
			c.Email, c.GitHub, c.Location, c.Note); err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}

// schemaFor returns the CREATE statements for the categories present in snap.
func schemaFor(snap *Snapshot) []string {
	present := map[string]bool{
		"personal":     snap.Personal != nil,
		"education":    snap.Education != nil,
		"skills":       snap.Skills != nil,
		"technologies": snap.Technologies != nil,
		"projects":     snap.Projects != nil,
		"contact":      snap.Contact != nil,
	}

	var stmts []string
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		fields := strings.Fields(stmt)
		// CREATE TABLE IF NOT EXISTS <name> (
		if len(fields) > 5 && present[fields[5]] {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, listSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
