// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fixtures serves the deterministic demonstration data set used when
// the repository is unreachable. The data ships as an embedded YAML file and
// is loaded into a private in-memory SQLite database so mock searches run
// the same filters a repository would.
package fixtures

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// DefaultDetailType is the type given to mock details requested without one.
const DefaultDetailType = "Content"

// driverName is go-sqlite3 with a fold(text) SQL function that lowercases
// with strings.ToLower. SQLite's own lower() only folds ASCII.
const driverName = "sqlite3_fixtures"

var registerDriver sync.Once

func openDB() (*sql.DB, error) {
	registerDriver.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("fold", strings.ToLower, true)
			},
		})
	})
	return sql.Open(driverName, ":memory:")
}

type fixtureFile struct {
	Categories []fixtureCategory `yaml:"categories"`
	Detail     detailTemplate    `yaml:"detail"`
}

type fixtureCategory struct {
	Name  string        `yaml:"name"`
	Items []fixtureItem `yaml:"items"`
}

type fixtureItem struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Type            string `yaml:"type"`
	Phase           string `yaml:"phase"`
	TherapeuticArea string `yaml:"therapeutic_area"`
	StudyType       string `yaml:"study_type"`
}

type detailTemplate struct {
	Description   string               `yaml:"description"`
	Metadata      map[string]any       `yaml:"metadata"`
	Properties    map[string]any       `yaml:"properties"`
	Relationships []types.Relationship `yaml:"relationships"`
}

// Store answers mock searches and synthesizes mock detail records.
type Store struct {
	db     *sql.DB
	detail detailTemplate
}

// Open parses the embedded fixtures and loads them into a new in-memory
// database. Each Store owns its database; call Close to release it.
func Open() (*Store, error) {
	var ff fixtureFile
	if err := yaml.Unmarshal(fixturesYAML, &ff); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return nil, fmt.Errorf("opening fixture database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, detail: ff.Detail}
	if err := s.load(ff.Categories); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load(categories []fixtureCategory) error {
	if _, err := s.db.Exec(`CREATE TABLE items (
		seq INTEGER PRIMARY KEY,
		category TEXT NOT NULL,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		type TEXT NOT NULL,
		phase TEXT,
		therapeutic_area TEXT,
		study_type TEXT
	)`); err != nil {
		return fmt.Errorf("creating fixture table: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning fixture load: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO items
		(category, id, title, description, type, phase, therapeutic_area, study_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing fixture insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range categories {
		for _, it := range c.Items {
			if _, err := stmt.Exec(c.Name, it.ID, it.Title, it.Description, it.Type,
				it.Phase, it.TherapeuticArea, it.StudyType); err != nil {
				return fmt.Errorf("inserting fixture %s: %w", it.ID, err)
			}
		}
	}
	return tx.Commit()
}

// Search returns the fixture items matching cfg. Type "all" (or empty)
// spans every category; an unknown category yields no items. The query
// matches title, description or type case-insensitively, phase must match
// exactly and therapeutic area matches as a case-insensitive substring.
// The other filters do not apply to fixture data.
func (s *Store) Search(ctx context.Context, cfg types.SearchConfig) ([]types.ResultItem, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, title, description, type, phase, therapeutic_area, study_type
		FROM items WHERE 1=1`)

	if cfg.Type != "" && cfg.Type != types.SearchAll {
		qb.WriteString(` AND category = ?`)
		args = append(args, cfg.Type)
	}

	if cfg.Query != "" {
		q := strings.ToLower(cfg.Query)
		qb.WriteString(` AND (instr(fold(title), ?) > 0
			OR instr(fold(description), ?) > 0
			OR instr(fold(type), ?) > 0)`)
		args = append(args, q, q, q)
	}

	if cfg.Filters.Phase != "" {
		qb.WriteString(` AND phase = ?`)
		args = append(args, cfg.Filters.Phase)
	}

	if cfg.Filters.TherapeuticArea != "" {
		qb.WriteString(` AND instr(fold(therapeutic_area), ?) > 0`)
		args = append(args, strings.ToLower(cfg.Filters.TherapeuticArea))
	}

	qb.WriteString(` ORDER BY seq`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying fixtures: %w", err)
	}
	defer rows.Close()

	results := []types.ResultItem{}
	for rows.Next() {
		var (
			r                      types.ResultItem
			phase, area, studyType sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Type, &phase, &area, &studyType); err != nil {
			return nil, fmt.Errorf("scanning fixture row: %w", err)
		}
		r.Phase = phase.String
		r.TherapeuticArea = area.String
		r.StudyType = studyType.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// Detail synthesizes a detail record for id. An empty contentType is
// reported as DefaultDetailType. The returned maps are fresh copies.
func (s *Store) Detail(id, contentType string) types.DetailedContent {
	if contentType == "" {
		contentType = DefaultDetailType
	}
	return types.DetailedContent{
		ID:            id,
		Title:         fmt.Sprintf("Detailed %s: %s", contentType, id),
		Description:   s.detail.Description,
		Type:          contentType,
		Metadata:      maps.Clone(s.detail.Metadata),
		Properties:    maps.Clone(s.detail.Properties),
		Relationships: append([]types.Relationship(nil), s.detail.Relationships...),
	}
}
