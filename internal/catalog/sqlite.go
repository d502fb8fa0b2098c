package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/elicit/internal/model"
)

// SQLiteStore implements WritableStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS categories (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	name_key   TEXT NOT NULL UNIQUE,
	doc        TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put inserts cat or replaces the category with the same folded name.
func (s *SQLiteStore) Put(ctx context.Context, cat *model.Category) error {
	if err := ValidateCategory(cat); err != nil {
		return err
	}
	doc, err := json.Marshal(cat)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal category")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, name_key, doc, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_key) DO UPDATE SET name = excluded.name, doc = excluded.doc, updated_at = excluded.updated_at`,
		uuid.New().String(), cat.Name, Key(cat.Name), string(doc), now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: put category %s", cat.Name)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (*model.Category, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM categories WHERE name_key = ?`, Key(name),
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrCategoryNotFound, "sqlite: get category %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get category %s", name)
	}
	return decodeDoc([]byte(doc))
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM categories ORDER BY name_key`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list categories")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Category
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan category")
		}
		cat, err := decodeDoc([]byte(doc))
		if err != nil {
			return nil, err
		}
		out = append(out, *cat)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate categories")
}

func decodeDoc(doc []byte) (*model.Category, error) {
	var cat model.Category
	if err := json.Unmarshal(doc, &cat); err != nil {
		return nil, eris.Wrap(err, "catalog: decode category")
	}
	return &cat, nil
}
