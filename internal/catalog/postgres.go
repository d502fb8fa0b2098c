package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/elicit/internal/config"
	"github.com/sells-group/elicit/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements WritableStore using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *config.PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS categories (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL,
	name_key   TEXT NOT NULL UNIQUE,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Put inserts cat or replaces the category with the same folded name.
func (s *PostgresStore) Put(ctx context.Context, cat *model.Category) error {
	if err := ValidateCategory(cat); err != nil {
		return err
	}
	doc, err := json.Marshal(cat)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal category")
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO categories (id, name, name_key, doc, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name_key) DO UPDATE SET name = EXCLUDED.name, doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		uuid.New().String(), cat.Name, Key(cat.Name), doc, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: put category %s", cat.Name)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, name string) (*model.Category, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM categories WHERE name_key = $1`, Key(name),
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrCategoryNotFound, "postgres: get category %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get category %s", name)
	}
	return decodeDoc(doc)
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM categories ORDER BY name_key`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list categories")
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, eris.Wrap(err, "postgres: scan category")
		}
		cat, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *cat)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate categories")
}
