package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/elicit/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS categories`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	doc, err := json.Marshal(model.Category{Name: "Phone", Aliases: []string{"telefon"}})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT doc FROM categories WHERE name_key = \$1`).
		WithArgs("phone").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow(doc))

	cat, err := s.Get(context.Background(), "Phone")
	require.NoError(t, err)
	assert.Equal(t, "Phone", cat.Name)
	assert.Equal(t, []string{"telefon"}, cat.Aliases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT doc FROM categories WHERE name_key = \$1`).
		WithArgs("toaster").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Get(context.Background(), "Toaster")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Put_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(name_key\)`).
		WithArgs(pgxmock.AnyArg(), "Mouse", "mouse", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Put(context.Background(), &model.Category{Name: "Mouse"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Put_Invalid(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	err := s.Put(context.Background(), &model.Category{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing is written")
}

func TestPostgresStore_List(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	a, _ := json.Marshal(model.Category{Name: "Laptop"})
	b, _ := json.Marshal(model.Category{Name: "Mouse"})
	mock.ExpectQuery(`SELECT doc FROM categories ORDER BY name_key`).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow(a).AddRow(b))

	cats, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Laptop", cats[0].Name)
	assert.Equal(t, "Mouse", cats[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT doc FROM categories`).WillReturnError(assert.AnError)

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: list categories")
}
