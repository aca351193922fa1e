package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresKV) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock, NewPostgresKV(db)
}

func TestPostgresKV_Get(t *testing.T) {
	_, mock, kv := setupMockDB(t)

	mock.ExpectQuery(`SELECT value FROM kv_store`).
		WithArgs("clinic:healthcare-patients").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":1}]`))

	v, err := kv.Get(context.Background(), "clinic:healthcare-patients")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_GetMiss(t *testing.T) {
	_, mock, kv := setupMockDB(t)

	mock.ExpectQuery(`SELECT value FROM kv_store`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := kv.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_Set(t *testing.T) {
	_, mock, kv := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("k", "v", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kv.Set(context.Background(), "k", "v", 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_SetError(t *testing.T) {
	_, mock, kv := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("k", "v", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err := kv.Set(context.Background(), "k", "v", 0)
	assert.EqualError(t, err, "disk full")
}

func TestPostgresKV_ScanKeys(t *testing.T) {
	_, mock, kv := setupMockDB(t)

	mock.ExpectQuery(`SELECT key FROM kv_store`).
		WithArgs(`clinic:healthcare\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).
			AddRow("clinic:healthcare_appointments").
			AddRow("clinic:healthcare_patients"))

	keys, err := kv.ScanKeys(context.Background(), "clinic:healthcare_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"clinic:healthcare_appointments", "clinic:healthcare_patients"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_EnsureSchema(t *testing.T) {
	_, mock, kv := setupMockDB(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS kv_store`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, kv.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobToLike(t *testing.T) {
	assert.Equal(t, "clinic:%", globToLike("clinic:*"))
	assert.Equal(t, "a_b", globToLike("a?b"))
	assert.Equal(t, `100\%\_x`, globToLike("100%_x"))
}
