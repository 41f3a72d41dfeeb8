package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/ets-hub/internal/storage"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS local_storage").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	store, err := newStore(context.Background(), mock)
	require.NoError(t, err)
	return store, mock
}

func TestStoreGet(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT value FROM local_storage WHERE key").
		WithArgs("ets_user").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`{"id":"1"}`))

	got, err := store.Get(context.Background(), "ets_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT value FROM local_storage WHERE key").
		WithArgs("ets_user").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Get(context.Background(), "ets_user")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSetAndDelete(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO local_storage").
		WithArgs("ets_user:d1", `{"id":"1"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM local_storage").
		WithArgs("ets_user:d1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Set(context.Background(), "ets_user:d1", []byte(`{"id":"1"}`)))
	require.NoError(t, store.Delete(context.Background(), "ets_user:d1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMigrationCreatesTableOnce(t *testing.T) {
	_, mock := newMockStore(t)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMigrationFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS local_storage").WillReturnError(errors.New("permission denied"))

	_, err = newStore(context.Background(), mock)
	assert.ErrorContains(t, err, "apply migrations")
}
