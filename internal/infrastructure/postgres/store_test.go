package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

type doc struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Version int64  `json:"version"`
}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestMigrate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("orders", "o-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"id":"o-1","user":"u-1","version":2}`)))

	var got doc
	require.NoError(t, s.Collection("orders").FindByID(context.Background(), "o-1", &got))
	assert.Equal(t, doc{ID: "o-1", User: "u-1", Version: 2}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("orders", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	var got doc
	err := s.Collection("orders").FindByID(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindManyUsesContainment(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY seq`)).
		WithArgs("orders", `{"user":"u-1"}`).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"id":"o-1","user":"u-1"}`)).
			AddRow([]byte(`{"id":"o-2","user":"u-1"}`)))

	var got []doc
	require.NoError(t, s.Collection("orders").FindMany(context.Background(), docstore.Filter{"user": "u-1"}, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "o-2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindManyEmpty(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY seq`)).
		WithArgs("orders", `{}`).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	var got []doc
	require.NoError(t, s.Collection("orders").FindMany(context.Background(), nil, &got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInsertDuplicate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, id, version, data) VALUES ($1, $2, 1, $3)`)).
		WithArgs("payments", "pay-o-1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.Collection("payments").Insert(context.Background(), "pay-o-1", doc{ID: "pay-o-1", Version: 1})
	assert.ErrorIs(t, err, docstore.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplace(t *testing.T) {
	const update = `UPDATE documents SET data = $1, version = version + 1 WHERE collection = $2 AND id = $3 AND version = $4`
	const lookup = `SELECT version FROM documents WHERE collection = $1 AND id = $2`

	t.Run("ok", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(update)).
			WithArgs(sqlmock.AnyArg(), "orders", "o-1", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Collection("orders").Replace(context.Background(), "o-1", 1, doc{ID: "o-1", Version: 2}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(update)).
			WithArgs(sqlmock.AnyArg(), "orders", "o-1", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(lookup)).
			WithArgs("orders", "o-1").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(3)))

		err := s.Collection("orders").Replace(context.Background(), "o-1", 1, doc{ID: "o-1", Version: 2})
		assert.ErrorIs(t, err, docstore.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(update)).
			WithArgs(sqlmock.AnyArg(), "orders", "o-1", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(lookup)).
			WithArgs("orders", "o-1").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		err := s.Collection("orders").Replace(context.Background(), "o-1", 1, doc{ID: "o-1", Version: 2})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteByIDMissing(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("orders", "o-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Collection("orders").DeleteByID(context.Background(), "o-1"), docstore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxCommits(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WithArgs("orders", "o-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WithArgs("payments", "pay-o-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.WithinTx(context.Background(), func(ctx context.Context, tx docstore.Store) error {
		if err := tx.Collection("orders").Insert(ctx, "o-1", doc{ID: "o-1", Version: 1}); err != nil {
			return err
		}
		return tx.Collection("payments").Insert(ctx, "pay-o-1", doc{ID: "pay-o-1", Version: 1})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBack(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WithArgs("orders", "o-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WithArgs("payments", "pay-o-1", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(ctx context.Context, tx docstore.Store) error {
		if err := tx.Collection("orders").Insert(ctx, "o-1", doc{ID: "o-1", Version: 1}); err != nil {
			return err
		}
		return tx.Collection("payments").Insert(ctx, "pay-o-1", doc{ID: "pay-o-1", Version: 1})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}
