package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return newStoreFromDB(db, "mock"), mock
}

func TestCreateUserConflictMapsToAlreadyExists(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "hash", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Users().CreateUser(context.Background(), "alice", "hash", time.Now())
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestDriverErrorsAreNotNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	diskErr := errors.New("disk I/O error")

	mock.ExpectQuery(`SELECT .* FROM users WHERE username = \?`).
		WithArgs("alice").
		WillReturnError(diskErr)

	_, err := s.Users().GetUserByUsername(context.Background(), "alice")
	require.ErrorIs(t, err, diskErr)
	require.NotErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePostWithoutRowsIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM posts WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, s.Posts().DeletePost(context.Background(), 7), store.ErrNotFound)
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <= \?`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		n, err := tx.Sessions().DeleteExpiredSessions(context.Background(), time.Now())
		require.EqualValues(t, 3, n)
		return err
	})
	require.NoError(t, err)
}

func TestNestedTxIsRefused(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		_, err := tx.Tx(context.Background())
		return err
	})
	require.Error(t, err)
}
