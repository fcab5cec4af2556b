package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB wires gorm's postgres dialect over a sqlmock connection so the
// raw SQL paths can be asserted exactly.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestPostRepositoryLikeIsIdempotentInsert(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewPostRepository(gdb)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO likes")).
		WithArgs(uint(7), uint(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Like(context.Background(), 7, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryUnlikeHardDeletes(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewPostRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(uint(7), uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Unlike(context.Background(), 7, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
