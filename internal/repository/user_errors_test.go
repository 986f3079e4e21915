package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Error paths are driven through sqlmock; the happy paths run on sqlite in
// repository_test.go.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepositoryGetByEmailDBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnError(dbErr)

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListDBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	dbErr := errors.New("driver: bad connection")
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnError(dbErr)

	users, err := repo.List(context.Background(), 10, 0)
	assert.Empty(t, users)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
