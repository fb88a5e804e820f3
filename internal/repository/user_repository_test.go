package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"threadchat/internal/model"
)

func TestUserRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newSQLiteDB(t))

	user := &model.User{ID: uuid.NewString(), Email: "ada@example.com", Name: "Ada", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.Name)

	dup := &model.User{ID: uuid.NewString(), Email: "ada@example.com", Name: "Other", PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicate)

	_, err = repo.FindByEmail(ctx, "ADA@example.com")
	assert.ErrorIs(t, err, ErrNotFound, "emails are case-sensitive as stored")

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func newMySQLMock(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return NewUserRepository(gormDB), mock
}

func TestUserRepository_MySQLErrorTranslation(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `users`").
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'ada@example.com' for key 'email'"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &model.User{ID: uuid.NewString(), Email: "ada@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

		user, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByID(context.Background(), "some-id")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "connection reset")
	})
}
