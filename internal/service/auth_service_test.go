package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medquiz/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour)
	return svc, mock, func() { db.Close() }
}

func userRow(id uint64, telegramID int64, active, admin bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "username", "telegram_id", "created_on", "updated_on", "is_active", "is_admin"}).
		AddRow(id, "Alice", "alice", telegramID, now, now, active, admin)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token that validates back to the same user", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnRows(userRow(1, 555, true, false))

		token, user, err := svc.Login(ctx, 555)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.NotEmpty(t, token)

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(uint64(1)).
			WillReturnRows(userRow(1, 555, true, false))

		validated, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, validated.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown telegram id is unauthorized", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		_, _, err := svc.Login(ctx, 999)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inactive user is unauthorized", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnRows(userRow(1, 555, false, false))

		_, _, err := svc.Login(ctx, 555)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		svc, _, cleanup := newAuthService(t)
		defer cleanup()

		_, err := svc.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token of a deleted user is unauthorized", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnRows(userRow(1, 555, true, false))
		token, _, err := svc.Login(ctx, 555)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(uint64(1)).
			WillReturnError(sql.ErrNoRows)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("token signed with another secret is unauthorized", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnRows(userRow(1, 555, true, false))
		token, _, err := svc.Login(ctx, 555)
		require.NoError(t, err)

		other, _, _ := newAuthServiceWithSecret(t, "other-secret")
		_, err = other.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func newAuthServiceWithSecret(t *testing.T, secret string) (*AuthService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewAuthService(repository.NewUserRepository(db), secret, time.Hour), mock, func() { db.Close() }
}

func TestAuthService_RegisterFromTelegram(t *testing.T) {
	ctx := context.Background()

	t.Run("first registered user becomes admin", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("Alice", "alice", int64(555), sqlmock.AnyArg(), sqlmock.AnyArg(), true).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(uint64(1)).
			WillReturnRows(userRow(1, 555, true, true))

		user, created, err := svc.RegisterFromTelegram(ctx, "Alice", "alice", 555)
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, user.IsAdmin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("later registrations are plain users", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(777)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("Bob", "bob", int64(777), sqlmock.AnyArg(), sqlmock.AnyArg(), false).
			WillReturnResult(sqlmock.NewResult(4, 1))
		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(uint64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "telegram_id", "created_on", "updated_on", "is_active", "is_admin"}).
				AddRow(4, "Bob", "bob", 777, time.Now(), time.Now(), true, false))

		user, created, err := svc.RegisterFromTelegram(ctx, "Bob", "bob", 777)
		require.NoError(t, err)
		assert.True(t, created)
		assert.False(t, user.IsAdmin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing user is returned as-is", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnRows(userRow(1, 555, true, false))

		user, created, err := svc.RegisterFromTelegram(ctx, "Alice", "alice", 555)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, uint64(1), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inactive user is reactivated", func(t *testing.T) {
		svc, mock, cleanup := newAuthService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnRows(userRow(1, 555, false, false))
		mock.ExpectExec(`UPDATE users`).
			WithArgs(true, sqlmock.AnyArg(), uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		user, created, err := svc.RegisterFromTelegram(ctx, "Alice", "alice", 555)
		require.NoError(t, err)
		assert.False(t, created)
		assert.True(t, user.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
