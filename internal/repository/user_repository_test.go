package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByTelegramID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewUserRepository(db)

		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "name", "username", "telegram_id", "created_on", "updated_on", "is_active", "is_admin"}).
			AddRow(1, "Alice", "alice", int64(555), now, now, true, false)
		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(555)).
			WillReturnRows(rows)

		user, err := repo.GetUserByTelegramID(context.Background(), 555)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint64(1), user.ID)
		assert.Equal(t, int64(555), user.TelegramID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown telegram id returns nil", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByTelegramID(context.Background(), 999)
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("anonymizes history before removing the user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewUserRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE quiz_results SET user_id = NULL`).
			WithArgs(uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`UPDATE user_answers SET user_id = NULL`).
			WithArgs(uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 6))
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteUser(context.Background(), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user reports not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewUserRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE quiz_results SET user_id = NULL`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE user_answers SET user_id = NULL`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM users`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.DeleteUser(context.Background(), 99), ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Alice", "alice", int64(555), sqlmock.AnyArg(), sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.CreateUser(context.Background(), "Alice", "alice", 555, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserWithoutUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	// Accounts without a Telegram handle store NULL, keeping the unique
	// key on usernames out of their way.
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Bob", nil, int64(777), sqlmock.AnyArg(), sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(2, 1))

	id, err := repo.CreateUser(context.Background(), "Bob", "", 777, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateIdentity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err = repo.CreateUser(context.Background(), "Alice", "alice", 555, false)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}
