package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"medquiz/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	query := `
		SELECT id, name, COALESCE(username, ''), telegram_id, created_on, updated_on, is_active, is_admin
		FROM users
		WHERE id = ?
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.TelegramID,
		&user.CreatedOn,
		&user.UpdatedOn,
		&user.IsActive,
		&user.IsAdmin,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByTelegramID retrieves a user by their Telegram identity
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `
		SELECT id, name, COALESCE(username, ''), telegram_id, created_on, updated_on, is_active, is_admin
		FROM users
		WHERE telegram_id = ?
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.TelegramID,
		&user.CreatedOn,
		&user.UpdatedOn,
		&user.IsActive,
		&user.IsAdmin,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	return &user, nil
}

// CountUsers returns the number of registered users
func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CreateUser inserts a new user and returns its ID. An empty username is
// stored as NULL so the unique key on usernames only covers real handles.
func (r *UserRepository) CreateUser(ctx context.Context, name, username string, telegramID int64, isAdmin bool) (uint64, error) {
	now := time.Now()
	query := `
		INSERT INTO users (name, username, telegram_id, created_on, updated_on, is_active, is_admin)
		VALUES (?, ?, ?, ?, ?, TRUE, ?)
	`

	uname := sql.NullString{String: username, Valid: username != ""}
	result, err := r.db.ExecContext(ctx, query, name, uname, telegramID, now, now, isAdmin)
	if isDuplicateEntry(err) {
		return 0, fmt.Errorf("%w: a user with this identity", ErrDuplicateEntry)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}

	return uint64(id), nil
}

// SetUserActive flips the active flag of a user
func (r *UserRepository) SetUserActive(ctx context.Context, userID uint64, isActive bool) error {
	query := `UPDATE users SET is_active = ?, updated_on = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, isActive, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteUser removes a user while preserving their quiz history: results and
// answers are anonymized (user_id set NULL) before the user row is deleted,
// all within one transaction.
func (r *UserRepository) DeleteUser(ctx context.Context, userID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE quiz_results SET user_id = NULL WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to anonymize quiz results: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE user_answers SET user_id = NULL WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to anonymize user answers: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
