package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medquiz/internal/models"
)

type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// GetActiveQuizzesByCategoryID retrieves active quizzes of a category
func (r *QuizRepository) GetActiveQuizzesByCategoryID(ctx context.Context, categoryID uint64) ([]*models.Quiz, error) {
	query := `
		SELECT id, title, category_id, is_active
		FROM quizzes
		WHERE category_id = ? AND is_active = TRUE
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		var quiz models.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.Title, &quiz.CategoryID, &quiz.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, &quiz)
	}

	return quizzes, nil
}

// GetQuizByID retrieves a quiz by ID
func (r *QuizRepository) GetQuizByID(ctx context.Context, quizID uint64) (*models.Quiz, error) {
	query := `
		SELECT id, title, category_id, is_active
		FROM quizzes
		WHERE id = ?
	`

	var quiz models.Quiz
	err := r.db.QueryRowContext(ctx, query, quizID).Scan(
		&quiz.ID,
		&quiz.Title,
		&quiz.CategoryID,
		&quiz.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return &quiz, nil
}

// CreateQuiz inserts a new quiz and returns its ID
func (r *QuizRepository) CreateQuiz(ctx context.Context, title string, categoryID uint64, isActive bool) (uint64, error) {
	query := `INSERT INTO quizzes (title, category_id, is_active) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, title, categoryID, isActive)
	if isDuplicateEntry(err) {
		return 0, fmt.Errorf("%w: a quiz with this title", ErrDuplicateEntry)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create quiz: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get quiz id: %w", err)
	}

	return uint64(id), nil
}

// UpdateQuiz updates title, category and active flag of a quiz
func (r *QuizRepository) UpdateQuiz(ctx context.Context, quizID uint64, title string, categoryID uint64, isActive bool) error {
	query := `UPDATE quizzes SET title = ?, category_id = ?, is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, title, categoryID, isActive, quizID)
	if isDuplicateEntry(err) {
		return fmt.Errorf("%w: a quiz with this title", ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
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

// DeleteQuiz removes a quiz
func (r *QuizRepository) DeleteQuiz(ctx context.Context, quizID uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, quizID)
	if isRowReferenced(err) {
		return fmt.Errorf("%w: quiz still has questions", ErrInUse)
	}
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
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
