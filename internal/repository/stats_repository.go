package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// StatsRepository runs the aggregation queries behind the statistics
// pages. Counting and summing stay in SQL; the percentage is computed by
// the stats service so the zero-answers case has exactly one rule.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountAnswersByCategory counts answers reachable through
// user_answers -> questions -> quizzes for one category
func (r *StatsRepository) CountAnswersByCategory(ctx context.Context, categoryID uint64) (total, correct int, err error) {
	query := `
		SELECT COUNT(ua.id),
		       COALESCE(SUM(CASE WHEN ua.is_right = TRUE THEN 1 ELSE 0 END), 0)
		FROM categories c
		LEFT JOIN quizzes q ON q.category_id = c.id
		LEFT JOIN questions qu ON qu.quiz_id = q.id
		LEFT JOIN user_answers ua ON ua.question_id = qu.id
		WHERE c.id = ?
	`

	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("failed to count category answers: %w", err)
	}
	return total, correct, nil
}

// CountAnswersByQuiz counts answers reachable through
// user_answers -> questions for one quiz
func (r *StatsRepository) CountAnswersByQuiz(ctx context.Context, quizID uint64) (total, correct int, err error) {
	query := `
		SELECT COUNT(ua.id),
		       COALESCE(SUM(CASE WHEN ua.is_right = TRUE THEN 1 ELSE 0 END), 0)
		FROM quizzes q
		LEFT JOIN questions qu ON qu.quiz_id = q.id
		LEFT JOIN user_answers ua ON ua.question_id = qu.id
		WHERE q.id = ?
	`

	if err := r.db.QueryRowContext(ctx, query, quizID).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("failed to count quiz answers: %w", err)
	}
	return total, correct, nil
}

// CountAnswersByQuestion counts answers recorded for one question
func (r *StatsRepository) CountAnswersByQuestion(ctx context.Context, questionID uint64) (total, correct int, err error) {
	query := `
		SELECT COUNT(ua.id),
		       COALESCE(SUM(CASE WHEN ua.is_right = TRUE THEN 1 ELSE 0 END), 0)
		FROM questions qu
		LEFT JOIN user_answers ua ON ua.question_id = qu.id
		WHERE qu.id = ?
	`

	if err := r.db.QueryRowContext(ctx, query, questionID).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("failed to count question answers: %w", err)
	}
	return total, correct, nil
}

// CountAnswersByUser counts every answer a user has given
func (r *StatsRepository) CountAnswersByUser(ctx context.Context, userID uint64) (total, correct int, err error) {
	query := `
		SELECT COUNT(ua.id),
		       COALESCE(SUM(CASE WHEN ua.is_right = TRUE THEN 1 ELSE 0 END), 0)
		FROM user_answers ua
		WHERE ua.user_id = ?
	`

	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("failed to count user answers: %w", err)
	}
	return total, correct, nil
}

// GetLabel fetches a display label from one of the entity tables. The
// table and column names are fixed by the callers, never user input.
func (r *StatsRepository) getLabel(ctx context.Context, query string, id uint64) (string, bool, error) {
	var label string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&label)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get label: %w", err)
	}
	return label, true, nil
}

// GetCategoryLabel fetches a category name by id
func (r *StatsRepository) GetCategoryLabel(ctx context.Context, categoryID uint64) (string, bool, error) {
	return r.getLabel(ctx, `SELECT name FROM categories WHERE id = ?`, categoryID)
}

// GetQuizLabel fetches a quiz title by id
func (r *StatsRepository) GetQuizLabel(ctx context.Context, quizID uint64) (string, bool, error) {
	return r.getLabel(ctx, `SELECT title FROM quizzes WHERE id = ?`, quizID)
}

// GetQuestionLabel fetches a question title by id
func (r *StatsRepository) GetQuestionLabel(ctx context.Context, questionID uint64) (string, bool, error) {
	return r.getLabel(ctx, `SELECT title FROM questions WHERE id = ?`, questionID)
}

// GetUserLabel fetches a username by id
func (r *StatsRepository) GetUserLabel(ctx context.Context, userID uint64) (string, bool, error) {
	return r.getLabel(ctx, `SELECT username FROM users WHERE id = ?`, userID)
}
