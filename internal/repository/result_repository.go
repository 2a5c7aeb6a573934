package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medquiz/internal/models"
)

type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// GetResultByUserAndQuiz retrieves the progress row for a (user, quiz) pair
func (r *ResultRepository) GetResultByUserAndQuiz(ctx context.Context, userID, quizID uint64) (*models.QuizResult, error) {
	query := `
		SELECT id, user_id, quiz_id, question_id, total_questions, correct_answers_count, is_complete
		FROM quiz_results
		WHERE user_id = ? AND quiz_id = ?
	`

	var result models.QuizResult
	err := r.db.QueryRowContext(ctx, query, userID, quizID).Scan(
		&result.ID,
		&result.UserID,
		&result.QuizID,
		&result.QuestionID,
		&result.TotalQuestions,
		&result.CorrectAnswersCount,
		&result.IsComplete,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz result: %w", err)
	}

	return &result, nil
}

// GetResultsByUser retrieves every progress row of a user
func (r *ResultRepository) GetResultsByUser(ctx context.Context, userID uint64) ([]*models.QuizResult, error) {
	query := `
		SELECT id, user_id, quiz_id, question_id, total_questions, correct_answers_count, is_complete
		FROM quiz_results
		WHERE user_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz results: %w", err)
	}
	defer rows.Close()

	var results []*models.QuizResult
	for rows.Next() {
		var result models.QuizResult
		if err := rows.Scan(
			&result.ID,
			&result.UserID,
			&result.QuizID,
			&result.QuestionID,
			&result.TotalQuestions,
			&result.CorrectAnswersCount,
			&result.IsComplete,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}

// RecordAnswer stores a user's answer and advances their progress in one
// transaction: the user_answers insert and the quiz_results update either
// both land or neither does. A re-submitted answer hits the unique
// constraint on user_answers(user_id, question_id), rolls everything back
// and surfaces ErrDuplicateAnswer, so counters never drift on replays.
func (r *ResultRepository) RecordAnswer(ctx context.Context, userID, quizID, questionID uint64, variant *models.Variant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert the answer first: the constraint check aborts duplicates
	// before any counter is touched.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_answers (user_id, question_id, answer_id, is_right) VALUES (?, ?, ?, ?)`,
		userID, questionID, variant.ID, variant.IsRightChoice,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateAnswer
		}
		return fmt.Errorf("failed to insert user answer: %w", err)
	}

	correctIncrement := 0
	if variant.IsRightChoice {
		correctIncrement = 1
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE quiz_results
		SET total_questions = total_questions + 1,
		    correct_answers_count = correct_answers_count + ?,
		    question_id = ?
		WHERE user_id = ? AND quiz_id = ?
	`, correctIncrement, questionID, userID, quizID)
	if err != nil {
		return fmt.Errorf("failed to update quiz result: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if affected == 0 {
		// First answer for this quiz: create the progress row lazily
		_, err = tx.ExecContext(ctx, `
			INSERT INTO quiz_results (user_id, quiz_id, question_id, total_questions, correct_answers_count, is_complete)
			VALUES (?, ?, ?, 1, ?, FALSE)
		`, userID, quizID, questionID, correctIncrement)
		if err != nil {
			return fmt.Errorf("failed to create quiz result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit answer: %w", err)
	}

	return nil
}

// MarkComplete flips is_complete exactly once for a (user, quiz) pair.
// Calling it again is a no-op.
func (r *ResultRepository) MarkComplete(ctx context.Context, userID, quizID uint64) error {
	query := `
		UPDATE quiz_results
		SET is_complete = TRUE
		WHERE user_id = ? AND quiz_id = ? AND is_complete = FALSE
	`

	if _, err := r.db.ExecContext(ctx, query, userID, quizID); err != nil {
		return fmt.Errorf("failed to mark quiz complete: %w", err)
	}

	return nil
}
