package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medquiz/internal/models"
)

type AnswerRepository struct {
	db *sql.DB
}

func NewAnswerRepository(db *sql.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// GetAnswersByUserAndQuiz retrieves a user's answers scoped to one quiz
func (r *AnswerRepository) GetAnswersByUserAndQuiz(ctx context.Context, userID, quizID uint64) ([]*models.UserAnswer, error) {
	query := `
		SELECT ua.id, ua.user_id, ua.question_id, ua.answer_id, ua.is_right
		FROM user_answers ua
		INNER JOIN questions q ON q.id = ua.question_id
		WHERE ua.user_id = ? AND q.quiz_id = ?
		ORDER BY ua.question_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user answers: %w", err)
	}
	defer rows.Close()

	return scanAnswers(rows)
}

// GetAnswersByUser retrieves every answer of a user
func (r *AnswerRepository) GetAnswersByUser(ctx context.Context, userID uint64) ([]*models.UserAnswer, error) {
	query := `
		SELECT id, user_id, question_id, answer_id, is_right
		FROM user_answers
		WHERE user_id = ?
		ORDER BY question_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user answers: %w", err)
	}
	defer rows.Close()

	return scanAnswers(rows)
}

func scanAnswers(rows *sql.Rows) ([]*models.UserAnswer, error) {
	var answers []*models.UserAnswer
	for rows.Next() {
		var answer models.UserAnswer
		if err := rows.Scan(
			&answer.ID,
			&answer.UserID,
			&answer.QuestionID,
			&answer.AnswerID,
			&answer.IsRight,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user answer: %w", err)
		}
		answers = append(answers, &answer)
	}
	return answers, nil
}
