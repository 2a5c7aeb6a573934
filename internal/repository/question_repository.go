package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medquiz/internal/models"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetActiveQuestionsByQuizID retrieves active questions of a quiz ordered by id
func (r *QuestionRepository) GetActiveQuestionsByQuizID(ctx context.Context, quizID uint64) ([]*models.Question, error) {
	query := `
		SELECT id, title, quiz_id, is_active
		FROM questions
		WHERE quiz_id = ? AND is_active = TRUE
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.Title, &question.QuizID, &question.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &question)
	}

	return questions, nil
}

// GetNextQuestion retrieves the first active question of the quiz the user
// has not answered yet, ordered by ascending id. Returns (nil, nil) when
// every active question has a recorded answer.
func (r *QuestionRepository) GetNextQuestion(ctx context.Context, userID, quizID uint64) (*models.Question, error) {
	query := `
		SELECT q.id, q.title, q.quiz_id, q.is_active
		FROM questions q
		LEFT JOIN user_answers ua ON ua.question_id = q.id AND ua.user_id = ?
		WHERE q.quiz_id = ? AND q.is_active = TRUE AND ua.id IS NULL
		ORDER BY q.id ASC
		LIMIT 1
	`

	var question models.Question
	err := r.db.QueryRowContext(ctx, query, userID, quizID).Scan(
		&question.ID,
		&question.Title,
		&question.QuizID,
		&question.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next question: %w", err)
	}

	return &question, nil
}

// GetQuestionByID retrieves a question by ID
func (r *QuestionRepository) GetQuestionByID(ctx context.Context, questionID uint64) (*models.Question, error) {
	query := `
		SELECT id, title, quiz_id, is_active
		FROM questions
		WHERE id = ?
	`

	var question models.Question
	err := r.db.QueryRowContext(ctx, query, questionID).Scan(
		&question.ID,
		&question.Title,
		&question.QuizID,
		&question.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return &question, nil
}

// CreateQuestion inserts a question together with its variants in one
// transaction, so a question is never visible without its answer choices.
func (r *QuestionRepository) CreateQuestion(ctx context.Context, title string, quizID uint64, isActive bool, variants []*models.Variant) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO questions (title, quiz_id, is_active) VALUES (?, ?, ?)`,
		title, quizID, isActive,
	)
	if isDuplicateEntry(err) {
		return 0, fmt.Errorf("%w: a question with this title", ErrDuplicateEntry)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create question: %w", err)
	}

	questionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get question id: %w", err)
	}

	for _, variant := range variants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO variants (question_id, title, description, is_right_choice) VALUES (?, ?, ?, ?)`,
			questionID, variant.Title, variant.Description, variant.IsRightChoice,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to create variant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit question: %w", err)
	}

	return uint64(questionID), nil
}

// UpdateQuestion updates title and active flag of a question
func (r *QuestionRepository) UpdateQuestion(ctx context.Context, questionID uint64, title string, isActive bool) error {
	query := `UPDATE questions SET title = ?, is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, title, isActive, questionID)
	if isDuplicateEntry(err) {
		return fmt.Errorf("%w: a question with this title", ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
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

// DeleteQuestion removes a question and its variants
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, questionID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE question_id = ?`, questionID); err != nil {
		if isRowReferenced(err) {
			return fmt.Errorf("%w: question has recorded answers", ErrInUse)
		}
		return fmt.Errorf("failed to delete variants: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, questionID)
	if isRowReferenced(err) {
		return fmt.Errorf("%w: question has recorded answers", ErrInUse)
	}
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
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
