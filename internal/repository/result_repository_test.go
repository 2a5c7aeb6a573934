package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medquiz/internal/models"
)

func correctVariant(id uint64) *models.Variant {
	return &models.Variant{ID: id, QuestionID: 10, Title: "right", IsRightChoice: true}
}

func wrongVariant(id uint64) *models.Variant {
	return &models.Variant{ID: id, QuestionID: 10, Title: "wrong", IsRightChoice: false}
}

func TestRecordAnswer(t *testing.T) {
	tests := []struct {
		name      string
		variant   *models.Variant
		setupMock func(sqlmock.Sqlmock)
		expectErr error
	}{
		{
			name:    "correct answer increments both counters",
			variant: correctVariant(100),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO user_answers`).
					WithArgs(uint64(1), uint64(10), uint64(100), true).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(`UPDATE quiz_results`).
					WithArgs(1, uint64(10), uint64(1), uint64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:    "wrong answer increments only the total",
			variant: wrongVariant(101),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO user_answers`).
					WithArgs(uint64(1), uint64(10), uint64(101), false).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(`UPDATE quiz_results`).
					WithArgs(0, uint64(10), uint64(1), uint64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:    "first answer creates the progress row lazily",
			variant: correctVariant(100),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO user_answers`).
					WithArgs(uint64(1), uint64(10), uint64(100), true).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(`UPDATE quiz_results`).
					WithArgs(1, uint64(10), uint64(1), uint64(5)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`INSERT INTO quiz_results`).
					WithArgs(uint64(1), uint64(5), uint64(10), 1).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:    "duplicate answer rolls back and reports the conflict",
			variant: correctVariant(100),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO user_answers`).
					WithArgs(uint64(1), uint64(10), uint64(100), true).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
				mock.ExpectRollback()
			},
			expectErr: ErrDuplicateAnswer,
		},
		{
			name:    "insert failure propagates",
			variant: correctVariant(100),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO user_answers`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			expectErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewResultRepository(db)

			tt.setupMock(mock)

			err = repo.RecordAnswer(context.Background(), 1, 5, 10, tt.variant)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetResultByUserAndQuiz(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewResultRepository(db)

		userID := uint64(1)
		rows := sqlmock.NewRows([]string{"id", "user_id", "quiz_id", "question_id", "total_questions", "correct_answers_count", "is_complete"}).
			AddRow(7, userID, 5, 10, 3, 2, false)
		mock.ExpectQuery(`SELECT (.+) FROM quiz_results`).
			WithArgs(uint64(1), uint64(5)).
			WillReturnRows(rows)

		result, err := repo.GetResultByUserAndQuiz(context.Background(), 1, 5)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 3, result.TotalQuestions)
		assert.Equal(t, 2, result.CorrectAnswersCount)
		assert.False(t, result.IsComplete)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row returns nil without error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewResultRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM quiz_results`).
			WithArgs(uint64(1), uint64(5)).
			WillReturnError(sql.ErrNoRows)

		result, err := repo.GetResultByUserAndQuiz(context.Background(), 1, 5)
		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkComplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewResultRepository(db)

	mock.ExpectExec(`UPDATE quiz_results`).
		WithArgs(uint64(1), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkComplete(context.Background(), 1, 5))

	// Second call matches no rows and still succeeds
	mock.ExpectExec(`UPDATE quiz_results`).
		WithArgs(uint64(1), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.MarkComplete(context.Background(), 1, 5))

	assert.NoError(t, mock.ExpectationsWereMet())
}
