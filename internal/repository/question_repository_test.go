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

func TestGetNextQuestion(t *testing.T) {
	t.Run("returns the first unanswered question", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewQuestionRepository(db)

		rows := sqlmock.NewRows([]string{"id", "title", "quiz_id", "is_active"}).
			AddRow(10, "What is the femur?", 5, true)
		mock.ExpectQuery(`SELECT (.+) FROM questions q`).
			WithArgs(uint64(1), uint64(5)).
			WillReturnRows(rows)

		question, err := repo.GetNextQuestion(context.Background(), 1, 5)
		require.NoError(t, err)
		require.NotNil(t, question)
		assert.Equal(t, uint64(10), question.ID)
		assert.Equal(t, "What is the femur?", question.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil when the quiz is exhausted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewQuestionRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM questions q`).
			WithArgs(uint64(1), uint64(5)).
			WillReturnError(sql.ErrNoRows)

		question, err := repo.GetNextQuestion(context.Background(), 1, 5)
		assert.NoError(t, err)
		assert.Nil(t, question)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateQuestion(t *testing.T) {
	t.Run("inserts the question with its variants in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewQuestionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO questions`).
			WithArgs("New question", uint64(5), true).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectExec(`INSERT INTO variants`).
			WithArgs(int64(42), "Right", (*string)(nil), true).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO variants`).
			WithArgs(int64(42), "Wrong", (*string)(nil), false).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		variants := []*models.Variant{
			{Title: "Right", IsRightChoice: true},
			{Title: "Wrong", IsRightChoice: false},
		}
		id, err := repo.CreateQuestion(context.Background(), "New question", 5, true, variants)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("variant failure rolls the question back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewQuestionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO questions`).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectExec(`INSERT INTO variants`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		variants := []*models.Variant{{Title: "Right", IsRightChoice: true}}
		_, err = repo.CreateQuestion(context.Background(), "New question", 5, true, variants)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteQuestion(t *testing.T) {
	t.Run("removes variants before the question", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewQuestionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM variants`).
			WithArgs(uint64(10)).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM questions`).
			WithArgs(uint64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteQuestion(context.Background(), 10))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("question with recorded answers stays put", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewQuestionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM variants`).
			WithArgs(uint64(10)).
			WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})
		mock.ExpectRollback()

		err = repo.DeleteQuestion(context.Background(), 10)
		assert.ErrorIs(t, err, ErrInUse)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing question reports not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewQuestionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM variants`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM questions`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.DeleteQuestion(context.Background(), 99)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
