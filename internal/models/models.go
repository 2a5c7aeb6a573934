package models

import "time"

// Category represents a top-level quiz grouping
type Category struct {
	ID       uint64 `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

// Quiz represents a named set of questions inside a category
type Quiz struct {
	ID         uint64 `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	CategoryID uint64 `db:"category_id" json:"category_id"`
	IsActive   bool   `db:"is_active" json:"is_active"`
}

// Question represents a single prompt belonging to a quiz
type Question struct {
	ID       uint64 `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	QuizID   uint64 `db:"quiz_id" json:"quiz_id"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

// Variant represents one answer choice for a question.
// Exactly one variant per question carries IsRightChoice.
type Variant struct {
	ID            uint64  `db:"id" json:"id"`
	QuestionID    uint64  `db:"question_id" json:"question_id"`
	Title         string  `db:"title" json:"title"`
	Description   *string `db:"description" json:"description,omitempty"`
	IsRightChoice bool    `db:"is_right_choice" json:"-"`
}

// User represents a quiz participant resolved from a Telegram login
type User struct {
	ID         uint64    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Username   string    `db:"username" json:"username"`
	TelegramID int64     `db:"telegram_id" json:"-"`
	CreatedOn  time.Time `db:"created_on" json:"created_on"`
	UpdatedOn  time.Time `db:"updated_on" json:"updated_on"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	IsAdmin    bool      `db:"is_admin" json:"is_admin"`
}

// QuizResult tracks per-(user, quiz) progress. QuestionID is the cursor
// pointing at the most recently answered question. UserID is nullable:
// results survive profile deletion anonymized.
type QuizResult struct {
	ID                  uint64  `db:"id"`
	UserID              *uint64 `db:"user_id"`
	QuizID              uint64  `db:"quiz_id"`
	QuestionID          uint64  `db:"question_id"`
	TotalQuestions      int     `db:"total_questions"`
	CorrectAnswersCount int     `db:"correct_answers_count"`
	IsComplete          bool    `db:"is_complete"`
}

// UserAnswer is the immutable per-(user, question) answer record.
// UserID is nullable for the same reason as QuizResult.UserID.
type UserAnswer struct {
	ID         uint64  `db:"id"`
	UserID     *uint64 `db:"user_id"`
	QuestionID uint64  `db:"question_id"`
	AnswerID   uint64  `db:"answer_id"`
	IsRight    bool    `db:"is_right"`
}

// VariantSnapshot is a detached copy of a variant used by trial-mode
// session state and answer outcomes, so neither depends on live rows.
type VariantSnapshot struct {
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	IsRightChoice bool   `json:"is_right_choice"`
}

// QuestionSnapshot is a detached copy of a question with its variants
type QuestionSnapshot struct {
	ID       uint64            `json:"id"`
	Title    string            `json:"title"`
	Variants []VariantSnapshot `json:"variants"`
}

// TrialAnswer pairs an answered question with the chosen variant inside
// a trial session
type TrialAnswer struct {
	Question QuestionSnapshot `json:"question"`
	Answer   VariantSnapshot  `json:"answer"`
}

// SnapshotQuestion builds a QuestionSnapshot from a question and its variants
func SnapshotQuestion(q *Question, variants []*Variant) QuestionSnapshot {
	snap := QuestionSnapshot{
		ID:       q.ID,
		Title:    q.Title,
		Variants: make([]VariantSnapshot, 0, len(variants)),
	}
	for _, v := range variants {
		snap.Variants = append(snap.Variants, SnapshotVariant(v))
	}
	return snap
}

// SnapshotVariant builds a VariantSnapshot from a variant row
func SnapshotVariant(v *Variant) VariantSnapshot {
	snap := VariantSnapshot{
		ID:            v.ID,
		Title:         v.Title,
		IsRightChoice: v.IsRightChoice,
	}
	if v.Description != nil {
		snap.Description = *v.Description
	}
	return snap
}
