package models

// AnswerStats holds aggregate correctness numbers for one scope: a
// category, a quiz, a question or a user
type AnswerStats struct {
	Label             string  `json:"label"`
	TotalAnswers      int     `json:"total_answers"`
	CorrectAnswers    int     `json:"correct_answers"`
	CorrectPercentage float64 `json:"correct_percentage"`
}

// QuestionReview is one row of a per-user answer review: what the user
// picked for a question against what was right
type QuestionReview struct {
	Title           string   `json:"title"`
	UserAnswer      string   `json:"user_answer"`
	CorrectAnswer   string   `json:"correct_answer"`
	PossibleAnswers []string `json:"possible_answers"`
	Explanation     string   `json:"explanation,omitempty"`
}

// QuizReport combines one quiz's progress row with the reconstructed
// answer review for that quiz
type QuizReport struct {
	QuizID              uint64           `json:"quiz_id"`
	QuizTitle           string           `json:"quiz_title"`
	TotalQuestions      int              `json:"total_questions"`
	CorrectAnswersCount int              `json:"correct_answers_count"`
	IsComplete          bool             `json:"is_complete"`
	Questions           []QuestionReview `json:"questions"`
}
