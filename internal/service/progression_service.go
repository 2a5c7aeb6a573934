package service

import (
	"context"
	"fmt"

	"medquiz/internal/models"
	"medquiz/internal/repository"
	"medquiz/internal/session"
)

// AnswerOutcome is what the user sees right after answering: the chosen
// variant, whether it was right, and the explanation attached to the
// correct variant.
type AnswerOutcome struct {
	QuestionID  uint64 `json:"question_id"`
	Answer      string `json:"answer"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

// TrialReport summarizes a finished trial run. Reading it clears the
// underlying session state, so each report can be rendered once.
type TrialReport struct {
	QuizID              uint64                  `json:"quiz_id"`
	QuizTitle           string                  `json:"quiz_title"`
	TotalQuestions      int                     `json:"total_questions"`
	CorrectAnswersCount int                     `json:"correct_answers_count"`
	Questions           []models.QuestionReview `json:"questions"`
}

// ProgressionService drives a user through a quiz one question at a
// time, in both the persisted mode and the anonymous trial mode.
type ProgressionService struct {
	quizRepo     *repository.QuizRepository
	questionRepo *repository.QuestionRepository
	variantRepo  *repository.VariantRepository
	resultRepo   *repository.ResultRepository
	trialStore   session.Store
}

func NewProgressionService(
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	variantRepo *repository.VariantRepository,
	resultRepo *repository.ResultRepository,
	trialStore session.Store,
) *ProgressionService {
	return &ProgressionService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		variantRepo:  variantRepo,
		resultRepo:   resultRepo,
		trialStore:   trialStore,
	}
}

// NextQuestion returns the first active question of the quiz the user
// has not answered yet, with its variants. A nil snapshot means the quiz
// is exhausted; the result row is marked complete as a side effect.
func (s *ProgressionService) NextQuestion(ctx context.Context, userID, quizID uint64) (*models.QuestionSnapshot, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil || !quiz.IsActive {
		return nil, repository.ErrNotFound
	}

	question, err := s.questionRepo.GetNextQuestion(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next question: %w", err)
	}
	if question == nil {
		if err := s.resultRepo.MarkComplete(ctx, userID, quizID); err != nil {
			return nil, fmt.Errorf("failed to mark quiz complete: %w", err)
		}
		return nil, nil
	}

	variants, err := s.variantRepo.GetVariantsByQuestionID(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}
	snap := models.SnapshotQuestion(question, variants)
	return &snap, nil
}

// SubmitAnswer records the chosen variant for the user and advances the
// result cursor. Answering the same question twice returns
// repository.ErrDuplicateAnswer and leaves the counters untouched.
func (s *ProgressionService) SubmitAnswer(ctx context.Context, userID, quizID, questionID, variantID uint64) (*AnswerOutcome, error) {
	question, variant, err := s.resolveAnswer(ctx, quizID, questionID, variantID)
	if err != nil {
		return nil, err
	}

	if err := s.resultRepo.RecordAnswer(ctx, userID, quizID, questionID, variant); err != nil {
		return nil, err
	}

	explanation, err := s.correctExplanation(ctx, question.ID, variant)
	if err != nil {
		return nil, err
	}
	return &AnswerOutcome{
		QuestionID:  question.ID,
		Answer:      variant.Title,
		Correct:     variant.IsRightChoice,
		Explanation: explanation,
	}, nil
}

// NextTrialQuestion works like NextQuestion but tracks progress in the
// caller's session instead of the database.
func (s *ProgressionService) NextTrialQuestion(ctx context.Context, sessionKey string, quizID uint64) (*models.QuestionSnapshot, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil || !quiz.IsActive {
		return nil, repository.ErrNotFound
	}

	answered, err := s.trialStore.List(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read trial session: %w", err)
	}
	seen := make(map[uint64]bool, len(answered))
	for _, a := range answered {
		seen[a.Question.ID] = true
	}

	questions, err := s.questionRepo.GetActiveQuestionsByQuizID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	for _, q := range questions {
		if seen[q.ID] {
			continue
		}
		variants, err := s.variantRepo.GetVariantsByQuestionID(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get variants: %w", err)
		}
		snap := models.SnapshotQuestion(q, variants)
		return &snap, nil
	}
	return nil, nil
}

// SubmitTrialAnswer stores the answered question and the chosen variant
// as detached snapshots in the caller's session. A replayed submission
// for a question already in the session is rejected the same way a
// persisted duplicate is.
func (s *ProgressionService) SubmitTrialAnswer(ctx context.Context, sessionKey string, quizID, questionID, variantID uint64) (*AnswerOutcome, error) {
	question, variant, err := s.resolveAnswer(ctx, quizID, questionID, variantID)
	if err != nil {
		return nil, err
	}

	answered, err := s.trialStore.List(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read trial session: %w", err)
	}
	for _, a := range answered {
		if a.Question.ID == question.ID {
			return nil, repository.ErrDuplicateAnswer
		}
	}

	variants, err := s.variantRepo.GetVariantsByQuestionID(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}
	entry := models.TrialAnswer{
		Question: models.SnapshotQuestion(question, variants),
		Answer:   models.SnapshotVariant(variant),
	}
	if err := s.trialStore.Append(ctx, sessionKey, entry); err != nil {
		return nil, fmt.Errorf("failed to store trial answer: %w", err)
	}

	outcome := &AnswerOutcome{
		QuestionID: question.ID,
		Answer:     variant.Title,
		Correct:    variant.IsRightChoice,
	}
	for _, v := range entry.Question.Variants {
		if v.IsRightChoice {
			outcome.Explanation = v.Description
			break
		}
	}
	return outcome, nil
}

// ConsumeTrialReport builds the trial run summary from the session
// snapshots and clears them, so a refresh of the results page starts
// the quiz over instead of replaying stale answers.
func (s *ProgressionService) ConsumeTrialReport(ctx context.Context, sessionKey string, quizID uint64) (*TrialReport, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return nil, repository.ErrNotFound
	}

	answers, err := s.trialStore.List(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read trial session: %w", err)
	}
	if err := s.trialStore.Clear(ctx, sessionKey); err != nil {
		return nil, fmt.Errorf("failed to clear trial session: %w", err)
	}

	report := &TrialReport{
		QuizID:    quiz.ID,
		QuizTitle: quiz.Title,
		Questions: make([]models.QuestionReview, 0, len(answers)),
	}
	for _, a := range answers {
		review := models.QuestionReview{
			Title:      a.Question.Title,
			UserAnswer: a.Answer.Title,
		}
		for _, v := range a.Question.Variants {
			review.PossibleAnswers = append(review.PossibleAnswers, v.Title)
			if v.IsRightChoice {
				review.CorrectAnswer = v.Title
				review.Explanation = v.Description
			}
		}
		report.Questions = append(report.Questions, review)
		report.TotalQuestions++
		if a.Answer.IsRightChoice {
			report.CorrectAnswersCount++
		}
	}
	return report, nil
}

// resolveAnswer validates that the quiz is playable, that the question
// belongs to it and is active, and that the variant belongs to the
// question.
func (s *ProgressionService) resolveAnswer(ctx context.Context, quizID, questionID, variantID uint64) (*models.Question, *models.Variant, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil || !quiz.IsActive {
		return nil, nil, repository.ErrNotFound
	}

	question, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil || !question.IsActive || question.QuizID != quizID {
		return nil, nil, repository.ErrNotFound
	}

	variant, err := s.variantRepo.GetVariantByID(ctx, variantID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get variant: %w", err)
	}
	if variant == nil || variant.QuestionID != questionID {
		return nil, nil, repository.ErrNotFound
	}
	return question, variant, nil
}

// correctExplanation looks up the description attached to the correct
// variant of a question. The chosen variant is reused when it is the
// correct one.
func (s *ProgressionService) correctExplanation(ctx context.Context, questionID uint64, chosen *models.Variant) (string, error) {
	if chosen.IsRightChoice {
		if chosen.Description != nil {
			return *chosen.Description, nil
		}
		return "", nil
	}
	variants, err := s.variantRepo.GetVariantsByQuestionID(ctx, questionID)
	if err != nil {
		return "", fmt.Errorf("failed to get variants: %w", err)
	}
	for _, v := range variants {
		if v.IsRightChoice && v.Description != nil {
			return *v.Description, nil
		}
	}
	return "", nil
}
