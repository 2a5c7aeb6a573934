package service

import (
	"context"
	"fmt"
	"math"

	"medquiz/internal/models"
	"medquiz/internal/pkg/logger"
	"medquiz/internal/repository"
)

// noDataLabel is returned in place of an entity name when the entity
// does not exist or its aggregates cannot be computed.
const noDataLabel = "no data"

// notAnsweredLabel stands in for a missing answer in a per-user review
const notAnsweredLabel = "not answered"

// StatsService computes answer aggregates per category, quiz, question
// and user, plus the per-user quiz review.
type StatsService struct {
	statsRepo    *repository.StatsRepository
	resultRepo   *repository.ResultRepository
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	variantRepo  *repository.VariantRepository
	quizRepo     *repository.QuizRepository
	log          *logger.Logger
}

func NewStatsService(
	statsRepo *repository.StatsRepository,
	resultRepo *repository.ResultRepository,
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	variantRepo *repository.VariantRepository,
	quizRepo *repository.QuizRepository,
	log *logger.Logger,
) *StatsService {
	return &StatsService{
		statsRepo:    statsRepo,
		resultRepo:   resultRepo,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		variantRepo:  variantRepo,
		quizRepo:     quizRepo,
		log:          log,
	}
}

// CategoryStats aggregates answers across every quiz of a category
func (s *StatsService) CategoryStats(ctx context.Context, categoryID uint64) *models.AnswerStats {
	return s.aggregate(ctx, "category", categoryID,
		s.statsRepo.GetCategoryLabel, s.statsRepo.CountAnswersByCategory)
}

// QuizStats aggregates answers across every question of a quiz
func (s *StatsService) QuizStats(ctx context.Context, quizID uint64) *models.AnswerStats {
	return s.aggregate(ctx, "quiz", quizID,
		s.statsRepo.GetQuizLabel, s.statsRepo.CountAnswersByQuiz)
}

// QuestionStats aggregates answers for a single question
func (s *StatsService) QuestionStats(ctx context.Context, questionID uint64) *models.AnswerStats {
	return s.aggregate(ctx, "question", questionID,
		s.statsRepo.GetQuestionLabel, s.statsRepo.CountAnswersByQuestion)
}

// UserStats aggregates every answer a user ever gave
func (s *StatsService) UserStats(ctx context.Context, userID uint64) *models.AnswerStats {
	return s.aggregate(ctx, "user", userID,
		s.statsRepo.GetUserLabel, s.statsRepo.CountAnswersByUser)
}

// aggregate resolves the entity label and counters and folds them into
// an AnswerStats. Lookup misses and query failures both degrade to the
// zero-valued "no data" row instead of failing the whole page.
func (s *StatsService) aggregate(
	ctx context.Context,
	kind string,
	id uint64,
	label func(context.Context, uint64) (string, bool, error),
	count func(context.Context, uint64) (int, int, error),
) *models.AnswerStats {
	noData := &models.AnswerStats{Label: noDataLabel}

	name, found, err := label(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField(kind+"_id", id).Error("stats label lookup failed")
		return noData
	}
	if !found {
		return noData
	}

	total, correct, err := count(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField(kind+"_id", id).Error("stats aggregation failed")
		return noData
	}
	return &models.AnswerStats{
		Label:             name,
		TotalAnswers:      total,
		CorrectAnswers:    correct,
		CorrectPercentage: percentage(correct, total),
	}
}

// UserReports builds one report per quiz the user has started, each
// question annotated with the user's answer, the correct answer and the
// explanation.
func (s *StatsService) UserReports(ctx context.Context, userID uint64) ([]*models.QuizReport, error) {
	results, err := s.resultRepo.GetResultsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	reports := make([]*models.QuizReport, 0, len(results))
	for _, result := range results {
		report, err := s.QuizReport(ctx, userID, result.QuizID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// QuizReport builds the review of a single quiz for a user. Every
// active question appears even when the user never reached it.
func (s *StatsService) QuizReport(ctx context.Context, userID, quizID uint64) (*models.QuizReport, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return nil, repository.ErrNotFound
	}

	result, err := s.resultRepo.GetResultByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	answers, err := s.answerRepo.GetAnswersByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	answered := make(map[uint64]*models.UserAnswer, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a
	}

	questions, err := s.questionRepo.GetActiveQuestionsByQuizID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	report := &models.QuizReport{
		QuizID:    quiz.ID,
		QuizTitle: quiz.Title,
	}
	if result != nil {
		report.TotalQuestions = result.TotalQuestions
		report.CorrectAnswersCount = result.CorrectAnswersCount
		report.IsComplete = result.IsComplete
	}

	for _, q := range questions {
		variants, err := s.variantRepo.GetVariantsByQuestionID(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get variants: %w", err)
		}
		review := models.QuestionReview{
			Title:      q.Title,
			UserAnswer: notAnsweredLabel,
		}
		for _, v := range variants {
			review.PossibleAnswers = append(review.PossibleAnswers, v.Title)
			if v.IsRightChoice {
				review.CorrectAnswer = v.Title
				if v.Description != nil {
					review.Explanation = *v.Description
				}
			}
			if ua, ok := answered[q.ID]; ok && ua.AnswerID == v.ID {
				review.UserAnswer = v.Title
			}
		}
		report.Questions = append(report.Questions, review)
	}
	return report, nil
}

// percentage rounds correct/total to two decimal places, with zero for
// an empty sample.
func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)*100*100/float64(total)) / 100
}
