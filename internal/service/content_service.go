package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"medquiz/internal/models"
	"medquiz/internal/repository"
)

// CategoryInput carries the writable category fields
type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	IsActive bool   `json:"is_active"`
}

// QuizInput carries the writable quiz fields
type QuizInput struct {
	Title      string `json:"title" validate:"required,max=150"`
	CategoryID uint64 `json:"category_id" validate:"required"`
	IsActive   bool   `json:"is_active"`
}

// VariantInput carries the writable variant fields
type VariantInput struct {
	Title         string  `json:"title" validate:"required,max=150"`
	Description   *string `json:"description"`
	IsRightChoice bool    `json:"is_right_choice"`
}

// QuestionInput carries a question together with its variants. A
// question is only valid with at least one variant, exactly one of
// which is marked correct.
type QuestionInput struct {
	Title    string         `json:"title" validate:"required,max=150"`
	QuizID   uint64         `json:"quiz_id" validate:"required"`
	IsActive bool           `json:"is_active"`
	Variants []VariantInput `json:"variants" validate:"min=1,dive"`
}

// ContentService implements the admin CRUD surface over the quiz
// content hierarchy.
type ContentService struct {
	categoryRepo *repository.CategoryRepository
	quizRepo     *repository.QuizRepository
	questionRepo *repository.QuestionRepository
	variantRepo  *repository.VariantRepository
	validate     *validator.Validate
}

func NewContentService(
	categoryRepo *repository.CategoryRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	variantRepo *repository.VariantRepository,
) *ContentService {
	return &ContentService{
		categoryRepo: categoryRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		variantRepo:  variantRepo,
		validate:     validator.New(),
	}
}

// ListCategories returns the active categories that have at least one
// playable quiz, paginated.
func (s *ContentService) ListCategories(ctx context.Context, page, perPage int32) ([]*models.Category, int32, error) {
	return s.categoryRepo.GetActiveCategories(ctx, page, perPage)
}

// ListQuizzes returns the active quizzes of a category. A missing or
// inactive category, or one with no playable quizzes, is reported as
// repository.ErrNotFound.
func (s *ContentService) ListQuizzes(ctx context.Context, categoryID uint64) ([]*models.Quiz, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil || !category.IsActive {
		return nil, repository.ErrNotFound
	}
	quizzes, err := s.quizRepo.GetActiveQuizzesByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quizzes: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, repository.ErrNotFound
	}
	return quizzes, nil
}

func (s *ContentService) CreateCategory(ctx context.Context, input *CategoryInput) (uint64, error) {
	if err := s.validate.Struct(input); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.categoryRepo.CreateCategory(ctx, input.Name, input.IsActive)
}

func (s *ContentService) UpdateCategory(ctx context.Context, categoryID uint64, input *CategoryInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.categoryRepo.UpdateCategory(ctx, categoryID, input.Name, input.IsActive)
}

func (s *ContentService) DeleteCategory(ctx context.Context, categoryID uint64) error {
	return s.categoryRepo.DeleteCategory(ctx, categoryID)
}

func (s *ContentService) CreateQuiz(ctx context.Context, input *QuizInput) (uint64, error) {
	if err := s.validate.Struct(input); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	category, err := s.categoryRepo.GetCategoryByID(ctx, input.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return 0, repository.ErrNotFound
	}
	return s.quizRepo.CreateQuiz(ctx, input.Title, input.CategoryID, input.IsActive)
}

func (s *ContentService) UpdateQuiz(ctx context.Context, quizID uint64, input *QuizInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	category, err := s.categoryRepo.GetCategoryByID(ctx, input.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return repository.ErrNotFound
	}
	return s.quizRepo.UpdateQuiz(ctx, quizID, input.Title, input.CategoryID, input.IsActive)
}

func (s *ContentService) DeleteQuiz(ctx context.Context, quizID uint64) error {
	return s.quizRepo.DeleteQuiz(ctx, quizID)
}

// CreateQuestion validates the question and its variants and inserts
// them in one transaction.
func (s *ContentService) CreateQuestion(ctx context.Context, input *QuestionInput) (uint64, error) {
	if err := s.validateQuestion(input); err != nil {
		return 0, err
	}
	quiz, err := s.quizRepo.GetQuizByID(ctx, input.QuizID)
	if err != nil {
		return 0, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return 0, repository.ErrNotFound
	}

	variants := make([]*models.Variant, 0, len(input.Variants))
	for _, v := range input.Variants {
		variants = append(variants, &models.Variant{
			Title:         v.Title,
			Description:   v.Description,
			IsRightChoice: v.IsRightChoice,
		})
	}
	return s.questionRepo.CreateQuestion(ctx, input.Title, input.QuizID, input.IsActive, variants)
}

func (s *ContentService) UpdateQuestion(ctx context.Context, questionID uint64, title string, isActive bool) error {
	if title == "" || len(title) > 150 {
		return fmt.Errorf("%w: question title must be 1 to 150 characters", ErrValidation)
	}
	return s.questionRepo.UpdateQuestion(ctx, questionID, title, isActive)
}

func (s *ContentService) DeleteQuestion(ctx context.Context, questionID uint64) error {
	return s.questionRepo.DeleteQuestion(ctx, questionID)
}

// UpdateVariant rewrites a single variant. The write is rejected when it
// would leave the question with zero or with more than one correct variant.
func (s *ContentService) UpdateVariant(ctx context.Context, variantID uint64, input *VariantInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	variant, err := s.variantRepo.GetVariantByID(ctx, variantID)
	if err != nil {
		return fmt.Errorf("failed to get variant: %w", err)
	}
	if variant == nil {
		return repository.ErrNotFound
	}
	if input.IsRightChoice != variant.IsRightChoice {
		siblings, err := s.variantRepo.GetVariantsByQuestionID(ctx, variant.QuestionID)
		if err != nil {
			return fmt.Errorf("failed to get variants: %w", err)
		}
		otherCorrect := false
		for _, v := range siblings {
			if v.ID != variantID && v.IsRightChoice {
				otherCorrect = true
			}
		}
		// Flipping to correct needs no other correct sibling; flipping to
		// incorrect needs one.
		if otherCorrect == input.IsRightChoice {
			return fmt.Errorf("%w: exactly one variant must be marked correct", ErrValidation)
		}
	}
	return s.variantRepo.UpdateVariant(ctx, variantID, input.Title, input.Description, input.IsRightChoice)
}

func (s *ContentService) validateQuestion(input *QuestionInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	right := 0
	for _, v := range input.Variants {
		if v.IsRightChoice {
			right++
		}
	}
	if right != 1 {
		return fmt.Errorf("%w: exactly one variant must be marked correct", ErrValidation)
	}
	return nil
}
