package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medquiz/internal/models"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetActiveCategories retrieves paginated active categories that have at
// least one active quiz with at least one active question, so end users
// never land on an empty category.
func (r *CategoryRepository) GetActiveCategories(ctx context.Context, page, perPage int32) ([]*models.Category, int32, error) {
	countQuery := `
		SELECT COUNT(DISTINCT c.id)
		FROM categories c
		INNER JOIN quizzes q ON q.category_id = c.id AND q.is_active = TRUE
		INNER JOIN questions qu ON qu.quiz_id = q.id AND qu.is_active = TRUE
		WHERE c.is_active = TRUE
	`

	var total int32
	err := r.db.QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `
		SELECT DISTINCT c.id, c.name, c.is_active
		FROM categories c
		INNER JOIN quizzes q ON q.category_id = c.id AND q.is_active = TRUE
		INNER JOIN questions qu ON qu.quiz_id = q.id AND qu.is_active = TRUE
		WHERE c.is_active = TRUE
		ORDER BY c.id ASC
		LIMIT ? OFFSET ?
	`

	offset := (page - 1) * perPage
	rows, err := r.db.QueryContext(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.IsActive); err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &category)
	}

	return categories, total, nil
}

// GetCategoryByID retrieves a category by ID
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, categoryID uint64) (*models.Category, error) {
	query := `
		SELECT id, name, is_active
		FROM categories
		WHERE id = ?
	`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, categoryID).Scan(
		&category.ID,
		&category.Name,
		&category.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

// CreateCategory inserts a new category and returns its ID
func (r *CategoryRepository) CreateCategory(ctx context.Context, name string, isActive bool) (uint64, error) {
	query := `INSERT INTO categories (name, is_active) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, name, isActive)
	if isDuplicateEntry(err) {
		return 0, fmt.Errorf("%w: a category with this name", ErrDuplicateEntry)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get category id: %w", err)
	}

	return uint64(id), nil
}

// UpdateCategory updates name and active flag of a category
func (r *CategoryRepository) UpdateCategory(ctx context.Context, categoryID uint64, name string, isActive bool) error {
	query := `UPDATE categories SET name = ?, is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, name, isActive, categoryID)
	if isDuplicateEntry(err) {
		return fmt.Errorf("%w: a category with this name", ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
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

// DeleteCategory removes a category
func (r *CategoryRepository) DeleteCategory(ctx context.Context, categoryID uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, categoryID)
	if isRowReferenced(err) {
		return fmt.Errorf("%w: category still has quizzes", ErrInUse)
	}
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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
