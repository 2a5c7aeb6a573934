package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medquiz/internal/models"
)

type VariantRepository struct {
	db *sql.DB
}

func NewVariantRepository(db *sql.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

// GetVariantsByQuestionID retrieves all variants of a question ordered by id
func (r *VariantRepository) GetVariantsByQuestionID(ctx context.Context, questionID uint64) ([]*models.Variant, error) {
	query := `
		SELECT id, question_id, title, description, is_right_choice
		FROM variants
		WHERE question_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}
	defer rows.Close()

	var variants []*models.Variant
	for rows.Next() {
		var variant models.Variant
		if err := rows.Scan(
			&variant.ID,
			&variant.QuestionID,
			&variant.Title,
			&variant.Description,
			&variant.IsRightChoice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, &variant)
	}

	return variants, nil
}

// GetVariantByID retrieves a variant by ID
func (r *VariantRepository) GetVariantByID(ctx context.Context, variantID uint64) (*models.Variant, error) {
	query := `
		SELECT id, question_id, title, description, is_right_choice
		FROM variants
		WHERE id = ?
	`

	var variant models.Variant
	err := r.db.QueryRowContext(ctx, query, variantID).Scan(
		&variant.ID,
		&variant.QuestionID,
		&variant.Title,
		&variant.Description,
		&variant.IsRightChoice,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}

	return &variant, nil
}

// CreateVariant inserts a new variant and returns its ID
func (r *VariantRepository) CreateVariant(ctx context.Context, questionID uint64, title string, description *string, isRightChoice bool) (uint64, error) {
	query := `INSERT INTO variants (question_id, title, description, is_right_choice) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, questionID, title, description, isRightChoice)
	if err != nil {
		return 0, fmt.Errorf("failed to create variant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get variant id: %w", err)
	}

	return uint64(id), nil
}

// UpdateVariant updates a variant
func (r *VariantRepository) UpdateVariant(ctx context.Context, variantID uint64, title string, description *string, isRightChoice bool) error {
	query := `UPDATE variants SET title = ?, description = ?, is_right_choice = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, title, description, isRightChoice, variantID)
	if err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
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

// DeleteVariant removes a variant
func (r *VariantRepository) DeleteVariant(ctx context.Context, variantID uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM variants WHERE id = ?`, variantID)
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
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
