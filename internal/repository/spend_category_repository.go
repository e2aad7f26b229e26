package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-mailroom/mailroom-api/internal/models"
)

const spendCategorySelect = `SELECT id, code, description, visible_to_students, created_at, updated_at FROM spend_categories`

// SpendCategoryRepository persists purchase spend categories.
type SpendCategoryRepository struct {
	db *sqlx.DB
}

// NewSpendCategoryRepository constructs a SpendCategoryRepository.
func NewSpendCategoryRepository(db *sqlx.DB) *SpendCategoryRepository {
	return &SpendCategoryRepository{db: db}
}

// List returns every category ordered by code.
func (r *SpendCategoryRepository) List(ctx context.Context, filter models.SpendCategoryFilter) ([]models.SpendCategory, error) {
	listQuery := spendCategorySelect
	var args []interface{}
	if filter.VisibleToStudents != nil {
		listQuery += " WHERE visible_to_students = $1"
		args = append(args, *filter.VisibleToStudents)
	}
	listQuery += " ORDER BY code ASC, id ASC"

	var categories []models.SpendCategory
	if err := r.db.SelectContext(ctx, &categories, listQuery, args...); err != nil {
		return nil, fmt.Errorf("list spend categories: %w", err)
	}
	return categories, nil
}

// FindByID fetches a category.
func (r *SpendCategoryRepository) FindByID(ctx context.Context, id string) (*models.SpendCategory, error) {
	var category models.SpendCategory
	if err := r.db.GetContext(ctx, &category, spendCategorySelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a category.
func (r *SpendCategoryRepository) Create(ctx context.Context, category *models.SpendCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	const insertQuery = `INSERT INTO spend_categories (id, code, description, visible_to_students, created_at, updated_at)
        VALUES (:id, :code, :description, :visible_to_students, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, category); err != nil {
		return fmt.Errorf("create spend category: %w", err)
	}
	return nil
}

// Update replaces the mutable columns of a category.
func (r *SpendCategoryRepository) Update(ctx context.Context, category *models.SpendCategory) error {
	category.UpdatedAt = time.Now().UTC()
	const updateQuery = `UPDATE spend_categories SET code = :code, description = :description, visible_to_students = :visible_to_students, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, updateQuery, category)
	if err != nil {
		return fmt.Errorf("update spend category: %w", err)
	}
	return requireAffected(result, "update spend category")
}

// Delete removes a category.
func (r *SpendCategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM spend_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete spend category: %w", err)
	}
	return requireAffected(result, "delete spend category")
}
