package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-mailroom/mailroom-api/internal/models"
)

const professorSelect = `SELECT id, title, first_name, last_name, email, created_at, updated_at FROM professors`

// ProfessorRepository persists professors who sponsor orders.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// List returns professors ordered by last then first name.
func (r *ProfessorRepository) List(ctx context.Context) ([]models.Professor, error) {
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, professorSelect+" ORDER BY last_name ASC, first_name ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return professors, nil
}

// FindByID fetches a professor.
func (r *ProfessorRepository) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, professorSelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &professor, nil
}

// Create inserts a professor.
func (r *ProfessorRepository) Create(ctx context.Context, professor *models.Professor) error {
	if professor.ID == "" {
		professor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	professor.CreatedAt = now
	professor.UpdatedAt = now
	const insertQuery = `INSERT INTO professors (id, title, first_name, last_name, email, created_at, updated_at)
        VALUES (:id, :title, :first_name, :last_name, :email, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, professor); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// Update replaces the mutable columns of a professor.
func (r *ProfessorRepository) Update(ctx context.Context, professor *models.Professor) error {
	professor.UpdatedAt = time.Now().UTC()
	const updateQuery = `UPDATE professors SET title = :title, first_name = :first_name, last_name = :last_name, email = :email, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, updateQuery, professor)
	if err != nil {
		return fmt.Errorf("update professor: %w", err)
	}
	return requireAffected(result, "update professor")
}

// Delete removes a professor.
func (r *ProfessorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM professors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}
	return requireAffected(result, "delete professor")
}
