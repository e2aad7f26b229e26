package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

type memSpendCategoryRepo struct {
	items     map[string]models.SpendCategory
	createErr error
}

func (m *memSpendCategoryRepo) List(_ context.Context, filter models.SpendCategoryFilter) ([]models.SpendCategory, error) {
	var out []models.SpendCategory
	for _, c := range m.items {
		if filter.VisibleToStudents != nil && c.VisibleToStudents != *filter.VisibleToStudents {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memSpendCategoryRepo) FindByID(_ context.Context, id string) (*models.SpendCategory, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *memSpendCategoryRepo) Create(_ context.Context, category *models.SpendCategory) error {
	if m.createErr != nil {
		return m.createErr
	}
	category.ID = "cat-" + category.Code
	m.items[category.ID] = *category
	return nil
}

func (m *memSpendCategoryRepo) Update(_ context.Context, category *models.SpendCategory) error {
	if _, ok := m.items[category.ID]; !ok {
		return sql.ErrNoRows
	}
	m.items[category.ID] = *category
	return nil
}

func (m *memSpendCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type memProfessorRepo struct {
	items map[string]models.Professor
}

func (m *memProfessorRepo) List(_ context.Context) ([]models.Professor, error) {
	return nil, nil
}

func (m *memProfessorRepo) FindByID(_ context.Context, id string) (*models.Professor, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *memProfessorRepo) Create(_ context.Context, professor *models.Professor) error {
	professor.ID = "prof-" + professor.LastName
	m.items[professor.ID] = *professor
	return nil
}

func (m *memProfessorRepo) Update(_ context.Context, professor *models.Professor) error {
	if _, ok := m.items[professor.ID]; !ok {
		return sql.ErrNoRows
	}
	m.items[professor.ID] = *professor
	return nil
}

func (m *memProfessorRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func TestSpendCategoryServiceLifecycle(t *testing.T) {
	repo := &memSpendCategoryRepo{items: map[string]models.SpendCategory{}}
	svc := NewSpendCategoryService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.SpendCategoryRequest{Code: " sc101 ", Description: "Lab supplies", VisibleToStudents: true})
	require.NoError(t, err)
	assert.Equal(t, "SC101", created.Code)

	_, err = svc.Create(ctx, dto.SpendCategoryRequest{Code: "SC102"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	visible := false
	hidden, err := svc.List(ctx, models.SpendCategoryFilter{VisibleToStudents: &visible})
	require.NoError(t, err)
	assert.NotNil(t, hidden)
	assert.Empty(t, hidden)

	updated, err := svc.Update(ctx, created.ID, dto.SpendCategoryRequest{Code: "SC101", Description: "Lab and field supplies"})
	require.NoError(t, err)
	assert.False(t, updated.VisibleToStudents)
	assert.Equal(t, "Lab and field supplies", updated.Description)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "Spend category not found", appErrors.FromError(err).Message)
}

func TestSpendCategoryServiceDuplicateCode(t *testing.T) {
	repo := &memSpendCategoryRepo{items: map[string]models.SpendCategory{}, createErr: &pq.Error{Code: "23505"}}
	svc := NewSpendCategoryService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.SpendCategoryRequest{Code: "SC101", Description: "Lab"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, "Spend category already exists", appErrors.FromError(err).Message)
}

func TestProfessorServiceLifecycle(t *testing.T) {
	repo := &memProfessorRepo{items: map[string]models.Professor{}}
	svc := NewProfessorService(repo, nil, nil)
	ctx := context.Background()

	blank := "  "
	created, err := svc.Create(ctx, dto.ProfessorRequest{Title: "Dr.", FirstName: "Ada", LastName: "Lovelace", Email: &blank})
	require.NoError(t, err)
	assert.Nil(t, created.Email)
	assert.Equal(t, "Dr. Ada Lovelace", created.DisplayName())

	bad := "nope"
	_, err = svc.Create(ctx, dto.ProfessorRequest{FirstName: "Alan", LastName: "Turing", Email: &bad})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)

	_, err = svc.Update(ctx, "ghost", dto.ProfessorRequest{FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "ghost"), appErrors.ErrNotFound)
}
