package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

type spendCategoryRepository interface {
	List(ctx context.Context, filter models.SpendCategoryFilter) ([]models.SpendCategory, error)
	FindByID(ctx context.Context, id string) (*models.SpendCategory, error)
	Create(ctx context.Context, category *models.SpendCategory) error
	Update(ctx context.Context, category *models.SpendCategory) error
	Delete(ctx context.Context, id string) error
}

type professorRepository interface {
	List(ctx context.Context) ([]models.Professor, error)
	FindByID(ctx context.Context, id string) (*models.Professor, error)
	Create(ctx context.Context, professor *models.Professor) error
	Update(ctx context.Context, professor *models.Professor) error
	Delete(ctx context.Context, id string) error
}

// SpendCategoryService manages purchasing spend categories.
type SpendCategoryService struct {
	repo      spendCategoryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSpendCategoryService constructs the service.
func NewSpendCategoryService(repo spendCategoryRepository, validate *validator.Validate, logger *zap.Logger) *SpendCategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpendCategoryService{repo: repo, validator: validate, logger: logger}
}

// List returns all categories, optionally only those students may pick.
func (s *SpendCategoryService) List(ctx context.Context, filter models.SpendCategoryFilter) ([]models.SpendCategory, error) {
	categories, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list spend categories failed", zap.Error(err))
		return nil, appErrors.Internal(err, "Failed to fetch spend categories")
	}
	if categories == nil {
		categories = []models.SpendCategory{}
	}
	return categories, nil
}

// Get returns a single category.
func (s *SpendCategoryService) Get(ctx context.Context, id string) (*models.SpendCategory, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Spend category", "Failed to fetch spend category")
	}
	return category, nil
}

// Create adds a category. Codes are unique.
func (s *SpendCategoryService) Create(ctx context.Context, req dto.SpendCategoryRequest) (*models.SpendCategory, error) {
	category, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, storeError(err, "Spend category", "Failed to create spend category")
	}
	return category, nil
}

// Update replaces a category's fields.
func (s *SpendCategoryService) Update(ctx context.Context, id string, req dto.SpendCategoryRequest) (*models.SpendCategory, error) {
	category, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	category.ID = id
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, storeError(err, "Spend category", "Failed to update spend category")
	}
	return s.Get(ctx, id)
}

// Delete removes a category. Categories referenced by orders cannot be removed.
func (s *SpendCategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Spend category", "Failed to delete spend category")
	}
	return nil
}

func (s *SpendCategoryService) fromRequest(req dto.SpendCategoryRequest) (*models.SpendCategory, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid spend category payload")
	}
	return &models.SpendCategory{Code: req.Code, Description: req.Description, VisibleToStudents: req.VisibleToStudents}, nil
}

// ProfessorService manages the professors who sponsor purchases.
type ProfessorService struct {
	repo      professorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfessorService constructs the service.
func NewProfessorService(repo professorRepository, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{repo: repo, validator: validate, logger: logger}
}

// List returns every professor.
func (s *ProfessorService) List(ctx context.Context) ([]models.Professor, error) {
	professors, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list professors failed", zap.Error(err))
		return nil, appErrors.Internal(err, "Failed to fetch professors")
	}
	if professors == nil {
		professors = []models.Professor{}
	}
	return professors, nil
}

// Get returns a single professor.
func (s *ProfessorService) Get(ctx context.Context, id string) (*models.Professor, error) {
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Professor", "Failed to fetch professor")
	}
	return professor, nil
}

// Create adds a professor.
func (s *ProfessorService) Create(ctx context.Context, req dto.ProfessorRequest) (*models.Professor, error) {
	professor, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, professor); err != nil {
		return nil, storeError(err, "Professor", "Failed to create professor")
	}
	return professor, nil
}

// Update replaces a professor's fields.
func (s *ProfessorService) Update(ctx context.Context, id string, req dto.ProfessorRequest) (*models.Professor, error) {
	professor, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	professor.ID = id
	if err := s.repo.Update(ctx, professor); err != nil {
		return nil, storeError(err, "Professor", "Failed to update professor")
	}
	return s.Get(ctx, id)
}

// Delete removes a professor.
func (s *ProfessorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Professor", "Failed to delete professor")
	}
	return nil
}

func (s *ProfessorService) fromRequest(req dto.ProfessorRequest) (*models.Professor, error) {
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
		if email == "" {
			req.Email = nil
		}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid professor payload")
	}
	return &models.Professor{
		Title:     strings.TrimSpace(req.Title),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
	}, nil
}
