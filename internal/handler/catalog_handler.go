package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/pkg/response"
)

type spendCategoryService interface {
	List(ctx context.Context, filter models.SpendCategoryFilter) ([]models.SpendCategory, error)
	Create(ctx context.Context, req dto.SpendCategoryRequest) (*models.SpendCategory, error)
	Update(ctx context.Context, id string, req dto.SpendCategoryRequest) (*models.SpendCategory, error)
	Delete(ctx context.Context, id string) error
}

type professorService interface {
	List(ctx context.Context) ([]models.Professor, error)
	Create(ctx context.Context, req dto.ProfessorRequest) (*models.Professor, error)
	Update(ctx context.Context, id string, req dto.ProfessorRequest) (*models.Professor, error)
	Delete(ctx context.Context, id string) error
}

// SpendCategoryHandler exposes spend category endpoints.
type SpendCategoryHandler struct {
	categories spendCategoryService
}

// NewSpendCategoryHandler constructs SpendCategoryHandler.
func NewSpendCategoryHandler(categories spendCategoryService) *SpendCategoryHandler {
	return &SpendCategoryHandler{categories: categories}
}

// List godoc
// @Summary List spend categories
// @Tags Purchasing
// @Produce json
// @Param visibleToStudents query bool false "Only categories students may pick"
// @Success 200 {array} models.SpendCategory
// @Router /spend-categories [get]
func (h *SpendCategoryHandler) List(c *gin.Context) {
	var filter models.SpendCategoryFilter
	if raw := c.Query("visibleToStudents"); raw != "" {
		visible, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, badQuery(err, "visibleToStudents"))
			return
		}
		filter.VisibleToStudents = &visible
	}
	categories, err := h.categories.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}

// Create godoc
// @Summary Create spend category
// @Tags Purchasing
// @Accept json
// @Produce json
// @Param payload body dto.SpendCategoryRequest true "Category"
// @Success 201 {object} models.SpendCategory
// @Failure 409 {object} response.ErrorBody
// @Router /spend-categories [post]
func (h *SpendCategoryHandler) Create(c *gin.Context) {
	var req dto.SpendCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Update godoc
// @Summary Update spend category
// @Tags Purchasing
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param payload body dto.SpendCategoryRequest true "Category"
// @Success 200 {object} models.SpendCategory
// @Failure 404 {object} response.ErrorBody
// @Router /spend-categories/{id} [put]
func (h *SpendCategoryHandler) Update(c *gin.Context) {
	var req dto.SpendCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, category)
}

// Delete godoc
// @Summary Delete spend category
// @Tags Purchasing
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.SuccessBody
// @Failure 409 {object} response.ErrorBody
// @Router /spend-categories/{id} [delete]
func (h *SpendCategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c)
}

// ProfessorHandler exposes professor endpoints.
type ProfessorHandler struct {
	professors professorService
}

// NewProfessorHandler constructs ProfessorHandler.
func NewProfessorHandler(professors professorService) *ProfessorHandler {
	return &ProfessorHandler{professors: professors}
}

// List godoc
// @Summary List professors
// @Tags Purchasing
// @Produce json
// @Success 200 {array} models.Professor
// @Router /professors [get]
func (h *ProfessorHandler) List(c *gin.Context) {
	professors, err := h.professors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, professors)
}

// Create godoc
// @Summary Create professor
// @Tags Purchasing
// @Accept json
// @Produce json
// @Param payload body dto.ProfessorRequest true "Professor"
// @Success 201 {object} models.Professor
// @Router /professors [post]
func (h *ProfessorHandler) Create(c *gin.Context) {
	var req dto.ProfessorRequest
	if !bindJSON(c, &req) {
		return
	}
	professor, err := h.professors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, professor)
}

// Update godoc
// @Summary Update professor
// @Tags Purchasing
// @Accept json
// @Produce json
// @Param id path string true "Professor ID"
// @Param payload body dto.ProfessorRequest true "Professor"
// @Success 200 {object} models.Professor
// @Failure 404 {object} response.ErrorBody
// @Router /professors/{id} [put]
func (h *ProfessorHandler) Update(c *gin.Context) {
	var req dto.ProfessorRequest
	if !bindJSON(c, &req) {
		return
	}
	professor, err := h.professors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, professor)
}

// Delete godoc
// @Summary Delete professor
// @Tags Purchasing
// @Produce json
// @Param id path string true "Professor ID"
// @Success 200 {object} response.SuccessBody
// @Router /professors/{id} [delete]
func (h *ProfessorHandler) Delete(c *gin.Context) {
	if err := h.professors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c)
}
