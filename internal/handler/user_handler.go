package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	"github.com/campus-mailroom/mailroom-api/pkg/response"
)

type userService interface {
	List(ctx context.Context, filter models.UserFilter) (query.Page[models.User], error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type orderHistoryService interface {
	History(ctx context.Context, userID string) (*models.OrderHistory, error)
}

// UserHandler exposes student and staff endpoints.
type UserHandler struct {
	users   userService
	history orderHistoryService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users userService, history orderHistoryService) *UserHandler {
	return &UserHandler{users: users, history: history}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 25, max 100)"
// @Param role query string false "STUDENT, SECRETARY or ADMIN"
// @Param search query string false "Name, NetID or email"
// @Success 200 {object} query.Page[models.User]
// @Failure 400 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter, err := userFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Get godoc
// @Summary Get user with packages
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Create godoc
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRequest true "User payload"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update godoc
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.SuccessBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c)
}

// Orders godoc
// @Summary Order history of a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.OrderHistory
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id}/orders [get]
func (h *UserHandler) Orders(c *gin.Context) {
	history, err := h.history.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, history)
}
