package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-mailroom/mailroom-api/internal/admin"
	"github.com/campus-mailroom/mailroom-api/pkg/response"
)

// AdminHandler serves the admin console metadata.
type AdminHandler struct{}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// Panels godoc
// @Summary List admin CRUD panel schemas
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} admin.Schema
// @Failure 401 {object} response.ErrorBody
// @Router /admin/panels [get]
func (h *AdminHandler) Panels(c *gin.Context) {
	response.OK(c, admin.Schemas())
}
