package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	"github.com/campus-mailroom/mailroom-api/internal/service"
	"github.com/campus-mailroom/mailroom-api/pkg/response"
)

type packageService interface {
	List(ctx context.Context, filter models.PackageFilter) (query.Page[models.Package], error)
	Get(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, req dto.CreatePackageRequest) (*models.Package, error)
	Update(ctx context.Context, id string, req dto.UpdatePackageRequest) (*models.Package, error)
	CheckIn(ctx context.Context, id string, req dto.CheckInRequest) (*models.Package, error)
	CheckOut(ctx context.Context, id string, req dto.CheckOutRequest) (*models.Package, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*models.PackageSummary, error)
	Export(ctx context.Context, filter models.PackageFilter, format string) (*service.ExportFile, error)
}

// PackageHandler exposes mailroom package endpoints.
type PackageHandler struct {
	packages packageService
}

// NewPackageHandler constructs PackageHandler.
func NewPackageHandler(packages packageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// List godoc
// @Summary List packages
// @Tags Packages
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 25, max 100)"
// @Param sortBy query string false "createdAt, updatedAt, status, dateArrived, expectedArrivalDate, datePickedUp, carrier, sender, trackingNumber or priority"
// @Param order query string false "asc or desc"
// @Param status query string false "Package status"
// @Param studentId query string false "Recipient user ID"
// @Param search query string false "Tracking number, carrier, sender, student name or NetID"
// @Param startDate query string false "Arrived on or after (YYYY-MM-DD or RFC3339)"
// @Param endDate query string false "Arrived on or before (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} query.Page[models.Package]
// @Failure 400 {object} response.ErrorBody
// @Router /packages [get]
func (h *PackageHandler) List(c *gin.Context) {
	filter, err := packageFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.packages.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Get godoc
// @Summary Get package
// @Tags Packages
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} models.Package
// @Failure 404 {object} response.ErrorBody
// @Router /packages/{id} [get]
func (h *PackageHandler) Get(c *gin.Context) {
	pkg, err := h.packages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pkg)
}

// Create godoc
// @Summary Register package
// @Tags Packages
// @Accept json
// @Produce json
// @Param payload body dto.CreatePackageRequest true "Package payload"
// @Success 201 {object} models.Package
// @Failure 400 {object} response.ErrorBody
// @Router /packages [post]
func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.CreatePackageRequest
	if !bindJSON(c, &req) {
		return
	}
	pkg, err := h.packages.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pkg)
}

// Update godoc
// @Summary Update package
// @Description Any subset of fields; an explicit null clears a nullable field.
// @Tags Packages
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param payload body dto.UpdatePackageRequest true "Fields to change"
// @Success 200 {object} models.Package
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /packages/{id} [put]
func (h *PackageHandler) Update(c *gin.Context) {
	var req dto.UpdatePackageRequest
	if !bindJSON(c, &req) {
		return
	}
	pkg, err := h.packages.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pkg)
}

// Delete godoc
// @Summary Delete package
// @Tags Packages
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} response.SuccessBody
// @Failure 404 {object} response.ErrorBody
// @Router /packages/{id} [delete]
func (h *PackageHandler) Delete(c *gin.Context) {
	if err := h.packages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c)
}

// CheckIn godoc
// @Summary Check in package
// @Tags Packages
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param payload body dto.CheckInRequest true "Receiving employee and shelf"
// @Success 200 {object} models.Package
// @Failure 404 {object} response.ErrorBody
// @Router /packages/{id}/check-in [post]
func (h *PackageHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if !bindJSON(c, &req) {
		return
	}
	pkg, err := h.packages.CheckIn(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pkg)
}

// CheckOut godoc
// @Summary Check out package
// @Tags Packages
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param payload body dto.CheckOutRequest true "Releasing employee"
// @Success 200 {object} models.Package
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /packages/{id}/check-out [post]
func (h *PackageHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if !bindJSON(c, &req) {
		return
	}
	pkg, err := h.packages.CheckOut(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pkg)
}

// Summary godoc
// @Summary Package counts per status
// @Tags Packages
// @Produce json
// @Success 200 {object} models.PackageSummary
// @Router /packages/summary [get]
func (h *PackageHandler) Summary(c *gin.Context) {
	summary, err := h.packages.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// Export godoc
// @Summary Export packages
// @Description Accepts the list filters; pagination is ignored.
// @Tags Packages
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /packages/export [get]
func (h *PackageHandler) Export(c *gin.Context) {
	filter, err := packageFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.packages.Export(c.Request.Context(), filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
