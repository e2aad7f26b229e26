package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
	"github.com/campus-mailroom/mailroom-api/pkg/response"
)

type orderService interface {
	List(ctx context.Context, filter models.OrderFilter) (query.Page[models.Order], error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error)
	Update(ctx context.Context, id string, req dto.UpdateOrderRequest) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

type receiptService interface {
	Upload(ctx context.Context, orderID, filename string, r io.Reader) (*models.Order, error)
	SignedURL(ctx context.Context, orderID string, index int) (string, time.Time, error)
	Open(ctx context.Context, token string) (*os.File, string, error)
}

// OrderHandler exposes purchase request and receipt endpoints.
type OrderHandler struct {
	orders       orderService
	receipts     receiptService
	downloadPath string
}

// NewOrderHandler constructs OrderHandler. downloadPath is the public path
// prefix receipt tokens are appended to, e.g. "/api/receipts/".
func NewOrderHandler(orders orderService, receipts receiptService, downloadPath string) *OrderHandler {
	if !strings.HasSuffix(downloadPath, "/") {
		downloadPath += "/"
	}
	return &OrderHandler{orders: orders, receipts: receipts, downloadPath: downloadPath}
}

// List godoc
// @Summary List purchase requests
// @Tags Purchasing
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 25, max 100)"
// @Param sortBy query string false "createdAt, requestDate, purchaseDate, status, vendor or total"
// @Param order query string false "asc or desc"
// @Param status query string false "Order status"
// @Param userId query string false "Requesting user"
// @Param professorId query string false "Sponsoring professor"
// @Param search query string false "Vendor, purpose, work tag, requester name or NetID"
// @Param startDate query string false "Requested on or after"
// @Param endDate query string false "Requested on or before"
// @Success 200 {object} query.Page[models.Order]
// @Failure 400 {object} response.ErrorBody
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Get godoc
// @Summary Get purchase request
// @Tags Purchasing
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} response.ErrorBody
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

// Create godoc
// @Summary Raise purchase request
// @Tags Purchasing
// @Accept json
// @Produce json
// @Param payload body dto.CreateOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} response.ErrorBody
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// Update godoc
// @Summary Update purchase request
// @Tags Purchasing
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body dto.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} models.Order
// @Failure 404 {object} response.ErrorBody
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	var req dto.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

// Delete godoc
// @Summary Delete purchase request
// @Tags Purchasing
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.SuccessBody
// @Failure 404 {object} response.ErrorBody
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c)
}

// UploadReceipt godoc
// @Summary Attach receipt
// @Tags Purchasing
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Order ID"
// @Param file formData file true "Receipt file"
// @Success 201 {object} models.Order
// @Failure 400 {object} response.ErrorBody
// @Failure 413 {object} response.ErrorBody
// @Router /orders/{id}/receipts [post]
func (h *OrderHandler) UploadReceipt(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "Failed to read upload"))
		return
	}
	defer file.Close()

	order, err := h.receipts.Upload(c.Request.Context(), c.Param("id"), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// ReceiptURL godoc
// @Summary Signed receipt download link
// @Tags Purchasing
// @Produce json
// @Param id path string true "Order ID"
// @Param index path int true "Receipt position"
// @Success 200 {object} dto.ReceiptURLResponse
// @Failure 404 {object} response.ErrorBody
// @Router /orders/{id}/receipts/{index}/url [get]
func (h *OrderHandler) ReceiptURL(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, badQuery(err, "index"))
		return
	}
	token, expiresAt, err := h.receipts.SignedURL(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ReceiptURLResponse{URL: h.downloadPath + token, ExpiresAt: expiresAt})
}

// DownloadReceipt godoc
// @Summary Download receipt
// @Tags Purchasing
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.ErrorBody
// @Router /receipts/{token} [get]
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	file, name, err := h.receipts.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "Failed to open receipt"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Cache-Control", "private, no-store")
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), file)
}
