package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

type orderRepository interface {
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order, requester *models.User) error
	Update(ctx context.Context, id string, set query.Assignments, items []models.OrderItem, replaceItems bool) error
	Delete(ctx context.Context, id string) error
}

type orderUserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type professorFinder interface {
	FindByID(ctx context.Context, id string) (*models.Professor, error)
}

type spendCategoryFinder interface {
	FindByID(ctx context.Context, id string) (*models.SpendCategory, error)
}

type orderReceiptRemover interface {
	RemoveOrderReceipts(orderID string, names []string)
}

// OrderService handles departmental purchase requests.
type OrderService struct {
	repo       orderRepository
	users      orderUserFinder
	professors professorFinder
	categories spendCategoryFinder
	receipts   orderReceiptRemover
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewOrderService constructs an OrderService. professors and categories are
// only used to embed related records on single reads and may be nil. receipts
// may be nil, in which case stored receipt files outlive deleted orders.
func NewOrderService(repo orderRepository, users orderUserFinder, professors professorFinder, categories spendCategoryFinder, receipts orderReceiptRemover, validate *validator.Validate, logger *zap.Logger) *OrderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{repo: repo, users: users, professors: professors, categories: categories, receipts: receipts, validator: validate, logger: logger}
}

// List returns one page of orders.
func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) (query.Page[models.Order], error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list orders failed", zap.Error(err))
		return query.Page[models.Order]{}, appErrors.Internal(err, "Failed to fetch orders")
	}
	return query.NewPage(orders, total, filter.Params), nil
}

// Get returns an order with its requester, items, professor and category.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Order", "Failed to fetch order")
	}
	if order.ProfessorID != nil && s.professors != nil {
		if professor, err := s.professors.FindByID(ctx, *order.ProfessorID); err == nil {
			order.Professor = professor
		}
	}
	if order.SpendCategoryID != nil && s.categories != nil {
		if category, err := s.categories.FindByID(ctx, *order.SpendCategoryID); err == nil {
			order.SpendCategory = category
		}
	}
	return order, nil
}

// Create raises a purchase request. The requester is matched by NetID and
// registered as a student on first use.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid order payload")
	}
	items := orderItems(req.Items)
	if blank(req.CartLink) && len(items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Provide either a cart link or at least one item with name and quantity")
	}

	order := &models.Order{
		ProfessorID:        nonBlank(req.ProfessorID),
		SpendCategoryID:    nonBlank(req.SpendCategoryID),
		Vendor:             strings.TrimSpace(req.Vendor),
		ShippingPreference: nonBlank(req.ShippingPreference),
		Purpose:            strings.TrimSpace(req.Purpose),
		WorkTag:            nonBlank(req.WorkTag),
		CartLink:           nonBlank(req.CartLink),
		Comment:            nonBlank(req.Comment),
		Status:             models.OrderStatusRequested,
		Items:              items,
	}
	requester := &models.User{
		NetID:    strings.TrimSpace(req.Requester.NetID),
		Email:    strings.ToLower(strings.TrimSpace(req.Requester.Email)),
		FullName: strings.TrimSpace(req.Requester.FullName),
		Role:     models.RoleStudent,
	}
	if err := s.repo.Create(ctx, order, requester); err != nil {
		s.logger.Error("create order failed", zap.String("net_id", requester.NetID), zap.Error(err))
		return nil, storeError(err, "Order", "Failed to create order")
	}
	return s.Get(ctx, order.ID)
}

// Update applies the fields present in req. Present items replace the stored
// line items.
func (s *OrderService) Update(ctx context.Context, id string, req dto.UpdateOrderRequest) (*models.Order, error) {
	set, err := s.orderAssignments(req)
	if err != nil {
		return nil, err
	}

	var items []models.OrderItem
	replaceItems := req.Items.IsSet()
	if replaceItems {
		raw, _ := req.Items.Value()
		for _, item := range raw {
			if err := s.validator.Struct(item); err != nil {
				return nil, appErrors.Validation(err, "invalid items")
			}
		}
		items = orderItems(raw)
	}
	if set.Len() == 0 && !replaceItems {
		return s.Get(ctx, id)
	}

	if err := s.repo.Update(ctx, id, set, items, replaceItems); err != nil {
		return nil, storeError(err, "Order", "Failed to update order")
	}
	return s.Get(ctx, id)
}

func (s *OrderService) orderAssignments(req dto.UpdateOrderRequest) (query.Assignments, error) {
	var set query.Assignments

	required := []struct {
		column string
		field  string
		value  dto.Optional[string]
		rule   string
	}{
		{"vendor", "vendor", req.Vendor, "required,max=200"},
		{"purpose", "purpose", req.Purpose, "required"},
	}
	for _, f := range required {
		if !f.value.IsSet() {
			continue
		}
		v, ok := f.value.Value()
		v = strings.TrimSpace(v)
		if !ok || s.validator.Var(v, f.rule) != nil {
			return query.Assignments{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s", f.field))
		}
		set.Add(f.column, v)
	}

	nullable := []struct {
		column string
		field  string
		value  dto.Optional[string]
		rule   string
	}{
		{"professor_id", "professorId", req.ProfessorID, ""},
		{"spend_category_id", "spendCategoryId", req.SpendCategoryID, ""},
		{"shipping_preference", "shippingPreference", req.ShippingPreference, "max=100"},
		{"work_tag", "workTag", req.WorkTag, "max=64"},
		{"cart_link", "cartLink", req.CartLink, "omitempty,url"},
		{"comment", "comment", req.Comment, ""},
	}
	for _, f := range nullable {
		if !f.value.IsSet() {
			continue
		}
		if v, ok := f.value.Value(); ok && f.rule != "" {
			if err := s.validator.Var(v, f.rule); err != nil {
				return query.Assignments{}, appErrors.Validation(err, fmt.Sprintf("invalid %s", f.field))
			}
		}
		set.Add(f.column, nonBlank(f.value.Ptr()))
	}

	if req.Status.IsSet() {
		status, ok := req.Status.Value()
		if !ok || !status.Valid() {
			return query.Assignments{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid status %q", status))
		}
		set.Add("status", string(status))
	}
	if req.PurchaseDate.IsSet() {
		set.Add("purchase_date", req.PurchaseDate.Ptr())
	}

	amounts := []struct {
		column string
		value  dto.Optional[float64]
	}{
		{"tax", req.Tax},
		{"total", req.Total},
	}
	for _, f := range amounts {
		if !f.value.IsSet() {
			continue
		}
		if v, ok := f.value.Value(); ok && v < 0 {
			return query.Assignments{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s cannot be negative", f.column))
		}
		set.Add(f.column, f.value.Ptr())
	}
	return set, nil
}

// Delete removes an order and its items, then its stored receipt files.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "Order", "Failed to delete order")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Order", "Failed to delete order")
	}
	if s.receipts != nil && len(order.Receipts) > 0 {
		s.receipts.RemoveOrderReceipts(id, order.Receipts)
	}
	return nil
}

// History returns every order raised by a user with spend totals and counts
// per status.
func (s *OrderService) History(ctx context.Context, userID string) (*models.OrderHistory, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User", "Failed to fetch order history")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list user orders failed", zap.String("user_id", userID), zap.Error(err))
		return nil, appErrors.Internal(err, "Failed to fetch order history")
	}
	if orders == nil {
		orders = []models.Order{}
	}

	summary := models.OrderHistorySummary{
		TotalOrders: len(orders),
		ByStatus:    make(map[models.OrderStatus]int, len(models.OrderStatuses)),
	}
	for _, status := range models.OrderStatuses {
		summary.ByStatus[status] = 0
	}
	for _, order := range orders {
		summary.ByStatus[order.Status]++
		if order.Total != nil {
			summary.TotalSpent += *order.Total
		}
	}
	return &models.OrderHistory{User: *user, Orders: orders, Summary: summary}, nil
}

func orderItems(reqs []dto.OrderItemRequest) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		name := strings.TrimSpace(r.Name)
		if name == "" || r.Quantity <= 0 {
			continue
		}
		items = append(items, models.OrderItem{Name: name, Quantity: r.Quantity, Link: nonBlank(r.Link), Status: nonBlank(r.Status)})
	}
	return items
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}

// nonBlank trims v and maps empty strings to nil.
func nonBlank(v *string) *string {
	if blank(v) {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
