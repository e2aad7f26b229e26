package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/campus-mailroom/mailroom-api/internal/query"
)

// OrderStatus tracks a purchase request through fulfilment.
type OrderStatus string

const (
	OrderStatusRequested OrderStatus = "REQUESTED"
	OrderStatusPurchased OrderStatus = "PURCHASED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusReturned  OrderStatus = "RETURNED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order status.
var OrderStatuses = []OrderStatus{
	OrderStatusRequested,
	OrderStatusPurchased,
	OrderStatusCompleted,
	OrderStatusReturned,
	OrderStatusCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus accepts a status name in any letter case; blank means "all".
func ParseOrderStatus(raw string) (OrderStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	status := OrderStatus(strings.ToUpper(raw))
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

// Order is a departmental purchase request raised by a student.
type Order struct {
	ID                 string         `db:"id" json:"id"`
	UserID             string         `db:"user_id" json:"userId"`
	ProfessorID        *string        `db:"professor_id" json:"professorId"`
	SpendCategoryID    *string        `db:"spend_category_id" json:"spendCategoryId"`
	Vendor             string         `db:"vendor" json:"vendor"`
	ShippingPreference *string        `db:"shipping_preference" json:"shippingPreference"`
	Purpose            string         `db:"purpose" json:"purpose"`
	WorkTag            *string        `db:"work_tag" json:"workTag"`
	CartLink           *string        `db:"cart_link" json:"cartLink"`
	Comment            *string        `db:"comment" json:"comment"`
	Status             OrderStatus    `db:"status" json:"status"`
	RequestDate        time.Time      `db:"request_date" json:"requestDate"`
	PurchaseDate       *time.Time     `db:"purchase_date" json:"purchaseDate"`
	Tax                *float64       `db:"tax" json:"tax"`
	Total              *float64       `db:"total" json:"total"`
	Receipts           pq.StringArray `db:"receipts" json:"receipts"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`

	Items         []OrderItem    `db:"-" json:"items"`
	User          *User          `db:"-" json:"user,omitempty"`
	Professor     *Professor     `db:"-" json:"professor,omitempty"`
	SpendCategory *SpendCategory `db:"-" json:"spendCategory,omitempty"`
}

// OrderItem is a single line of a purchase request.
type OrderItem struct {
	ID       string  `db:"id" json:"id"`
	OrderID  string  `db:"order_id" json:"orderId"`
	Name     string  `db:"name" json:"name"`
	Quantity int     `db:"quantity" json:"quantity"`
	Link     *string `db:"link" json:"link"`
	Status   *string `db:"status" json:"status"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	query.Params
	Status      OrderStatus
	UserID      string
	ProfessorID string
	Search      string
	StartDate   *time.Time
	EndDate     *time.Time
}

// OrderHistory is a user's order list with spend totals.
type OrderHistory struct {
	User    User                `json:"user"`
	Orders  []Order             `json:"orders"`
	Summary OrderHistorySummary `json:"summary"`
}

// OrderHistorySummary aggregates an order history.
type OrderHistorySummary struct {
	TotalOrders int                 `json:"totalOrders"`
	TotalSpent  float64             `json:"totalSpent"`
	ByStatus    map[OrderStatus]int `json:"byStatus"`
}
