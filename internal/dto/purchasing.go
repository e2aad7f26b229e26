package dto

import (
	"time"

	"github.com/campus-mailroom/mailroom-api/internal/models"
)

// SpendCategoryRequest creates or replaces a spend category.
type SpendCategoryRequest struct {
	Code              string `json:"code" validate:"required,max=32"`
	Description       string `json:"description" validate:"required,max=255"`
	VisibleToStudents bool   `json:"visibleToStudents"`
}

// ProfessorRequest creates or replaces a professor.
type ProfessorRequest struct {
	Title     string  `json:"title" validate:"max=32"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// OrderRequester identifies the student raising a purchase request. The user
// is created on first use and matched by netId afterwards.
type OrderRequester struct {
	NetID    string `json:"netId" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,max=200"`
}

// OrderItemRequest is one requested line item.
type OrderItemRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Quantity int     `json:"quantity" validate:"min=1"`
	Link     *string `json:"link" validate:"omitempty,url"`
	Status   *string `json:"status" validate:"omitempty,max=64"`
}

// CreateOrderRequest raises a purchase request. Either a cart link or at least
// one item is required.
type CreateOrderRequest struct {
	Requester          OrderRequester     `json:"requester" validate:"required"`
	ProfessorID        *string            `json:"professorId"`
	SpendCategoryID    *string            `json:"spendCategoryId"`
	Vendor             string             `json:"vendor" validate:"required,max=200"`
	ShippingPreference *string            `json:"shippingPreference" validate:"omitempty,max=100"`
	Purpose            string             `json:"purpose" validate:"required"`
	WorkTag            *string            `json:"workTag" validate:"omitempty,max=64"`
	CartLink           *string            `json:"cartLink" validate:"omitempty,url"`
	Comment            *string            `json:"comment"`
	Items              []OrderItemRequest `json:"items" validate:"dive"`
}

// UpdateOrderRequest carries any subset of the mutable order fields. Items,
// when present, replace the existing line items.
type UpdateOrderRequest struct {
	ProfessorID        Optional[string]             `json:"professorId" swaggertype:"string"`
	SpendCategoryID    Optional[string]             `json:"spendCategoryId" swaggertype:"string"`
	Vendor             Optional[string]             `json:"vendor" swaggertype:"string"`
	ShippingPreference Optional[string]             `json:"shippingPreference" swaggertype:"string"`
	Purpose            Optional[string]             `json:"purpose" swaggertype:"string"`
	WorkTag            Optional[string]             `json:"workTag" swaggertype:"string"`
	CartLink           Optional[string]             `json:"cartLink" swaggertype:"string"`
	Comment            Optional[string]             `json:"comment" swaggertype:"string"`
	Status             Optional[models.OrderStatus] `json:"status" swaggertype:"string"`
	PurchaseDate       Optional[time.Time]          `json:"purchaseDate" swaggertype:"string"`
	Tax                Optional[float64]            `json:"tax" swaggertype:"number"`
	Total              Optional[float64]            `json:"total" swaggertype:"number"`
	Items              Optional[[]OrderItemRequest] `json:"items" swaggertype:"array,object"`
}

// ReceiptURLResponse is a time-limited download link for one receipt.
type ReceiptURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
