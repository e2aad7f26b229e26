package dto

import (
	"time"

	"github.com/campus-mailroom/mailroom-api/internal/models"
)

// CreatePackageRequest registers a package that is expected at the mailroom.
type CreatePackageRequest struct {
	TrackingNumber      *string    `json:"trackingNumber" validate:"omitempty,max=120"`
	Carrier             *string    `json:"carrier" validate:"omitempty,max=80"`
	Sender              *string    `json:"sender" validate:"omitempty,max=200"`
	ExpectedArrivalDate *time.Time `json:"expectedArrivalDate"`
	StudentID           string     `json:"studentId" validate:"required"`
	Notes               *string    `json:"notes"`
	Location            *string    `json:"location" validate:"omitempty,max=120"`
}

// UpdatePackageRequest carries any subset of the mutable package fields.
// An explicit null clears a nullable column.
type UpdatePackageRequest struct {
	TrackingNumber      Optional[string]               `json:"trackingNumber" swaggertype:"string"`
	Carrier             Optional[string]               `json:"carrier" swaggertype:"string"`
	Sender              Optional[string]               `json:"sender" swaggertype:"string"`
	Location            Optional[string]               `json:"location" swaggertype:"string"`
	Notes               Optional[string]               `json:"notes" swaggertype:"string"`
	Status              Optional[models.PackageStatus] `json:"status" swaggertype:"string"`
	ExpectedArrivalDate Optional[time.Time]            `json:"expectedArrivalDate" swaggertype:"string"`
	DateArrived         Optional[time.Time]            `json:"dateArrived" swaggertype:"string"`
	DatePickedUp        Optional[time.Time]            `json:"datePickedUp" swaggertype:"string"`
	StudentID           Optional[string]               `json:"studentId" swaggertype:"string"`
	CheckedInByID       Optional[string]               `json:"checkedInById" swaggertype:"string"`
	CheckedOutByID      Optional[string]               `json:"checkedOutById" swaggertype:"string"`
	NotificationSent    Optional[bool]                 `json:"notificationSent" swaggertype:"boolean"`
}

// CheckInRequest records a package's physical arrival.
type CheckInRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required"`
	Location   *string `json:"location" validate:"omitempty,max=120"`
}

// CheckOutRequest records a package's release to its recipient.
type CheckOutRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
}
