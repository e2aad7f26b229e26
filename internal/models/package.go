package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/campus-mailroom/mailroom-api/internal/query"
)

// PackageStatus enumerates the lifecycle states of a tracked package.
type PackageStatus string

const (
	PackageStatusAwaitingArrival  PackageStatus = "AWAITING_ARRIVAL"
	PackageStatusArrived          PackageStatus = "ARRIVED"
	PackageStatusReadyForPickup   PackageStatus = "READY_FOR_PICKUP"
	PackageStatusPickedUp         PackageStatus = "PICKED_UP"
	PackageStatusReturnedToSender PackageStatus = "RETURNED_TO_SENDER"
	PackageStatusLost             PackageStatus = "LOST"
)

// PackageStatuses lists every status in lifecycle order.
var PackageStatuses = []PackageStatus{
	PackageStatusAwaitingArrival,
	PackageStatusArrived,
	PackageStatusReadyForPickup,
	PackageStatusPickedUp,
	PackageStatusReturnedToSender,
	PackageStatusLost,
}

// Valid reports whether s is a known status.
func (s PackageStatus) Valid() bool {
	for _, known := range PackageStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// AwaitingPickup is true for packages sitting on a shelf.
func (s PackageStatus) AwaitingPickup() bool {
	return s == PackageStatusArrived || s == PackageStatusReadyForPickup
}

// ParsePackageStatus accepts a status name in any letter case. Blank input
// yields the empty status, meaning "all".
func ParsePackageStatus(raw string) (PackageStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	status := PackageStatus(strings.ToUpper(raw))
	if !status.Valid() {
		return "", fmt.Errorf("unknown package status %q", raw)
	}
	return status, nil
}

// Package is a physical parcel received by the mailroom for a student.
type Package struct {
	ID                  string        `db:"id" json:"id"`
	TrackingNumber      *string       `db:"tracking_number" json:"trackingNumber"`
	Carrier             *string       `db:"carrier" json:"carrier"`
	Sender              *string       `db:"sender" json:"sender"`
	Location            *string       `db:"location" json:"location"`
	Notes               *string       `db:"notes" json:"notes"`
	Status              PackageStatus `db:"status" json:"status"`
	ExpectedArrivalDate *time.Time    `db:"expected_arrival_date" json:"expectedArrivalDate"`
	DateArrived         *time.Time    `db:"date_arrived" json:"dateArrived"`
	DatePickedUp        *time.Time    `db:"date_picked_up" json:"datePickedUp"`
	StudentID           string        `db:"student_id" json:"studentId"`
	CheckedInByID       *string       `db:"checked_in_by_id" json:"checkedInById"`
	CheckedOutByID      *string       `db:"checked_out_by_id" json:"checkedOutById"`
	NotificationSent    bool          `db:"notification_sent" json:"notificationSent"`
	CreatedAt           time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updatedAt"`

	Student      *User `db:"-" json:"student,omitempty"`
	CheckedInBy  *User `db:"-" json:"checkedInBy,omitempty"`
	CheckedOutBy *User `db:"-" json:"checkedOutBy,omitempty"`
}

// PackageFilter narrows package listings. Every non-empty field is AND-ed.
type PackageFilter struct {
	query.Params
	Status    PackageStatus
	StudentID string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// PackageSummary counts packages per status.
type PackageSummary struct {
	Total         int                   `json:"total"`
	ByStatus      map[PackageStatus]int `json:"byStatus"`
	OnShelf       int                   `json:"onShelf"`
	NotifyPending int                   `json:"notifyPending"`
	GeneratedAt   time.Time             `json:"generatedAt"`
}

// PackageStatusCount is one row of the per-status aggregate.
type PackageStatusCount struct {
	Status     PackageStatus `db:"status"`
	Count      int           `db:"count"`
	Unnotified int           `db:"unnotified"`
}
