package models

// PackageNotification asks the notifier to tell a student their package arrived.
type PackageNotification struct {
	PackageID string  `json:"packageId"`
	StudentID string  `json:"studentId"`
	Location  *string `json:"location"`
}
