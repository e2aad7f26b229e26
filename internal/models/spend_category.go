package models

import "time"

// SpendCategory classifies purchases for departmental accounting.
type SpendCategory struct {
	ID                string    `db:"id" json:"id"`
	Code              string    `db:"code" json:"code"`
	Description       string    `db:"description" json:"description"`
	VisibleToStudents bool      `db:"visible_to_students" json:"visibleToStudents"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// SpendCategoryFilter narrows spend category listings.
type SpendCategoryFilter struct {
	VisibleToStudents *bool
}
