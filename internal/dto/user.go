package dto

import "github.com/campus-mailroom/mailroom-api/internal/models"

// CreateUserRequest registers a student or staff member.
type CreateUserRequest struct {
	NetID    string          `json:"netId" validate:"required,max=64"`
	Email    string          `json:"email" validate:"required,email"`
	FullName string          `json:"fullName" validate:"required,max=200"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=STUDENT SECRETARY ADMIN"`
}

// UpdateUserRequest carries any subset of the user fields. None are nullable.
type UpdateUserRequest struct {
	NetID    Optional[string]          `json:"netId" swaggertype:"string"`
	Email    Optional[string]          `json:"email" swaggertype:"string"`
	FullName Optional[string]          `json:"fullName" swaggertype:"string"`
	Role     Optional[models.UserRole] `json:"role" swaggertype:"string"`
}
