package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/campus-mailroom/mailroom-api/internal/query"
)

// UserRole distinguishes students from mailroom staff.
type UserRole string

const (
	RoleStudent   UserRole = "STUDENT"
	RoleSecretary UserRole = "SECRETARY"
	RoleAdmin     UserRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleSecretary, RoleAdmin:
		return true
	}
	return false
}

// IsStaff is true for roles that may check packages in or out.
func (r UserRole) IsStaff() bool {
	return r == RoleSecretary || r == RoleAdmin
}

// ParseUserRole accepts a role name in any letter case; blank means "all".
func ParseUserRole(raw string) (UserRole, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	role := UserRole(strings.ToUpper(raw))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// User is a person known to the mailroom: a student recipient or staff.
type User struct {
	ID        string    `db:"id" json:"id"`
	NetID     string    `db:"net_id" json:"netId"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"fullName"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Packages []Package `db:"-" json:"packages,omitempty"`
}

// UserFilter narrows user listings.
type UserFilter struct {
	query.Params
	Role   UserRole
	Search string
}
