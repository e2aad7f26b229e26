package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/campus-mailroom/mailroom-api/internal/models"
)

var userColumnNames = []string{"id", "net_id", "email", "full_name", "role", "created_at", "updated_at"}

// joinedUserColumns selects alias.* as "prefix.column" so sqlx can scan the
// columns into a nested joinedUser.
func joinedUserColumns(alias, prefix string) string {
	parts := make([]string, len(userColumnNames))
	for i, column := range userColumnNames {
		parts[i] = fmt.Sprintf(`%s.%s AS "%s.%s"`, alias, column, prefix, column)
	}
	return strings.Join(parts, ", ")
}

// joinedUser holds the columns of a LEFT JOINed user, all NULL when absent.
type joinedUser struct {
	ID        *string    `db:"id"`
	NetID     *string    `db:"net_id"`
	Email     *string    `db:"email"`
	FullName  *string    `db:"full_name"`
	Role      *string    `db:"role"`
	CreatedAt *time.Time `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

func (u joinedUser) toModel() *models.User {
	if u.ID == nil {
		return nil
	}
	user := &models.User{ID: *u.ID}
	if u.NetID != nil {
		user.NetID = *u.NetID
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.FullName != nil {
		user.FullName = *u.FullName
	}
	if u.Role != nil {
		user.Role = models.UserRole(*u.Role)
	}
	if u.CreatedAt != nil {
		user.CreatedAt = *u.CreatedAt
	}
	if u.UpdatedAt != nil {
		user.UpdatedAt = *u.UpdatedAt
	}
	return user
}
