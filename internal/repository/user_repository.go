package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
)

const userSelect = `SELECT u.id, u.net_id, u.email, u.full_name, u.role, u.created_at, u.updated_at FROM users u`

var userSortable = query.Sortable{
	"fullName":  "u.full_name",
	"netId":     "u.net_id",
	"email":     "u.email",
	"role":      "u.role",
	"createdAt": "u.created_at",
}

// UserRepository persists students and staff.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns users ordered by full name unless another key is requested.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var where query.Where
	if filter.Role != "" {
		where.Eq("u.role", string(filter.Role))
	}
	where.ContainsAny(filter.Search, "u.full_name", "u.net_id", "u.email")
	args := where.Args()

	listQuery := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d",
		userSelect, where.SQL(), userSortable.OrderBy(filter.Params, "fullName", query.OrderAsc, "u.id"), filter.Limit(), filter.Offset())
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users u"+where.SQL(), args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// FindByID fetches a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, userSelect+" WHERE u.id = $1", id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByNetID fetches a user by campus NetID.
func (r *UserRepository) FindByNetID(ctx context.Context, netID string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, userSelect+" WHERE u.net_id = $1", netID); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByNetIDOrEmail reports whether another user already holds netID or
// email, optionally ignoring excludeID.
func (r *UserRepository) ExistsByNetIDOrEmail(ctx context.Context, netID, email, excludeID string) (bool, error) {
	existsQuery := "SELECT 1 FROM users WHERE (net_id = $1 OR LOWER(email) = LOWER($2))"
	args := []interface{}{netID, email}
	if excludeID != "" {
		existsQuery += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, existsQuery+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a user; role defaults to STUDENT.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const insertQuery = `INSERT INTO users (id, net_id, email, full_name, role, created_at, updated_at)
        VALUES (:id, :net_id, :email, :full_name, :role, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update applies a partial change set.
func (r *UserRepository) Update(ctx context.Context, id string, set query.Assignments) error {
	set.Add("updated_at", time.Now().UTC())
	updateQuery := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", set.SQL(), set.Next())
	result, err := r.db.ExecContext(ctx, updateQuery, append(set.Args(), id)...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(result, "update user")
}

// Delete removes a user. Packages still addressed to the user make this fail
// with a foreign key violation.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(result, "delete user")
}
