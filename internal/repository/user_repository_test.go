package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
)

var userRowColumns = []string{"id", "net_id", "email", "full_name", "role", "created_at", "updated_at"}

func TestUserRepositoryListDefaultsToNameOrder(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	where := " WHERE u.role = $1 AND (u.full_name ILIKE $2 OR u.net_id ILIKE $2 OR u.email ILIKE $2)"
	mock.ExpectQuery(regexp.QuoteMeta(userSelect + where + " ORDER BY u.full_name ASC, u.id ASC LIMIT 25 OFFSET 0")).
		WithArgs("STUDENT", "%doe%").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "ad1", "a@campus.edu", "Alex Doe", "STUDENT", now, now).
			AddRow("u2", "jd2", "j@campus.edu", "Jane Doe", "STUDENT", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users u" + where)).
		WithArgs("STUDENT", "%doe%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	users, total, err := repo.List(context.Background(), models.UserFilter{
		Params: query.NewParams(1, 25, "", ""),
		Role:   models.RoleStudent,
		Search: "doe",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "Alex Doe", users[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDefaultsRole(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "jd123", "jd@campus.edu", "Jane Doe", "STUDENT", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{NetID: "jd123", Email: "jd@campus.edu", FullName: "Jane Doe"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryExistsByNetIDOrEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE (net_id = $1 OR LOWER(email) = LOWER($2)) AND id <> $3 LIMIT 1")).
		WithArgs("jd123", "jd@campus.edu", "u1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByNetIDOrEmail(context.Background(), "jd123", "jd@campus.edu", "u1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	var set query.Assignments
	set.Add("full_name", "Jane Q. Doe")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET full_name = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("Jane Q. Doe", sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), "ghost", set), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
