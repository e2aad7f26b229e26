package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	listErr   error
	deleteErr error
	exists    bool
	updates   []query.Assignments
	lastScan  models.UserFilter
}

func newMockUserRepo(users ...models.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*models.User{}}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *mockUserRepo) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.lastScan = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var users []models.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByNetIDOrEmail(_ context.Context, netID, email, excludeID string) (bool, error) {
	if m.exists {
		return true, nil
	}
	for id, u := range m.users {
		if id == excludeID {
			continue
		}
		if (netID != "" && u.NetID == netID) || (email != "" && u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "user-" + user.NetID
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, id string, set query.Assignments) error {
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	m.updates = append(m.updates, set)
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type stubStudentPackages struct {
	packages []models.Package
}

func (s stubStudentPackages) ListForStudent(_ context.Context, studentID string) ([]models.Package, error) {
	var out []models.Package
	for _, p := range s.packages {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestUserServiceCreateDefaultsRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{NetID: " ab123 ", Email: "AB123@Campus.edu", FullName: "Alex Bell"})
	require.NoError(t, err)
	assert.Equal(t, "ab123", user.NetID)
	assert.Equal(t, "ab123@campus.edu", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestUserServiceCreateValidationAndConflict(t *testing.T) {
	repo := newMockUserRepo(models.User{ID: "u1", NetID: "ab123", Email: "ab123@campus.edu"})
	svc := NewUserService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{NetID: "cd456", Email: "not-an-email", FullName: "C D"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), dto.CreateUserRequest{NetID: "cd456", Email: "cd@campus.edu", FullName: "C D", Role: "JANITOR"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), dto.CreateUserRequest{NetID: "ab123", Email: "new@campus.edu", FullName: "Dup"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestUserServiceGetEmbedsPackages(t *testing.T) {
	repo := newMockUserRepo(models.User{ID: "S1", NetID: "s1", FullName: "Sam"})
	packages := stubStudentPackages{packages: []models.Package{{ID: "p1", StudentID: "S1"}, {ID: "p2", StudentID: "S2"}}}
	svc := NewUserService(repo, packages, nil, nil)

	user, err := svc.Get(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, user.Packages, 1)
	assert.Equal(t, "p1", user.Packages[0].ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "User not found", appErrors.FromError(err).Message)
}

func TestUserServiceListEnvelope(t *testing.T) {
	repo := newMockUserRepo(
		models.User{ID: "u1", Role: models.RoleStudent},
		models.User{ID: "u2", Role: models.RoleAdmin},
	)
	svc := NewUserService(repo, nil, nil, nil)

	page, err := svc.List(context.Background(), models.UserFilter{Params: query.NewParams(1, 25, "", ""), Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	repo.listErr = errors.New("db down")
	_, err = svc.List(context.Background(), models.UserFilter{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestUserServiceUpdate(t *testing.T) {
	repo := newMockUserRepo(
		models.User{ID: "u1", NetID: "ab123", Email: "ab@campus.edu"},
		models.User{ID: "u2", NetID: "cd456", Email: "cd@campus.edu"},
	)
	svc := NewUserService(repo, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", dto.UpdateUserRequest{FullName: dto.Set("Alex Bell"), Role: dto.Set(models.RoleSecretary)})
	require.NoError(t, err)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, "full_name = $1, role = $2", repo.updates[0].SQL())

	_, err = svc.Update(ctx, "u1", dto.UpdateUserRequest{NetID: dto.Set("cd456")})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.Update(ctx, "u1", dto.UpdateUserRequest{NetID: dto.Set("ab123")})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, "u1", dto.UpdateUserRequest{Email: dto.Null[string]()})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Update(ctx, "u1", dto.UpdateUserRequest{Role: dto.Set(models.UserRole("ROOT"))})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Update(ctx, "ghost", dto.UpdateUserRequest{FullName: dto.Set("Nobody")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceDelete(t *testing.T) {
	repo := newMockUserRepo(models.User{ID: "u1"})
	svc := NewUserService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "u1"), appErrors.ErrNotFound)

	repo = newMockUserRepo(models.User{ID: "u2"})
	repo.deleteErr = &pq.Error{Code: "23503"}
	svc = NewUserService(repo, nil, nil, nil)
	err := svc.Delete(context.Background(), "u2")
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}
