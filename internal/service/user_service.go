package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByNetIDOrEmail(ctx context.Context, netID, email, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, set query.Assignments) error
	Delete(ctx context.Context, id string) error
}

type studentPackageLister interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.Package, error)
}

// UserService handles student and staff records.
type UserService struct {
	repo      userRepository
	packages  studentPackageLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService. packages may be nil, in
// which case Get does not embed packages.
func NewUserService(repo userRepository, packages studentPackageLister, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, packages: packages, validator: validate, logger: logger}
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) (query.Page[models.User], error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return query.Page[models.User]{}, appErrors.Internal(err, "Failed to fetch users")
	}
	return query.NewPage(users, total, filter.Params), nil
}

// Get returns a user with the packages addressed to them.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User", "Failed to fetch user")
	}
	if s.packages != nil {
		packages, err := s.packages.ListForStudent(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user.Packages = packages
	}
	return user, nil
}

// Create registers a user; role defaults to STUDENT.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	req.NetID = strings.TrimSpace(req.NetID)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid user payload")
	}
	if err := s.ensureUnique(ctx, req.NetID, req.Email, ""); err != nil {
		return nil, err
	}

	user := &models.User{NetID: req.NetID, Email: req.Email, FullName: strings.TrimSpace(req.FullName), Role: req.Role}
	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.String("net_id", req.NetID), zap.Error(err))
		return nil, storeError(err, "User", "Failed to create user")
	}
	return s.reload(ctx, user.ID, "Failed to create user")
}

// Update applies the fields present in req.
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.User, error) {
	var set query.Assignments
	var netID, email string

	if req.NetID.IsSet() {
		v, ok := req.NetID.Value()
		netID = strings.TrimSpace(v)
		if !ok || s.validator.Var(netID, "required,max=64") != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid netId")
		}
		set.Add("net_id", netID)
	}
	if req.Email.IsSet() {
		v, ok := req.Email.Value()
		email = strings.ToLower(strings.TrimSpace(v))
		if !ok || s.validator.Var(email, "required,email") != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid email")
		}
		set.Add("email", email)
	}
	if req.FullName.IsSet() {
		v, ok := req.FullName.Value()
		v = strings.TrimSpace(v)
		if !ok || s.validator.Var(v, "required,max=200") != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fullName")
		}
		set.Add("full_name", v)
	}
	if req.Role.IsSet() {
		role, ok := req.Role.Value()
		if !ok || !role.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid role %q", role))
		}
		set.Add("role", string(role))
	}
	if set.Len() == 0 {
		return s.reload(ctx, id, "Failed to fetch user")
	}

	if netID != "" || email != "" {
		if err := s.ensureUnique(ctx, netID, email, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, id, set); err != nil {
		return nil, storeError(err, "User", "Failed to update user")
	}
	return s.reload(ctx, id, "Failed to update user")
}

// Delete removes a user. Users still referenced by packages or orders are
// reported as a conflict.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "User", "Failed to delete user")
	}
	return nil
}

func (s *UserService) ensureUnique(ctx context.Context, netID, email, excludeID string) error {
	exists, err := s.repo.ExistsByNetIDOrEmail(ctx, netID, email, excludeID)
	if err != nil {
		return appErrors.Internal(err, "Failed to check user uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "A user with this netId or email already exists")
	}
	return nil
}

func (s *UserService) reload(ctx context.Context, id, failed string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User", failed)
	}
	return user, nil
}
