package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

const sessionIssuer = "mailroom-api"

// AuthConfig defines the shared-password gate.
type AuthConfig struct {
	// PasswordHash is a bcrypt hash; when empty Password is hashed at start-up.
	PasswordHash  string
	Password      string
	SessionSecret string
	SessionTTL    time.Duration
}

// AuthService issues and validates admin sessions behind a single shared
// password. There are no per-user accounts.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	hash      []byte
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService constructs an AuthService. It fails when no password is
// configured.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	hash := []byte(config.PasswordHash)
	if len(hash) == 0 {
		if config.Password == "" {
			return nil, fmt.Errorf("admin password is not configured")
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(config.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = generated
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 8 * time.Hour
	}
	return &AuthService{
		validator: validate,
		logger:    logger,
		hash:      hash,
		secret:    []byte(config.SessionSecret),
		ttl:       config.SessionTTL,
		now:       time.Now,
	}, nil
}

// Login exchanges the shared password for a signed session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "password is required")
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(req.Password)); err != nil {
		s.logger.Warn("admin login rejected")
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid password")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)
	claims := &models.SessionClaims{
		Scope: models.AdminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   models.AdminScope,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to issue session")
	}
	s.logger.Info("admin session issued", zap.Time("expires_at", expiresAt))
	return &models.LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses a session token and checks its scope.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.Scope != models.AdminScope {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session")
	}
	return claims, nil
}
