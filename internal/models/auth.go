package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminScope is the only scope issued by the shared-password gate.
const AdminScope = "admin"

// LoginRequest carries the shared admin password.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionClaims is the JWT payload of an admin session.
type SessionClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}
