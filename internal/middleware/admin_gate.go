package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
	"github.com/campus-mailroom/mailroom-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the admin session claims.
const ContextSessionKey = "adminSession"

type sessionValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// AdminGate requires a bearer session token issued by POST /auth/login. When
// enabled is false every request passes through.
func AdminGate(sessions sessionValidator, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := sessions.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if claims.Scope != models.AdminScope {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Session does not grant admin access"))
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}
