package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*models.User, error)
}

// AuthMiddleware rejects the request unless it carries a valid bearer token
// of an existing administrator.
func AuthMiddleware(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httperr.Unauthorized(c, "invalid_authorization_header", "expected a bearer token")
			return
		}

		u, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if be, ok := httperr.As(err); ok && be.Kind == httperr.KindUnauthorized {
				httperr.Unauthorized(c, be.Code, be.Message)
				return
			}
			httperr.Respond(c, err)
			c.Abort()
			return
		}
		if u.Role != auth.RoleAdmin {
			httperr.Respond(c, httperr.Forbidden())
			c.Abort()
			return
		}

		c.Set(ContextUserID, u.ID)
		c.Set(ContextUserRole, u.Role)

		c.Next()
	}
}

// ActorFrom returns the authenticated administrator, or the public actor on
// routes without AuthMiddleware.
func ActorFrom(c *gin.Context) access.Actor {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return access.Public
	}
	userID, _ := id.(uint)
	role, _ := c.Get(ContextUserRole)
	if role != auth.RoleAdmin || userID == 0 {
		return access.Public
	}
	return access.Admin(userID)
}
