package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticator resolves bearer credentials into users
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*models.User, error)
	RequireRole(principal *models.User, role models.Role) error
}

type Auth struct {
	svc Authenticator
	log *slog.Logger
}

func NewAuth(svc Authenticator, log *slog.Logger) *Auth {
	return &Auth{svc: svc, log: logger.WithComponent(log, "auth")}
}

// AuthRequired validates the bearer token and stores the principal in context.
// Every credential failure gets the same 401 body.
func (a *Auth) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.svc.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if services.KindOf(err) != services.KindUnauthorized {
				a.log.ErrorContext(c.Request.Context(), "authenticate", "request_id", RequestID(c), "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			a.log.DebugContext(c.Request.Context(), "authentication rejected",
				"request_id", RequestID(c), "reason", rejectReason(err), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Set(principalKey, user)
		c.Next()
	}
}

// RoleRequired enforces that the caller holds role's capability.
// Must run after AuthRequired.
func (a *Auth) RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.svc.RequireRole(Principal(c), role); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Admin only."})
			return
		}
		c.Next()
	}
}

func (a *Auth) AdminRequired() gin.HandlerFunc {
	return a.RoleRequired(models.RoleAdmin)
}

// Principal returns the authenticated user, or nil on public routes
func Principal(c *gin.Context) *models.User {
	if v, ok := c.Get(principalKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, services.ErrPrincipalNotFound):
		return "principal_not_found"
	}
	return "missing_credentials"
}
