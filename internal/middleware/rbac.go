package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/response"
)

// RequireRoles gates a route group on the role embedded in the token. An
// authenticated caller with the wrong role, or with no role at all, gets
// 403; Authenticate has already turned missing identity into 401.
func RequireRoles(allowed ...models.UserRole) gin.HandlerFunc {
	allowedSet := make(map[models.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		if claims.Role == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrNoRole, ""))
			c.Abort()
			return
		}

		if _, ok := allowedSet[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role not allowed for this portal"))
			c.Abort()
			return
		}

		c.Next()
	}
}
