package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"guardpost.app/guardpost/security"
	"guardpost.app/guardpost/web/common"
)

const identityKey = "identity"

// Authentication checks for a valid Bearer token and stores the decoded
// identity on the request context.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("malformed authorization header"))
			return
		}

		claims, err := security.ParseAccessToken(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// RequireAdmin gates a route group on the isAdmin claim. Must run after
// Authentication.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil || !identity.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("Forbidden"))
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) *security.IdentityClaims {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*security.IdentityClaims)
	return claims
}
