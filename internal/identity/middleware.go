package identity

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
)

const principalKey = "principal"

// RequireAuth resolves the principal and stores it on the context.
// Requests without a valid identity are rejected with 401.
func RequireAuth(p Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := p.Principal(c.Request.Context(), c.Request)
		if err != nil {
			if errors.Is(err, core.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin rejects non-administrators with 403. It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator access required"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by RequireAuth
func PrincipalFrom(c *gin.Context) (account.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return account.Principal{}, false
	}
	principal, ok := v.(account.Principal)
	return principal, ok
}

// WithPrincipal stores principal on the context. Tests and internal callers
// use it to skip header resolution.
func WithPrincipal(c *gin.Context, principal account.Principal) {
	c.Set(principalKey, principal)
}
