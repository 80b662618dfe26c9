package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phone8ez/internal/identity"
)

// RequireSubscription rejects callers without an active subscription with
// 402. Administrators always pass. When enabled is false the middleware is a
// pass-through.
func RequireSubscription(s *Service, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		principal, ok := identity.PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		if principal.IsAdmin() {
			c.Next()
			return
		}

		status, err := s.Status(c.Request.Context(), principal.Email)
		if err != nil {
			s.logger.Error("[RequireSubscription] status lookup failed for %s: %v", principal.Email, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to check subscription"})
			return
		}
		if !status.Active {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "an active subscription is required"})
			return
		}
		c.Next()
	}
}
