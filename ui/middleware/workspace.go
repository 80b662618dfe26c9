package middleware

import (
	"net/http"

	"phone8ez/internal/identity"
	"phone8ez/internal/workspace"

	"github.com/gin-gonic/gin"
)

const workspaceKey = "workspace"

// EnsureWorkspace is middleware that attaches the caller's workspace, creating it on first use.
// It must run after identity.RequireAuth.
func EnsureWorkspace(registry *workspace.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := identity.PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}

		c.Set(workspaceKey, registry.Get(principal.Email))
		c.Next()
	}
}

// Workspace returns the workspace attached by EnsureWorkspace
func Workspace(c *gin.Context) (*workspace.Workspace, bool) {
	v, ok := c.Get(workspaceKey)
	if !ok {
		return nil, false
	}
	ws, ok := v.(*workspace.Workspace)
	return ws, ok
}
