package ui

import (
	"time"

	"phone8ez/internal/billing"
	"phone8ez/internal/identity"
	"phone8ez/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

// requestLogger writes one line per request through the application logger
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "[%s] %s %s -> %d (%s)"
		args := []interface{}{"http", c.Request.Method, c.FullPath(), status, time.Since(start).Round(time.Microsecond)}
		switch {
		case status >= 500:
			s.logger.Error(line, args...)
		case status >= 400:
			s.logger.Warn(line, args...)
		default:
			s.logger.Debug(line, args...)
		}
	}
}

// workspaceChain is the middleware stack every dataset and history route runs behind
func (s *Server) workspaceChain() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		billing.RequireSubscription(s.billing, s.opts.RequireSubscription),
		middleware.EnsureWorkspace(s.workspaces),
	}
}

func (s *Server) authChain() gin.HandlerFunc {
	return identity.RequireAuth(s.identity)
}
