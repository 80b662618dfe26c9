package ui

import (
	"net/http"
	"time"

	"phone8ez/domain/core"
	apperrors "phone8ez/internal/errors"

	"github.com/gin-gonic/gin"
)

// ActivateRequest is the body of POST /api/subscription
type ActivateRequest struct {
	Email string `json:"email" binding:"required,email"`
	Plan  string `json:"plan" binding:"required"`
	Days  int    `json:"days" binding:"required,min=1,max=3660"`
}

func (s *Server) handleSubscriptionStatus(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	status, err := s.billing.Status(c.Request.Context(), p.Email)
	if err != nil {
		s.respondError(c, "handleSubscriptionStatus", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// handleActivateSubscription records a confirmed payment for a user
func (s *Server) handleActivateSubscription(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, "handleActivateSubscription", apperrors.InvalidInput(err.Error()))
		return
	}

	period := time.Duration(req.Days) * 24 * time.Hour
	sub, err := s.billing.Activate(c.Request.Context(), core.NormalizeEmail(req.Email), req.Plan, period)
	if err != nil {
		s.respondError(c, "handleActivateSubscription", err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *Server) handleCancelSubscription(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	sub, err := s.billing.Cancel(c.Request.Context(), p.Email)
	if err != nil {
		s.respondError(c, "handleCancelSubscription", err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
