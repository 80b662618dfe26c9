package ui

import (
	"net/http"
	"strconv"

	"phone8ez/domain/account"
	"phone8ez/domain/community"
	"phone8ez/domain/core"
	apperrors "phone8ez/internal/errors"
	"phone8ez/internal/identity"
	communitysvc "phone8ez/internal/community"

	"github.com/gin-gonic/gin"
)

const defaultNoticeLimit = 50

// principal returns the caller resolved by identity.RequireAuth
func (s *Server) principal(c *gin.Context) (account.Principal, bool) {
	p, ok := identity.PrincipalFrom(c)
	if !ok {
		s.respondError(c, "principal", core.ErrUnauthenticated)
	}
	return p, ok
}

func (s *Server) handleListNotices(c *gin.Context) {
	limit := defaultNoticeLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.respondError(c, "handleListNotices", apperrors.InvalidInput("limit must be a positive number"))
			return
		}
		limit = n
	}

	notices, err := s.community.ListNotices(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, "handleListNotices", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

func (s *Server) handleGetNotice(c *gin.Context) {
	notice, err := s.community.GetNotice(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, "handleGetNotice", err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (s *Server) handleCreateNotice(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	var in communitysvc.NoticeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.respondError(c, "handleCreateNotice", apperrors.InvalidInput(err.Error()))
		return
	}

	notice, err := s.community.CreateNotice(c.Request.Context(), p, in)
	if err != nil {
		s.respondError(c, "handleCreateNotice", err)
		return
	}
	c.JSON(http.StatusCreated, notice)
}

func (s *Server) handleUpdateNotice(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	var in communitysvc.NoticeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.respondError(c, "handleUpdateNotice", apperrors.InvalidInput(err.Error()))
		return
	}

	notice, err := s.community.UpdateNotice(c.Request.Context(), p, core.ID(c.Param("id")), in)
	if err != nil {
		s.respondError(c, "handleUpdateNotice", err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (s *Server) handleDeleteNotice(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	if err := s.community.DeleteNotice(c.Request.Context(), p, core.ID(c.Param("id"))); err != nil {
		s.respondError(c, "handleDeleteNotice", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateReport(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	var in communitysvc.ReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.respondError(c, "handleCreateReport", apperrors.InvalidInput(err.Error()))
		return
	}

	report, err := s.community.CreateReport(c.Request.Context(), p, in)
	if err != nil {
		s.respondError(c, "handleCreateReport", err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	reports, err := s.community.ListReports(c.Request.Context(), p, community.ReportStatus(c.Query("status")))
	if err != nil {
		s.respondError(c, "handleListReports", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) handleResolveReport(c *gin.Context) {
	p, ok := s.principal(c)
	if !ok {
		return
	}
	report, err := s.community.ResolveReport(c.Request.Context(), p, core.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, "handleResolveReport", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
