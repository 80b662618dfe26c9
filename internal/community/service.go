// Package community implements administrator notices and user reports.
package community

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"phone8ez/domain/account"
	"phone8ez/domain/community"
	"phone8ez/domain/core"
	"phone8ez/internal"
	"phone8ez/ports"
)

const (
	maxTitleLength  = 200
	maxTargetLength = 500
	maxReasonLength = 2000
)

// NoticeInput holds the editable fields of a notice
type NoticeInput struct {
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body" binding:"required"`
	Pinned bool   `json:"pinned"`
}

// ReportInput holds a new report
type ReportInput struct {
	Target string `json:"target" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// Service manages notices and reports
type Service struct {
	notices ports.NoticeRepository
	reports ports.ReportRepository
	logger  *internal.Logger
	now     func() time.Time
}

// NewService creates a community service
func NewService(notices ports.NoticeRepository, reports ports.ReportRepository, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{notices: notices, reports: reports, logger: logger, now: time.Now}
}

// ListNotices returns notices, pinned first, without rendered bodies
func (s *Service) ListNotices(ctx context.Context, limit int) ([]*community.Notice, error) {
	notices, err := s.notices.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if notices == nil {
		notices = []*community.Notice{}
	}
	return notices, nil
}

// GetNotice returns a notice with its body rendered to HTML
func (s *Service) GetNotice(ctx context.Context, id core.ID) (*community.Notice, error) {
	notice, err := s.notices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	notice.BodyHTML = RenderMarkdown(notice.Body)
	return notice, nil
}

// CreateNotice publishes a notice. Only administrators may publish.
func (s *Service) CreateNotice(ctx context.Context, author account.Principal, in NoticeInput) (*community.Notice, error) {
	if !author.IsAdmin() {
		return nil, core.ErrForbidden
	}
	if err := validateNotice(in); err != nil {
		return nil, err
	}

	now := s.now()
	notice := &community.Notice{
		ID:        core.NewID(),
		Title:     strings.TrimSpace(in.Title),
		Body:      in.Body,
		Pinned:    in.Pinned,
		Author:    author.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}
	s.logger.Info("[Community] %s published notice %s", author.Email, notice.ID)
	return notice, nil
}

// UpdateNotice replaces a notice's title, body and pin flag
func (s *Service) UpdateNotice(ctx context.Context, editor account.Principal, id core.ID, in NoticeInput) (*community.Notice, error) {
	if !editor.IsAdmin() {
		return nil, core.ErrForbidden
	}
	if err := validateNotice(in); err != nil {
		return nil, err
	}

	notice, err := s.notices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	notice.Title = strings.TrimSpace(in.Title)
	notice.Body = in.Body
	notice.Pinned = in.Pinned
	notice.UpdatedAt = s.now()
	if err := s.notices.Update(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// DeleteNotice removes a notice
func (s *Service) DeleteNotice(ctx context.Context, editor account.Principal, id core.ID) error {
	if !editor.IsAdmin() {
		return core.ErrForbidden
	}
	return s.notices.Delete(ctx, id)
}

// CreateReport files a report from any signed-in user
func (s *Service) CreateReport(ctx context.Context, reporter account.Principal, in ReportInput) (*community.Report, error) {
	target := strings.TrimSpace(in.Target)
	reason := strings.TrimSpace(in.Reason)
	switch {
	case target == "":
		return nil, core.NewValidationError("target", "must not be empty")
	case utf8.RuneCountInString(target) > maxTargetLength:
		return nil, core.NewValidationError("target", fmt.Sprintf("must be at most %d characters", maxTargetLength))
	case reason == "":
		return nil, core.NewValidationError("reason", "must not be empty")
	case utf8.RuneCountInString(reason) > maxReasonLength:
		return nil, core.NewValidationError("reason", fmt.Sprintf("must be at most %d characters", maxReasonLength))
	}

	report := &community.Report{
		ID:        core.NewID(),
		Reporter:  reporter.Email,
		Target:    target,
		Reason:    reason,
		Status:    community.ReportOpen,
		CreatedAt: s.now(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	s.logger.Info("[Community] report %s filed by %s", report.ID, reporter.Email)
	return report, nil
}

// ListReports returns reports with the given status for administrators
func (s *Service) ListReports(ctx context.Context, viewer account.Principal, status community.ReportStatus) ([]*community.Report, error) {
	if !viewer.IsAdmin() {
		return nil, core.ErrForbidden
	}
	switch status {
	case "", community.ReportOpen, community.ReportResolved:
	default:
		return nil, core.NewValidationError("status", "must be open or resolved")
	}
	reports, err := s.reports.List(ctx, status)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []*community.Report{}
	}
	return reports, nil
}

// ResolveReport closes an open report
func (s *Service) ResolveReport(ctx context.Context, resolver account.Principal, id core.ID) (*community.Report, error) {
	if !resolver.IsAdmin() {
		return nil, core.ErrForbidden
	}
	if err := s.reports.Resolve(ctx, id, resolver.Email, s.now()); err != nil {
		return nil, err
	}
	return s.reports.Get(ctx, id)
}

func validateNotice(in NoticeInput) error {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return core.NewValidationError("title", "must not be empty")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return core.NewValidationError("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	case strings.TrimSpace(in.Body) == "":
		return core.NewValidationError("body", "must not be empty")
	}
	return nil
}
