package ports

import (
	"context"
	"time"

	"phone8ez/domain/community"
	"phone8ez/domain/core"
)

// NoticeRepository stores administrator announcements
type NoticeRepository interface {
	// List returns pinned notices first, then newest first
	List(ctx context.Context, limit int) ([]*community.Notice, error)
	Get(ctx context.Context, id core.ID) (*community.Notice, error)
	Create(ctx context.Context, notice *community.Notice) error
	Update(ctx context.Context, notice *community.Notice) error
	Delete(ctx context.Context, id core.ID) error
}

// ReportRepository stores user reports for moderation
type ReportRepository interface {
	Create(ctx context.Context, report *community.Report) error
	Get(ctx context.Context, id core.ID) (*community.Report, error)

	// List returns reports with the given status, oldest first. An empty
	// status lists every report.
	List(ctx context.Context, status community.ReportStatus) ([]*community.Report, error)

	// Resolve marks an open report resolved by the given administrator
	Resolve(ctx context.Context, id core.ID, by core.Email, at time.Time) error
}
