package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"phone8ez/domain/community"
	"phone8ez/domain/core"
	"phone8ez/ports"
)

// NoticeRepositoryImpl implements NoticeRepository for PostgreSQL
type NoticeRepositoryImpl struct {
	db *sqlx.DB
}

// NewNoticeRepository creates a new PostgreSQL notice repository
func NewNoticeRepository(db *sqlx.DB) ports.NoticeRepository {
	return &NoticeRepositoryImpl{db: db}
}

const noticeColumns = `id, title, body, pinned, author, created_at, updated_at`

// List returns notices, pinned first
func (r *NoticeRepositoryImpl) List(ctx context.Context, limit int) ([]*community.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices ORDER BY pinned DESC, created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var notices []*community.Notice
	if err := r.db.SelectContext(ctx, &notices, query, args...); err != nil {
		return nil, err
	}
	return notices, nil
}

// Get retrieves a notice by id
func (r *NoticeRepositoryImpl) Get(ctx context.Context, id core.ID) (*community.Notice, error) {
	var notice community.Notice
	err := r.db.GetContext(ctx, &notice, `SELECT `+noticeColumns+` FROM notices WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrNoticeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

// Create inserts a notice
func (r *NoticeRepositoryImpl) Create(ctx context.Context, notice *community.Notice) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO notices (id, title, body, pinned, author, created_at, updated_at)
		VALUES (:id, :title, :body, :pinned, :author, :created_at, :updated_at)
	`, notice)
	return err
}

// Update replaces a notice's editable fields
func (r *NoticeRepositoryImpl) Update(ctx context.Context, notice *community.Notice) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE notices
		SET title = :title, body = :body, pinned = :pinned, updated_at = :updated_at
		WHERE id = :id
	`, notice)
	if err != nil {
		return err
	}
	return requireRow(res, core.ErrNoticeNotFound, notice.ID.String())
}

// Delete removes a notice
func (r *NoticeRepositoryImpl) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, core.ErrNoticeNotFound, id.String())
}

// ReportRepositoryImpl implements ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

const reportColumns = `id, reporter, target, reason, status, COALESCE(resolved_by, '') AS resolved_by, created_at, resolved_at`

// Create inserts a report
func (r *ReportRepositoryImpl) Create(ctx context.Context, report *community.Report) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reports (id, reporter, target, reason, status, created_at)
		VALUES (:id, :reporter, :target, :reason, :status, :created_at)
	`, report)
	return err
}

// Get retrieves a report by id
func (r *ReportRepositoryImpl) Get(ctx context.Context, id core.ID) (*community.Report, error) {
	var report community.Report
	err := r.db.GetContext(ctx, &report, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns reports filtered by status
func (r *ReportRepositoryImpl) List(ctx context.Context, status community.ReportStatus) ([]*community.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at ASC"

	var reports []*community.Report
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, err
	}
	return reports, nil
}

// Resolve marks an open report resolved
func (r *ReportRepositoryImpl) Resolve(ctx context.Context, id core.ID, by core.Email, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND status = $5
	`, id, community.ReportResolved, by, at, community.ReportOpen)
	if err != nil {
		return err
	}
	return requireRow(res, core.ErrReportNotFound, id.String())
}
