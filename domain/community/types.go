package community

import (
	"time"

	"phone8ez/domain/core"
)

// Notice is an announcement written by an administrator
type Notice struct {
	ID        core.ID    `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Body      string     `json:"body" db:"body"`
	BodyHTML  string     `json:"body_html,omitempty" db:"-"`
	Pinned    bool       `json:"pinned" db:"pinned"`
	Author    core.Email `json:"author" db:"author"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// ReportStatus tracks moderation of a report
type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportResolved ReportStatus = "resolved"
)

// Report is a user complaint about a post, comment or pricing entry
type Report struct {
	ID         core.ID      `json:"id" db:"id"`
	Reporter   core.Email   `json:"reporter" db:"reporter"`
	Target     string       `json:"target" db:"target"`
	Reason     string       `json:"reason" db:"reason"`
	Status     ReportStatus `json:"status" db:"status"`
	ResolvedBy core.Email   `json:"resolved_by,omitempty" db:"resolved_by"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty" db:"resolved_at"`
}
