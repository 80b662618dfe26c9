package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"phone8ez/internal"
	"phone8ez/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	logger  *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *internal.Logger) *MigrationRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MigrationRunner{
		version: "2.0.0",
		logger:  logger,
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Step is one named schema statement
type Step struct {
	Name string
	SQL  string
}

// Steps returns the ordered schema statements. Every statement is idempotent.
func Steps() []Step {
	return []Step{
		{"users table", `
			CREATE TABLE IF NOT EXISTS users (
				email VARCHAR(320) PRIMARY KEY,
				name VARCHAR(100) NOT NULL DEFAULT '',
				role VARCHAR(20) NOT NULL DEFAULT 'user',
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"subscriptions table", `
			CREATE TABLE IF NOT EXISTS subscriptions (
				user_email VARCHAR(320) PRIMARY KEY REFERENCES users(email) ON DELETE CASCADE,
				plan VARCHAR(50) NOT NULL,
				status VARCHAR(20) NOT NULL,
				current_period_end TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"notices table", `
			CREATE TABLE IF NOT EXISTS notices (
				id UUID PRIMARY KEY,
				title VARCHAR(200) NOT NULL,
				body TEXT NOT NULL,
				pinned BOOLEAN NOT NULL DEFAULT false,
				author VARCHAR(320) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"reports table", `
			CREATE TABLE IF NOT EXISTS reports (
				id UUID PRIMARY KEY,
				reporter VARCHAR(320) NOT NULL,
				target VARCHAR(500) NOT NULL,
				reason TEXT NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'open',
				resolved_by VARCHAR(320),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				resolved_at TIMESTAMP WITH TIME ZONE
			)`},
		{"notices index", "CREATE INDEX IF NOT EXISTS idx_notices_pinned_created ON notices(pinned DESC, created_at DESC)"},
		{"reports index", "CREATE INDEX IF NOT EXISTS idx_reports_status_created ON reports(status, created_at)"},
		{"subscriptions index", "CREATE INDEX IF NOT EXISTS idx_subscriptions_period_end ON subscriptions(current_period_end)"},
	}
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, s := range Steps() {
		if _, err := db.ExecContext(ctx, s.SQL); err != nil {
			return errors.Wrapf(err, "failed to create %s", s.Name)
		}
		r.logger.Debug("[Migration] applied %s", s.Name)
	}
	r.logger.Info("[Migration] schema at version %s", r.version)
	return nil
}

// SeedAdmins promotes the configured administrator emails, creating their
// user rows when missing
func (r *MigrationRunner) SeedAdmins(ctx context.Context, db *sqlx.DB, emails []string) error {
	for _, email := range emails {
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (email, role) VALUES ($1, 'admin')
			ON CONFLICT (email) DO UPDATE SET role = 'admin', updated_at = NOW()
		`, email)
		if err != nil {
			return errors.Wrapf(err, "failed to seed admin %s", email)
		}
	}
	return nil
}
