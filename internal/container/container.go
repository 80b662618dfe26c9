package container

import (
	"context"
	"fmt"

	"phone8ez/adapters/excel"
	"phone8ez/adapters/postgres"
	"phone8ez/internal"
	"phone8ez/internal/billing"
	"phone8ez/internal/community"
	"phone8ez/internal/config"
	"phone8ez/internal/exchange"
	"phone8ez/internal/identity"
	"phone8ez/internal/sheet"
	"phone8ez/internal/workspace"
	"phone8ez/ports"
	"phone8ez/ui"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	UserRepo         ports.UserRepository
	SubscriptionRepo ports.SubscriptionRepository
	NoticeRepo       ports.NoticeRepository
	ReportRepo       ports.ReportRepository

	// Dataset editing
	Workspaces *workspace.Registry
	Exchange   *exchange.Manager
	Ingester   *sheet.Ingester

	// Accounts and community
	Identity  identity.Provider
	Billing   *billing.Service
	Community *community.Service
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Container{Config: cfg, Logger: logger}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.initRepositories()
	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	c.Logger.Info("Container initialized successfully with database connection")
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = postgres.NewUserRepository(c.DB)
	c.SubscriptionRepo = postgres.NewSubscriptionRepository(c.DB)
	c.NoticeRepo = postgres.NewNoticeRepository(c.DB)
	c.ReportRepo = postgres.NewReportRepository(c.DB)
}

// initServices wires the in-memory editing services and the database-backed ones
func (c *Container) initServices() error {
	loc, err := c.Config.Exchange.Location()
	if err != nil {
		return err
	}

	c.Workspaces = workspace.NewRegistry(workspace.Config{
		HistoryLimit:  c.Config.History.Limit,
		IdleTTL:       c.Config.Workspace.IdleTTL,
		SweepInterval: c.Config.Workspace.SweepInterval,
	}, c.Logger)

	c.Exchange = exchange.NewManager(exchange.Config{
		FilePrefix: c.Config.Exchange.FilePrefix,
		Location:   loc,
		MaxBytes:   c.Config.Server.MaxUploadBytes(),
	}, exchange.WithLogger(c.Logger))

	c.Ingester = sheet.NewIngester(excel.NewReader(c.Logger), 0)

	c.Identity = identity.NewHeaderProvider(c.Config.Auth.EmailHeader, c.Config.Auth.AdminEmails, c.UserRepo, c.Logger)
	c.Billing = billing.NewService(c.SubscriptionRepo, c.Logger)
	c.Community = community.NewService(c.NoticeRepo, c.ReportRepo, c.Logger)
	return nil
}

// ServerDeps returns the dependencies the HTTP server routes to
func (c *Container) ServerDeps() ui.Deps {
	return ui.Deps{
		Identity:   c.Identity,
		Workspaces: c.Workspaces,
		Exchange:   c.Exchange,
		Ingester:   c.Ingester,
		Billing:    c.Billing,
		Community:  c.Community,
		Logger:     c.Logger,
	}
}

// ServerOptions returns the HTTP settings derived from configuration
func (c *Container) ServerOptions() (ui.Options, error) {
	mode, err := exchange.ParseMode(c.Config.Exchange.DefaultMode)
	if err != nil {
		return ui.Options{}, err
	}
	return ui.Options{
		DefaultMode:         mode,
		MaxUploadBytes:      c.Config.Server.MaxUploadBytes(),
		RequireSubscription: c.Config.Billing.RequireSubscription,
	}, nil
}

// HealthChecks returns the readiness probes for the ops server
func (c *Container) HealthChecks() map[string]ui.HealthCheck {
	return map[string]ui.HealthCheck{
		"database": func(ctx context.Context) error { return c.DB.PingContext(ctx) },
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Workspaces != nil {
		n := c.Workspaces.CloseAll()
		c.Logger.Info("[Container] closed %d workspaces", n)
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
