package ui

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"phone8ez/adapters/excel"
	"phone8ez/internal"
	"phone8ez/internal/billing"
	"phone8ez/internal/community"
	"phone8ez/internal/exchange"
	"phone8ez/internal/identity"
	"phone8ez/internal/sheet"
	"phone8ez/internal/workspace"

	"github.com/gin-gonic/gin"
)

// Options are the HTTP-facing settings taken from configuration
type Options struct {
	DefaultMode         exchange.Mode
	MaxUploadBytes      int64
	RequireSubscription bool
}

// Deps are the services the server routes requests to.
// Billing and Community may be nil; their routes are then not registered.
type Deps struct {
	Identity   identity.Provider
	Workspaces *workspace.Registry
	Exchange   *exchange.Manager
	Ingester   *sheet.Ingester
	Billing    *billing.Service
	Community  *community.Service
	Logger     *internal.Logger
}

// Server represents the web server for Phone8ez
type Server struct {
	router     *gin.Engine
	httpServer *http.Server

	identity   identity.Provider
	workspaces *workspace.Registry
	exchange   *exchange.Manager
	ingester   *sheet.Ingester
	billing    *billing.Service
	community  *community.Service
	logger     *internal.Logger
	opts       Options
}

// NewServer creates a new web server instance
func NewServer(deps Deps, opts Options) *Server {
	if deps.Logger == nil {
		deps.Logger = internal.NewNopLogger()
	}
	if deps.Ingester == nil {
		deps.Ingester = sheet.NewIngester(excel.NewReader(deps.Logger), 0)
	}
	if opts.DefaultMode == "" {
		opts.DefaultMode = exchange.ModeLocal
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}

	s := &Server{
		router:     gin.New(),
		identity:   deps.Identity,
		workspaces: deps.Workspaces,
		exchange:   deps.Exchange,
		ingester:   deps.Ingester,
		billing:    deps.Billing,
		community:  deps.Community,
		logger:     deps.Logger,
		opts:       opts,
	}
	s.router.MaxMultipartMemory = opts.MaxUploadBytes
	s.setupMiddleware()
	s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api", s.authChain())

	data := api.Group("", s.workspaceChain()...)
	data.GET("/datasets", s.handleListDatasets)
	data.POST("/datasets/sheets", s.handleUploadSheets)
	data.POST("/datasets/merge", s.handleMergeDatasets)
	data.GET("/datasets/export", s.handleExport)
	data.POST("/datasets/import", s.handleImport)
	data.PATCH("/datasets/:id", s.handleRenameDataset)
	data.DELETE("/datasets/:id", s.handleRemoveDataset)
	data.GET("/datasets/:id/summary", s.handleDatasetSummary)
	data.GET("/datasets/:id/xlsx", s.handleDatasetWorkbook)

	data.GET("/history", s.handleHistoryState)
	data.POST("/history/undo", s.handleUndo)
	data.POST("/history/redo", s.handleRedo)
	data.POST("/history/keys", s.handleHistoryKey)

	if s.community != nil {
		admin := identity.RequireAdmin()
		api.GET("/notices", s.handleListNotices)
		api.GET("/notices/:id", s.handleGetNotice)
		api.POST("/notices", admin, s.handleCreateNotice)
		api.PUT("/notices/:id", admin, s.handleUpdateNotice)
		api.DELETE("/notices/:id", admin, s.handleDeleteNotice)

		api.POST("/reports", s.handleCreateReport)
		api.GET("/reports", admin, s.handleListReports)
		api.POST("/reports/:id/resolve", admin, s.handleResolveReport)
	}

	if s.billing != nil {
		api.GET("/subscription", s.handleSubscriptionStatus)
		api.POST("/subscription", identity.RequireAdmin(), s.handleActivateSubscription)
		api.DELETE("/subscription", s.handleCancelSubscription)
	}
}

// Start serves HTTP on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("Starting Phone8ez on http://%s", ln.Addr())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
