package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phone8ez/internal"
	"phone8ez/internal/config"
	"phone8ez/internal/container"
	apperrors "phone8ez/internal/errors"
	"phone8ez/internal/migration"
	"phone8ez/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// initDatabase connects to PostgreSQL, migrates the schema and seeds administrators
func initDatabase(ctx context.Context, appConfig *config.Config, logger *internal.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", appConfig.Database.URL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithCode(apperrors.CodeDatabaseError, err), "failed to connect to database")
	}

	migrator := migration.NewRunner(logger)
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "database migration failed")
	}
	if err := migrator.SeedAdmins(ctx, db, appConfig.Auth.AdminEmails); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "seeding administrators failed")
	}
	return db, nil
}

func main() {
	logger := internal.DefaultLogger
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	if err := run(appConfig, logger); err != nil {
		logger.Error("Phone8ez stopped: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(appConfig *config.Config, logger *internal.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(ctx, appConfig, logger)
	if err != nil {
		return err
	}

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		db.Close()
		return err
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.InitWithDatabase(db); err != nil {
		return err
	}

	opts, err := appContainer.ServerOptions()
	if err != nil {
		return err
	}
	server := ui.NewServer(appContainer.ServerDeps(), opts)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appContainer.Workspaces.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return server.Start(":" + appConfig.Server.Port)
	})

	var ops *http.Server
	if appConfig.Ops.Enabled {
		ops = &http.Server{
			Addr:              ":" + appConfig.Ops.Port,
			Handler:           ui.NewOpsRouter(appContainer.HealthChecks()),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("Ops server (metrics, health, pprof) listening on :%s", appConfig.Ops.Port)
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if ops != nil {
			if err := ops.Shutdown(shutdownCtx); err != nil {
				logger.Warn("ops server shutdown: %v", err)
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
