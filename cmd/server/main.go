package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-midea/postdir/internal/accounts"
	"github.com/anonto42/nano-midea/postdir/internal/directory"
	"github.com/anonto42/nano-midea/postdir/internal/models"
	"github.com/anonto42/nano-midea/postdir/internal/repositories"
	"github.com/anonto42/nano-midea/postdir/internal/router"
	"github.com/anonto42/nano-midea/postdir/internal/signup"
	"github.com/anonto42/nano-midea/postdir/pkg/config"
	"github.com/anonto42/nano-midea/postdir/pkg/firebase"
	"github.com/anonto42/nano-midea/postdir/pkg/logger"
	"github.com/anonto42/nano-midea/postdir/pkg/metrics"
	"github.com/anonto42/nano-midea/postdir/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zlog, err := logger.New(logger.Options{Level: cfg.LogLevel, Path: cfg.LogPath})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg, zlog)
	if err != nil {
		zlog.Error("Failed to initialize databases", zap.Error(err))
		return err
	}
	defer db.CloseDB()

	// Load the post directory once; it is read-only from here on
	dir, err := loadDirectory(ctx, cfg, db)
	if err != nil {
		zlog.Error("Failed to load post directory", zap.Error(err))
		return err
	}
	metrics.PostDirectorySize.Set(float64(dir.Len()))
	zlog.Info("Post directory loaded", zap.String("source", cfg.PostsSource), zap.Int("posts", dir.Len()))

	accountRepo, err := accountRepository(db)
	if err != nil {
		zlog.Error("Failed to initialize account store", zap.Error(err))
		return err
	}
	boundary, err := signUpBoundary(ctx, cfg, accountRepo, zlog)
	if err != nil {
		zlog.Error("Failed to initialize sign-up backend", zap.Error(err))
		return err
	}
	submitter := signup.NewSubmitter(boundary, signup.Options{Timeout: cfg.SignUpTimeout, Logger: zlog})

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, zlog)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Deps{
		Directory:           dir,
		Submitter:           submitter,
		Accounts:            accountRepo,
		SignUpRatePerMinute: cfg.SignUpRatePerMinute,
		MediaDir:            cfg.MediaDir,
		Log:                 zlog,
	})

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: metricsMux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		zlog.Info("Shutting down")
	case err = <-serverErr:
		zlog.Error("Server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		zlog.Error("Server shutdown failed", zap.Error(shutdownErr))
	}
	if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
		zlog.Error("Metrics server shutdown failed", zap.Error(shutdownErr))
	}
	return err
}

func loadDirectory(ctx context.Context, cfg *config.Config, db *config.DB) (*directory.Directory, error) {
	var source repositories.PostSource
	switch cfg.PostsSource {
	case config.PostsSourceFile:
		source = repositories.NewFilePostRepository(cfg.PostsFile)
	case config.PostsSourceMongo:
		source = repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
	default:
		source = repositories.NewFixturePostRepository()
	}

	records, err := source.LoadPosts(ctx)
	if err != nil {
		return nil, err
	}
	return directory.New(records)
}

// accountRepository stores accounts in Postgres when it is configured and
// in memory otherwise.
func accountRepository(db *config.DB) (repositories.AccountRepository, error) {
	if db.Postgres == nil {
		return repositories.NewMemoryAccountRepository(), nil
	}
	if err := db.Postgres.AutoMigrate(&models.Account{}); err != nil {
		return nil, fmt.Errorf("migrate accounts: %w", err)
	}
	return repositories.NewPostgresAccountRepository(db.Postgres), nil
}

func signUpBoundary(ctx context.Context, cfg *config.Config, accountRepo repositories.AccountRepository, zlog *zap.Logger) (signup.Boundary, error) {
	if cfg.SignUpBackend == config.SignUpBackendFirebase {
		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return accounts.NewFirebaseService(authClient, accountRepo, zlog), nil
	}
	return accounts.NewLocalService(accountRepo, 0), nil
}
