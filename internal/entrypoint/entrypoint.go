package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mrlokans/bookworm/internal/auth"
	"github.com/mrlokans/bookworm/internal/catalog"
	"github.com/mrlokans/bookworm/internal/config"
	"github.com/mrlokans/bookworm/internal/covers"
	"github.com/mrlokans/bookworm/internal/database"
	http_controllers "github.com/mrlokans/bookworm/internal/http"
	"github.com/mrlokans/bookworm/internal/logger"
	"github.com/mrlokans/bookworm/internal/metrics"
	"github.com/mrlokans/bookworm/internal/notify"
	"github.com/mrlokans/bookworm/internal/reviews"
	"github.com/mrlokans/bookworm/internal/scheduler"
	"github.com/mrlokans/bookworm/internal/store"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains it. The
// shutdown callback runs before the server is torn down so in-flight
// requests can still observe a consistent catalog.
func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info("starting server", zap.String("host", cfg.HTTP.Host), zap.Int32("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}

	log.Info("server exited")
}

// Run wires the whole application together from configuration and blocks
// until shutdown.
func Run(cfg *config.Config, version string) {
	log := logger.New("bookworm", cfg.Log.Level)
	defer log.Sync()

	log.Info("starting BookWorm", zap.String("version", version))

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("error closing database", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	recorder := notify.NewRecorder(50)
	notifier := notify.Multi{recorder, notify.NewLogger(log)}

	catalogStore := store.NewGormStore(db.DB, log)
	fetcher := catalog.NewFetcher(catalogStore, notifier, m, log)

	ctrlOpts := catalog.ControllerOptions{
		RetryAttempts: cfg.Catalog.RetryAttempts,
		RetryDelay:    cfg.Catalog.RetryDelay,
		WatchdogDelay: cfg.Catalog.WatchdogDelay,
	}

	// Each subject gets its own controller so their refetch tokens never
	// interfere.
	books := catalog.NewController("books",
		func(ctx context.Context) ([]catalog.BookRecord, catalog.Source, error) {
			records, source := fetcher.FetchBooks(ctx)
			return records, source, nil
		}, notifier, m, log, ctrlOpts)
	defer books.Close()

	authors := catalog.NewController("authors",
		func(ctx context.Context) ([]catalog.AuthorRecord, catalog.Source, error) {
			records, source := fetcher.FetchAuthors(ctx)
			return records, source, nil
		}, notifier, m, log, ctrlOpts)
	defer authors.Close()

	reviewService := reviews.NewService(catalogStore, log)

	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatal("failed to get SQL DB for sessions", zap.Error(err))
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatal("failed to initialize session manager", zap.Error(err))
	}

	csrfSecret := csrfSecretFromConfig(cfg, log)

	coverCacheDir := filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
	coverCache, err := covers.NewCache(coverCacheDir)
	if err != nil {
		log.Warn("failed to initialize cover cache", zap.Error(err))
	} else {
		log.Info("cover cache initialized", zap.String("dir", coverCacheDir))
	}

	var coversController *http_controllers.CoversController
	if coverCache != nil {
		coversController = http_controllers.NewCoversController(coverCache)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:        http_controllers.NewCatalogController(books, authors, recorder),
		Reviews:        http_controllers.NewReviewsController(reviewService, notifier),
		Health:         http_controllers.NewHealthController(db, version),
		Covers:         coversController,
		AuthController: auth.NewController(authService, sessionManager),
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Registry:       registry,
	})

	// Optional periodic cache warming: a silent invalidate per subject on
	// the configured cron schedule.
	var refreshScheduler *scheduler.CatalogRefresh
	if cfg.Catalog.RefreshEnabled {
		refreshScheduler = scheduler.NewCatalogRefresh(cfg.Catalog.RefreshSchedule, log, books, authors)
		if err := refreshScheduler.Start(); err != nil {
			log.Fatal("failed to start catalog refresh", zap.Error(err))
		}
	}

	onShutdown := func(ctx context.Context) {
		if refreshScheduler != nil {
			refreshScheduler.Stop()
		}
		books.Close()
		authors.Close()
	}

	Serve(router, cfg, log, onShutdown)
}

// csrfSecretFromConfig decodes the configured CSRF key, or generates an
// ephemeral one when none is set. Generated keys do not survive restarts,
// so in-flight forms are invalidated by a redeploy.
func csrfSecretFromConfig(cfg *config.Config, log *zap.Logger) []byte {
	if cfg.Auth.CSRFKey != "" {
		if secret, err := hex.DecodeString(cfg.Auth.CSRFKey); err == nil {
			return secret
		}
		return []byte(cfg.Auth.CSRFKey)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatal("failed to generate CSRF secret", zap.Error(err))
	}
	log.Info("generated CSRF secret (set AUTH_CSRF_KEY to persist)")
	return secret
}
