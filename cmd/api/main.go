package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/cache"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/catalog"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/config"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/middleware"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/player"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/selection"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/storage"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/tracing"
)

// limiterIdle is how long a client's rate limit bucket survives without requests
const limiterIdle = 10 * time.Minute

func main() {
	// Load configuration; an unset CONFIG_PATH means defaults plus environment
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	closer, err := tracing.Init(cfg.Tracing)
	if err != nil {
		logger.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer closer.Close()

	// Object storage is only needed when the catalog is published there
	var stor *storage.Storage
	if cfg.Storage.Enabled {
		stor, err = storage.New(cfg.Storage)
		if err != nil {
			logger.Fatalf("Failed to initialize storage: %v", err)
		}
	}

	// Background sweeps stop when the server shuts down
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var (
		store selection.Store
		rc    *cache.Cache
	)
	if cfg.Redis.Enabled {
		rc, err = cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rc.Close()
		store = selection.NewRedisStore(rc, cfg.Selection.TTL)
	} else {
		mem := selection.NewMemoryStore(cfg.Selection.TTL)
		mem.StartPruning(bgCtx, cfg.Selection.CleanupInterval)
		store = mem
	}

	builder := player.NewBuilder(cfg.Player.EmbedBaseURL)
	loader := buildLoader(cfg.Catalog, stor, logger)

	videos := catalog.New(nil)
	n := loader.Refresh(context.Background(), videos)
	logger.Infof("Catalog ready with %d videos", n)

	api := &API{
		catalog:  videos,
		loader:   loader,
		selector: selection.NewService(store, builder),
		player:   builder,
		cache:    rc,
		logger:   logger,
		title:    cfg.App.Title,
	}

	gin.SetMode(gin.ReleaseMode)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiter.StartCleanup(bgCtx, cfg.Selection.CleanupInterval, limiterIdle)
	router := setupRouter(api, limiter)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server stopped", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		_ = metricsServer.Shutdown(ctx)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithErr("Server forced to shutdown", err)
	}

	logger.Info("Server stopped")
}

// buildLoader picks the primary source from configuration. Object storage
// wins over the remote URL when both are set.
func buildLoader(cfg config.CatalogConfig, stor *storage.Storage, logger *logging.Logger) *catalog.Loader {
	var primary catalog.Source
	switch {
	case cfg.RemoteObject != "" && stor != nil:
		primary = catalog.NewObjectSource(stor, cfg.RemoteObject)
	case cfg.RemoteURL != "":
		primary = catalog.NewHTTPSource(cfg.RemoteURL, &http.Client{Timeout: cfg.FetchTimeout})
	}

	return catalog.NewLoader(primary, catalog.NewFileSource(cfg.LocalPath), cfg.Format, logger)
}
