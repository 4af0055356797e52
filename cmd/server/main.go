package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"homesearch/internal/catalog"
	"homesearch/internal/config"
	"homesearch/internal/handler"
	"homesearch/internal/logger"
	"homesearch/internal/repository"
	"homesearch/internal/service"
	"homesearch/internal/translator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// store is what the server needs from either backend.
type store interface {
	service.PropertyRepository
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("homesearch starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.GinMode)

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	tr := translator.New(cat)
	log.Info("catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("locations", len(cat.Locations())),
		zap.Int("property_types", len(cat.PropertyTypes())),
		zap.Int("features", len(cat.Features())),
	)

	repo, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	var cache service.ResultCache
	if cfg.Redis.Enabled {
		rc, err := repository.NewResultCache(ctx, repository.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return err
		}
		defer rc.Close()
		cache = rc
		log.Info("result cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	searchService := service.NewSearchService(repo, tr, cache, service.Options{
		DefaultLimit:        cfg.Search.DefaultLimit,
		MaxLimit:            cfg.Search.MaxLimit,
		EmbeddingDimensions: cfg.Ingest.EmbeddingDimensions,
		MaxBatchSize:        cfg.Ingest.MaxBatchSize,
	}, log)

	router := handler.NewRouter(handler.RouterConfig{
		Service: searchService,
		Logger:  log,
		Build: handler.BuildInfo{
			Version:   Version,
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: cfg.Server.AllowedMethods,
		AllowedHeaders: cfg.Server.AllowedHeaders,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store, error) {
	switch cfg.Store.Driver {
	case "memory":
		repo := repository.NewMemoryRepository()
		if cfg.Store.SeedFile != "" {
			n, err := repo.LoadSeedFile(ctx, cfg.Store.SeedFile)
			if err != nil {
				return nil, err
			}
			log.Info("memory store seeded", zap.String("file", cfg.Store.SeedFile), zap.Int("properties", n))
		}
		return repo, nil
	default:
		repo, err := repository.NewPostgresRepository(ctx, repository.PostgresOptions{
			DSN:                cfg.GetPostgreSQLDSN(),
			MaxConnections:     cfg.PostgreSQL.MaxConnections,
			MaxIdleConnections: cfg.PostgreSQL.MaxIdleConnections,
			ConnectAttempts:    uint(cfg.PostgreSQL.ConnectAttempts),
			ConnectDelay:       cfg.PostgreSQL.ConnectDelay,
		}, log)
		if err != nil {
			return nil, err
		}
		if cfg.PostgreSQL.AutoMigrate {
			if err := repo.EnsureSchema(ctx); err != nil {
				_ = repo.Close()
				return nil, err
			}
			log.Info("database schema ensured")
		}
		log.Info("connected to PostgreSQL")
		return repo, nil
	}
}
