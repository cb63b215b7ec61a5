package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/pianostudio-backend/internal/data/db"
	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	httpx "github.com/yungbote/pianostudio-backend/internal/http"
	"github.com/yungbote/pianostudio-backend/internal/jobs/reconcile"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/cache"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Repos
	Services Services
	Server   *httpx.Server

	pg           *db.PostgresService
	bucket       gcp.BucketService
	cache        cache.Cache
	worker       *reconcile.Worker
	shutdownOtel func(context.Context) error
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDatabase connects to Postgres and migrates the schema.
func OpenDatabase(log *logger.Logger, cfg Config) (*db.PostgresService, error) {
	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	return pg, nil
}

// OpenBucket resolves the storage config and connects to the content bucket.
func OpenBucket(log *logger.Logger, cfg Config) (gcp.BucketService, error) {
	storageCfg, err := cfg.ResolveStorage()
	if err != nil {
		return nil, err
	}
	return resolveBucketService(log, storageCfg)
}

func openCache(log *logger.Logger, cfg Config) cache.Cache {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set; catalog cache disabled")
		return cache.Noop()
	}
	c, err := cache.NewRedis(log, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable; catalog cache disabled", "error", err)
		return cache.Noop()
	}
	return c
}

func New() (*App, error) {
	log, err := NewLogger()
	if err != nil {
		return nil, err
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	shutdownOtel := observability.InitOTel(context.Background(), log, cfg.Otel)

	pg, err := OpenDatabase(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	bucket, err := OpenBucket(log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	provider, err := identity.New(cfg.Identity)
	if err != nil {
		_ = pg.Close()
		_ = bucket.Close()
		log.Sync()
		return nil, fmt.Errorf("init identity provider: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics("studio")
	}

	deps := Deps{
		DB:       pg.DB(),
		Bucket:   bucket,
		Identity: provider,
		Cache:    openCache(log, cfg),
		Metrics:  metrics,
	}
	reposet := wireRepos(deps.DB, log)
	serviceset := wireServices(log, cfg, deps, reposet)
	handlerset := wireHandlers(log, cfg, deps, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := httpx.NewServer(routerConfig(log, cfg, metrics, handlerset, middleware))

	return &App{
		Log:          log,
		DB:           deps.DB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		pg:           pg,
		bucket:       bucket,
		cache:        deps.Cache,
		worker:       reconcile.NewWorker(log, serviceset.Reconcile, cfg.ReconcileInterval),
		shutdownOtel: shutdownOtel,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.worker != nil {
		a.worker.Start(ctx)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

// Close drains HTTP, stops the worker and releases connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("http shutdown", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
		a.worker.Wait()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.bucket != nil {
		_ = a.bucket.Close()
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.shutdownOtel != nil {
		_ = a.shutdownOtel(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
