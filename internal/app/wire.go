package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	httpx "github.com/yungbote/pianostudio-backend/internal/http"
	httpH "github.com/yungbote/pianostudio-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pianostudio-backend/internal/http/middleware"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/cache"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

// Deps are the external resources the services are built on.
type Deps struct {
	DB       *gorm.DB
	Bucket   gcp.BucketService
	Identity identity.Provider
	Cache    cache.Cache
	Metrics  *observability.Metrics
}

type Services struct {
	Owners    services.OwnerService
	Uploads   services.UploadService
	Catalog   services.CatalogService
	Content   services.ContentService
	Counters  services.CounterService
	Comments  services.CommentService
	Reconcile services.ReconcileService
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Upload  *httpH.UploadHandler
	Content *httpH.ContentHandler
	Comment *httpH.CommentHandler
	Session *httpH.SessionHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireRepos(db *gorm.DB, log *logger.Logger) repos.Repos {
	log.Info("Wiring repos...")
	return repos.New(db, log)
}

func wireServices(log *logger.Logger, cfg Config, deps Deps, rs repos.Repos) Services {
	log.Info("Wiring services...")

	var covers services.CoverService
	if cfg.CoverRenderEnabled {
		cs, err := services.NewCoverService(log, deps.Bucket)
		if err != nil {
			log.Warn("cover rendering disabled", "error", err)
		} else {
			covers = cs
		}
	}

	owners := services.NewOwnerService(log, deps.Identity, rs.Profiles, cfg.OwnerEmail)
	catalog := services.NewCatalogService(log, rs.Items, deps.Cache, cfg.CatalogCacheTTL, deps.Metrics)
	return Services{
		Owners:  owners,
		Uploads: services.NewUploadService(log, deps.Bucket, rs.UploadSlots, deps.Metrics, cfg.UploadSlotTTL),
		Catalog: catalog,
		Content: services.NewContentService(
			deps.DB,
			log,
			rs.Items,
			rs.UploadSlots,
			deps.Bucket,
			catalog,
			covers,
			deps.Metrics,
		),
		Counters:  services.NewCounterService(log, rs.Items, rs.Saved, catalog, deps.Metrics),
		Comments:  services.NewCommentService(log, rs.Comments, rs.Items, rs.Profiles, owners),
		Reconcile: services.NewReconcileService(log, rs.UploadSlots, rs.Items, deps.Bucket, deps.Metrics, cfg.UploadOrphanGrace),
	}
}

func wireHandlers(log *logger.Logger, cfg Config, deps Deps, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(healthProbes(deps)),
		Upload:  httpH.NewUploadHandler(log, svc.Uploads, svc.Content),
		Content: httpH.NewContentHandler(log, svc.Catalog, svc.Counters, svc.Content),
		Comment: httpH.NewCommentHandler(log, svc.Comments),
		Session: httpH.NewSessionHandler(log, svc.Owners, httpH.PublicConfig{
			IdentityURL:     cfg.Identity.URL,
			IdentityAnonKey: cfg.Identity.AnonKey,
			OwnerEmail:      cfg.PublicOwnerEmail,
		}),
	}
}

func wireMiddleware(log *logger.Logger, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, svc.Owners),
	}
}

func routerConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) httpx.RouterConfig {
	return httpx.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: mw.Auth,
		UploadHandler:  h.Upload,
		ContentHandler: h.Content,
		CommentHandler: h.Comment,
		SessionHandler: h.Session,
		HealthHandler:  h.Health,
	}
}

func healthProbes(deps Deps) map[string]httpH.Probe {
	probes := map[string]httpH.Probe{}
	if deps.DB != nil {
		probes["db"] = func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if p, ok := deps.Cache.(cache.Pinger); ok {
		probes["cache"] = p.Ping
	}
	return probes
}
