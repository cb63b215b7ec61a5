package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	httpH "github.com/yungbote/pianostudio-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pianostudio-backend/internal/http/middleware"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	UploadHandler  *httpH.UploadHandler
	ContentHandler *httpH.ContentHandler
	CommentHandler *httpH.CommentHandler
	SessionHandler *httpH.SessionHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Session (public config + caller session)
	if cfg.SessionHandler != nil {
		api.GET("/public-config", cfg.SessionHandler.PublicConfig)
	}

	// Catalog (public reads and plays)
	if cfg.ContentHandler != nil {
		for _, category := range content.Categories {
			seg := "/" + category.PathSegment()
			api.GET(seg, cfg.ContentHandler.List(category))
			api.POST(seg+"/:id/play", cfg.ContentHandler.Play(category))
		}
		api.GET("/recent", cfg.ContentHandler.Recent)
	}

	// Comments (public read)
	if cfg.CommentHandler != nil {
		api.GET("/comments", cfg.CommentHandler.List)
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	user := api.Group("/")
	{
		user.Use(cfg.AuthMiddleware.RequireAuth())

		if cfg.SessionHandler != nil {
			user.GET("/session", cfg.SessionHandler.Session)
		}

		if cfg.ContentHandler != nil {
			for _, category := range content.Categories {
				if !category.Saveable() {
					continue
				}
				seg := "/" + category.PathSegment()
				user.POST(seg+"/:id/save", cfg.ContentHandler.Save(category))
				user.DELETE(seg+"/:id/save", cfg.ContentHandler.Unsave(category))
			}
			user.GET("/me/saved", cfg.ContentHandler.SavedIDs)
		}

		if cfg.CommentHandler != nil {
			user.POST("/comments", cfg.CommentHandler.Create)
			user.DELETE("/comments/:id", cfg.CommentHandler.Delete)
		}
	}

	owner := api.Group("/")
	{
		owner.Use(cfg.AuthMiddleware.RequireOwner())

		if cfg.UploadHandler != nil {
			owner.POST("/upload/signed-url", cfg.UploadHandler.SignedURL)
			owner.POST("/upload/video", cfg.UploadHandler.CreateVideo)
			owner.POST("/upload/sheet-music", cfg.UploadHandler.CreateSheetMusic)
			owner.POST("/upload/technique-drill", cfg.UploadHandler.CreateTechniqueDrill)
			owner.POST("/upload/beginner-plan", cfg.UploadHandler.CreateBeginnerPlan)
		}

		if cfg.ContentHandler != nil {
			for _, category := range content.Categories {
				owner.DELETE("/"+category.PathSegment()+"/:id", cfg.ContentHandler.Delete(category))
			}
		}
	}

	return r
}
