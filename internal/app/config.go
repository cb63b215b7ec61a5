package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/pianostudio-backend/internal/data/db"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/cache"
	"github.com/yungbote/pianostudio-backend/internal/platform/envutil"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	Postgres db.PostgresConfig `yaml:"postgres"`

	// OwnerEmail always has owner rights, whatever the profiles table says.
	OwnerEmail string `yaml:"owner_email"`
	// PublicOwnerEmail is what browsers see; defaults to OwnerEmail.
	PublicOwnerEmail string `yaml:"public_owner_email"`

	Identity identity.Config        `yaml:"identity"`
	Storage  gcp.ObjectStorageConfig `yaml:"storage"`
	Redis    cache.RedisConfig       `yaml:"redis"`

	UploadSlotTTL     time.Duration `yaml:"upload_slot_ttl"`
	UploadOrphanGrace time.Duration `yaml:"upload_orphan_grace"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	CatalogCacheTTL   time.Duration `yaml:"catalog_cache_ttl"`

	CoverRenderEnabled bool     `yaml:"cover_render_enabled"`
	CORSOrigins        []string `yaml:"cors_allowed_origins"`

	Otel           observability.OtelConfig `yaml:"otel"`
	MetricsEnabled bool                     `yaml:"metrics_enabled"`
}

func defaultConfig() Config {
	return Config{
		Port:    "8080",
		LogMode: "development",
		Postgres: db.PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "pianostudio",
			SSLMode: "disable",
		},
		Identity:           identity.Config{Audience: "authenticated"},
		UploadSlotTTL:      2 * time.Hour,
		UploadOrphanGrace:  30 * time.Minute,
		ReconcileInterval:  15 * time.Minute,
		CatalogCacheTTL:    time.Minute,
		CoverRenderEnabled: true,
		Otel:               observability.OtelConfig{ServiceName: "pianostudio", SampleRatio: 0.1},
		MetricsEnabled:     true,
	}
}

// LoadConfig reads CONFIG_FILE (optional YAML) and then lets environment
// variables override whatever it set.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	cfg.Postgres.DSN = envutil.String("POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)

	cfg.OwnerEmail = strings.ToLower(envutil.String("OWNER_EMAIL", cfg.OwnerEmail))
	cfg.PublicOwnerEmail = envutil.String("PUBLIC_OWNER_EMAIL", cfg.PublicOwnerEmail)
	if cfg.PublicOwnerEmail == "" {
		cfg.PublicOwnerEmail = cfg.OwnerEmail
	}

	cfg.Identity.URL = strings.TrimRight(envutil.String("IDENTITY_URL", cfg.Identity.URL), "/")
	cfg.Identity.AnonKey = envutil.String("IDENTITY_ANON_KEY", cfg.Identity.AnonKey)
	cfg.Identity.JWTSecret = envutil.String("IDENTITY_JWT_SECRET", cfg.Identity.JWTSecret)
	cfg.Identity.Audience = envutil.String("IDENTITY_AUDIENCE", cfg.Identity.Audience)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)

	cfg.UploadSlotTTL = envutil.Duration("UPLOAD_SLOT_TTL", cfg.UploadSlotTTL)
	cfg.UploadOrphanGrace = envutil.Duration("UPLOAD_ORPHAN_GRACE", cfg.UploadOrphanGrace)
	cfg.ReconcileInterval = envutil.Duration("RECONCILE_INTERVAL", cfg.ReconcileInterval)
	cfg.CatalogCacheTTL = envutil.Duration("CATALOG_CACHE_TTL", cfg.CatalogCacheTTL)

	cfg.CoverRenderEnabled = envutil.Bool("COVER_RENDER_ENABLED", cfg.CoverRenderEnabled)
	if origins := envutil.List("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("DEPLOY_ENV", cfg.Otel.Environment)
	cfg.Otel.Version = envutil.String("APP_VERSION", cfg.Otel.Version)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	if h := observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")); h != nil {
		cfg.Otel.Headers = h
	}
	if raw := envutil.String("OTEL_SAMPLER_RATIO", ""); raw != "" {
		if ratio, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Otel.SampleRatio = ratio
		}
	}
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)

	return cfg, nil
}

// ResolveStorage overlays the storage env vars and validates the result.
// Commands that never touch the bucket can skip it.
func (c Config) ResolveStorage() (gcp.ObjectStorageConfig, error) {
	storage, err := gcp.ResolveObjectStorageConfigFromEnv(c.Storage)
	if err != nil {
		return storage, fmt.Errorf("object storage config: %w", err)
	}
	return storage, nil
}

// Validate checks what the API server cannot start without.
func (c Config) Validate() error {
	if c.OwnerEmail == "" {
		return fmt.Errorf("missing OWNER_EMAIL")
	}
	if c.Identity.JWTSecret == "" && c.Identity.URL == "" {
		return fmt.Errorf("identity provider requires IDENTITY_JWT_SECRET or IDENTITY_URL")
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
