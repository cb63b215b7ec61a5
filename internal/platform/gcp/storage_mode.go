package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/pianostudio-backend/internal/platform/envutil"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

// ObjectStorageConfig describes the single content bucket and how to reach it.
type ObjectStorageConfig struct {
	Mode          ObjectStorageMode `yaml:"mode"`
	EmulatorHost  string            `yaml:"emulator_host"`
	PublicBaseURL string            `yaml:"public_base_url"`
	Bucket        string            `yaml:"bucket"`
	CDNDomain     string            `yaml:"cdn_domain"`
	ProjectID     string            `yaml:"project_id"`
	// SignerEmail and SignerPrivateKey override the credentials used to sign
	// upload URLs. Left empty, the client derives them from its credentials.
	SignerEmail      string `yaml:"signer_email"`
	SignerPrivateKey string `yaml:"-"`
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingBucket       ObjectStorageConfigErrorCode = "missing_bucket"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidURL          ObjectStorageConfigErrorCode = "invalid_url"
)

type ObjectStorageConfigError struct {
	Code  ObjectStorageConfigErrorCode
	Field string
	Value string
	Cause error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", e.Value, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorMissingBucket:
		return "missing env var CONTENT_GCS_BUCKET_NAME"
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidURL:
		return fmt.Sprintf("invalid %s=%q; expected absolute URL like http://fake-gcs:4443", e.Field, e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageConfigFromEnv overlays environment variables on base.
func ResolveObjectStorageConfigFromEnv(base ObjectStorageConfig) (ObjectStorageConfig, error) {
	cfg := base
	cfg.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
	cfg.PublicBaseURL = envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.Bucket = envutil.String("CONTENT_GCS_BUCKET_NAME", cfg.Bucket)
	cfg.CDNDomain = envutil.String("CONTENT_CDN_DOMAIN", cfg.CDNDomain)
	cfg.ProjectID = envutil.String("GCP_PROJECT_ID", cfg.ProjectID)
	cfg.SignerEmail = envutil.String("GCS_SIGNER_EMAIL", cfg.SignerEmail)
	cfg.SignerPrivateKey = envutil.String("GCS_SIGNER_PRIVATE_KEY", cfg.SignerPrivateKey)

	rawMode := envutil.String("OBJECT_STORAGE_MODE", string(cfg.Mode))
	switch mode := ObjectStorageMode(strings.ToLower(rawMode)); mode {
	case "":
		cfg.Mode = ObjectStorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Value: rawMode}
	}

	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return cfg, err
	}
	cfg.EmulatorHost = strings.TrimRight(cfg.EmulatorHost, "/")
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.CDNDomain = strings.Trim(cfg.CDNDomain, "/")
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if cfg.Mode != ObjectStorageModeGCS && cfg.Mode != ObjectStorageModeGCSEmulator {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket}
	}
	if cfg.IsEmulatorMode() {
		if cfg.EmulatorHost == "" {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost}
		}
		if err := validateAbsoluteURL("STORAGE_EMULATOR_HOST", cfg.EmulatorHost); err != nil {
			return err
		}
	}
	if cfg.PublicBaseURL != "" {
		if err := validateAbsoluteURL("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.PublicBaseURL); err != nil {
			return err
		}
	}
	return nil
}

func validateAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ObjectStorageConfigError{
			Code:  ObjectStorageConfigErrorInvalidURL,
			Field: field,
			Value: raw,
			Cause: err,
		}
	}
	return nil
}
