package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

var newBucketService = gcp.NewBucketService

type StorageBootstrapErrorCode string

const (
	StorageBootstrapErrorInvalidConfig  StorageBootstrapErrorCode = "invalid_config"
	StorageBootstrapErrorMissingBucket  StorageBootstrapErrorCode = "missing_bucket"
	StorageBootstrapErrorMissingEmuHost StorageBootstrapErrorCode = "missing_emulator_host"
	StorageBootstrapErrorConnectFailed  StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code   StorageBootstrapErrorCode
	Mode   string
	Bucket string
	Cause  error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q bucket=%q): %v",
		e.Code,
		e.Mode,
		e.Bucket,
		e.Cause,
	)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func resolveBucketService(log *logger.Logger, cfg gcp.ObjectStorageConfig) (gcp.BucketService, error) {
	log.Info(
		"Selecting object storage provider",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
	)
	bucket, err := newBucketService(log, cfg)
	if err != nil {
		classified := classifyStorageBootstrapError(cfg, err)
		log.Error(
			"Object storage bootstrap failed",
			"mode", cfg.Mode,
			"bucket", cfg.Bucket,
			"error_code", storageBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return bucket, nil
}

func classifyStorageBootstrapError(cfg gcp.ObjectStorageConfig, err error) error {
	code := StorageBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ObjectStorageConfigErrorMissingBucket:
			code = StorageBootstrapErrorMissingBucket
		case gcp.ObjectStorageConfigErrorMissingEmulatorHost:
			code = StorageBootstrapErrorMissingEmuHost
		default:
			code = StorageBootstrapErrorInvalidConfig
		}
	}
	return &StorageBootstrapError{
		Code:   code,
		Mode:   string(cfg.Mode),
		Bucket: cfg.Bucket,
		Cause:  err,
	}
}

func storageBootstrapErrorCode(err error) StorageBootstrapErrorCode {
	var bootstrapErr *StorageBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageBootstrapErrorConnectFailed
}
