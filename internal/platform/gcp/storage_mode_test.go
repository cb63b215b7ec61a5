package gcp

import (
	"errors"
	"testing"
)

func clearStorageEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OBJECT_STORAGE_MODE",
		"STORAGE_EMULATOR_HOST",
		"OBJECT_STORAGE_PUBLIC_BASE_URL",
		"CONTENT_GCS_BUCKET_NAME",
		"CONTENT_CDN_DOMAIN",
	} {
		t.Setenv(k, "")
	}
}

func TestResolveObjectStorageConfigFromEnvDefaultGCS(t *testing.T) {
	clearStorageEnv(t)
	t.Setenv("CONTENT_GCS_BUCKET_NAME", "content")

	cfg, err := ResolveObjectStorageConfigFromEnv(ObjectStorageConfig{})
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != ObjectStorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeGCS, cfg.Mode)
	}
	if cfg.Bucket != "content" {
		t.Fatalf("bucket: got=%q", cfg.Bucket)
	}
}

func TestResolveObjectStorageConfigFromEnvEmulatorFallback(t *testing.T) {
	clearStorageEnv(t)
	t.Setenv("CONTENT_GCS_BUCKET_NAME", "content")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443/")

	cfg, err := ResolveObjectStorageConfigFromEnv(ObjectStorageConfig{})
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
	}
	if !cfg.IsEmulatorMode() {
		t.Fatalf("mode: want emulator got=%q", cfg.Mode)
	}
	if cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator host: got=%q", cfg.EmulatorHost)
	}
}

func TestResolveObjectStorageConfigFromEnvFileDefaults(t *testing.T) {
	clearStorageEnv(t)
	cfg, err := ResolveObjectStorageConfigFromEnv(ObjectStorageConfig{Bucket: "from-file", CDNDomain: "cdn.example.com/"})
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
	}
	if cfg.Bucket != "from-file" || cfg.CDNDomain != "cdn.example.com" {
		t.Fatalf("file defaults lost: %+v", cfg)
	}
}

func TestResolveObjectStorageConfigFromEnvErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		code ObjectStorageConfigErrorCode
	}{
		{"invalid mode", map[string]string{"OBJECT_STORAGE_MODE": "s3", "CONTENT_GCS_BUCKET_NAME": "c"}, ObjectStorageConfigErrorInvalidMode},
		{"missing bucket", map[string]string{}, ObjectStorageConfigErrorMissingBucket},
		{"missing emulator host", map[string]string{"OBJECT_STORAGE_MODE": "gcs_emulator", "CONTENT_GCS_BUCKET_NAME": "c"}, ObjectStorageConfigErrorMissingEmulatorHost},
		{"bad public base", map[string]string{"CONTENT_GCS_BUCKET_NAME": "c", "OBJECT_STORAGE_PUBLIC_BASE_URL": "localhost:4443"}, ObjectStorageConfigErrorInvalidURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearStorageEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := ResolveObjectStorageConfigFromEnv(ObjectStorageConfig{})
			var cfgErr *ObjectStorageConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ObjectStorageConfigError, got %v", err)
			}
			if cfgErr.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, cfgErr.Code)
			}
		})
	}
}
