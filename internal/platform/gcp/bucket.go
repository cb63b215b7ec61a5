package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

// BucketService fronts the single content bucket.
type BucketService interface {
	BucketName() string
	// SignedUploadURL returns a URL accepting exactly one PUT of key until expires.
	SignedUploadURL(ctx context.Context, key, contentType string, expires time.Time) (string, error)
	UploadFile(dbc dbctx.Context, key string, file io.Reader, contentType string) error
	// DeleteFile treats a missing object as success.
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
	// KeyFromPublicURL reverses GetPublicURL for objects in this bucket.
	KeyFromPublicURL(raw string) (string, bool)
	EnsureBucket(ctx context.Context) (bool, error)
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           ObjectStorageConfig
}

func NewBucketService(log *logger.Logger, cfg ObjectStorageConfig) (BucketService, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")

	stClient, err := newStorageClientForMode(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
		"bucket", cfg.Bucket,
		"cdn_domain", cfg.CDNDomain,
	)
	return &bucketService{log: serviceLog, storageClient: stClient, cfg: cfg}, nil
}

func newStorageClientForMode(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		return storage.NewClient(ctx, clientOptions()...)
	case ObjectStorageModeGCSEmulator:
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
}

func (bs *bucketService) BucketName() string { return bs.cfg.Bucket }

func (bs *bucketService) Close() error {
	if bs.storageClient == nil {
		return nil
	}
	return bs.storageClient.Close()
}

func (bs *bucketService) SignedUploadURL(ctx context.Context, key, contentType string, expires time.Time) (string, error) {
	key = cleanKey(key)
	if key == "" {
		return "", errors.New("empty object key")
	}
	if bs.cfg.IsEmulatorMode() {
		// fake-gcs-server accepts unsigned PUTs on the XML-style object path.
		return fmt.Sprintf("%s/%s/%s", bs.cfg.EmulatorHost, url.PathEscape(bs.cfg.Bucket), escapeKey(key)), nil
	}
	u, err := bs.storageClient.Bucket(bs.cfg.Bucket).SignedURL(key, signedPutOptions(bs.cfg, contentType, expires))
	if err != nil {
		return "", fmt.Errorf("sign upload url for %q: %w", key, err)
	}
	return u, nil
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, key string, file io.Reader, contentType string) error {
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.cfg.Bucket).Object(cleanKey(key)).NewWriter(ctx)
	if contentType == "" {
		contentType = ContentTypeForKey(key)
	}
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := bs.storageClient.Bucket(bs.cfg.Bucket).Object(cleanKey(key)).Delete(ctx)
	if err == nil || errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.cfg.Bucket, err)
}

func (bs *bucketService) EnsureBucket(ctx context.Context) (bool, error) {
	bkt := bs.storageClient.Bucket(bs.cfg.Bucket)
	_, err := bkt.Attrs(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return false, fmt.Errorf("bucket attrs: %w", err)
	}
	if bs.cfg.ProjectID == "" && !bs.cfg.IsEmulatorMode() {
		return false, errors.New("GCP_PROJECT_ID is required to create the content bucket")
	}
	if err := bkt.Create(ctx, bs.cfg.ProjectID, &storage.BucketAttrs{
		UniformBucketLevelAccess: storage.UniformBucketLevelAccess{Enabled: true},
	}); err != nil {
		return false, fmt.Errorf("create bucket %q: %w", bs.cfg.Bucket, err)
	}
	if bs.cfg.IsEmulatorMode() {
		return true, nil
	}
	// Assets are served directly, so objects are world-readable.
	policy, err := bkt.IAM().Policy(ctx)
	if err != nil {
		return true, fmt.Errorf("read bucket policy: %w", err)
	}
	policy.Add("allUsers", "roles/storage.objectViewer")
	if err := bkt.IAM().SetPolicy(ctx, policy); err != nil {
		return true, fmt.Errorf("make bucket public: %w", err)
	}
	return true, nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	key = cleanKey(key)
	if bs.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cfg.CDNDomain, key)
	}
	if bs.cfg.IsEmulatorMode() {
		base := bs.cfg.PublicBaseURL
		if base == "" {
			base = bs.cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bs.cfg.Bucket), url.PathEscape(key))
	}
	if bs.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.cfg.PublicBaseURL, bs.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.cfg.Bucket, key)
}

func (bs *bucketService) KeyFromPublicURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if bs.cfg.IsEmulatorMode() {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false
		}
		prefix := "/storage/v1/b/" + bs.cfg.Bucket + "/o/"
		if !strings.HasPrefix(u.Path, prefix) {
			return "", false
		}
		key := cleanKey(strings.TrimPrefix(u.Path, prefix))
		return key, key != ""
	}
	var prefixes []string
	if bs.cfg.CDNDomain != "" {
		prefixes = append(prefixes, "https://"+bs.cfg.CDNDomain+"/")
	}
	if bs.cfg.PublicBaseURL != "" {
		prefixes = append(prefixes, bs.cfg.PublicBaseURL+"/"+bs.cfg.Bucket+"/")
	}
	prefixes = append(prefixes, "https://storage.googleapis.com/"+bs.cfg.Bucket+"/")
	for _, p := range prefixes {
		if strings.HasPrefix(raw, p) {
			key := raw[len(p):]
			if i := strings.IndexAny(key, "?#"); i >= 0 {
				key = key[:i]
			}
			key = cleanKey(key)
			return key, key != ""
		}
	}
	return "", false
}

func cleanKey(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return ""
	}
	return path.Clean(key)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// ContentTypeForKey guesses the MIME type of the asset kinds the studio stores.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch path.Ext(s) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".pdf":
		return "application/pdf"
	case ".mp3":
		return "audio/mpeg"
	default:
		return ""
	}
}
