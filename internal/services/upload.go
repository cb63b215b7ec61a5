package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

// UploadPrefixes are the only top-level folders a slot may target.
var UploadPrefixes = []string{"videos", "sheet-music", "drills", "thumbnails"}

const defaultUploadSlotTTL = 2 * time.Hour

// Slot is a single-use credential for one object write.
type Slot struct {
	SignedURL   string    `json:"signedUrl"`
	Token       string    `json:"token"`
	Path        string    `json:"path"`
	PublicURL   string    `json:"publicUrl"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type UploadService interface {
	RequestSlot(ctx context.Context, requestedPath, contentType string) (*Slot, error)
}

type uploadService struct {
	log      *logger.Logger
	bucket   gcp.BucketService
	slotRepo repos.UploadSlotRepo
	metrics  *observability.Metrics
	ttl      time.Duration
	now      func() time.Time
}

func NewUploadService(log *logger.Logger, bucket gcp.BucketService, slotRepo repos.UploadSlotRepo, metrics *observability.Metrics, ttl time.Duration) UploadService {
	if ttl <= 0 {
		ttl = defaultUploadSlotTTL
	}
	return &uploadService{
		log:      log.With("service", "UploadService"),
		bucket:   bucket,
		slotRepo: slotRepo,
		metrics:  metrics,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *uploadService) RequestSlot(ctx context.Context, requestedPath, contentType string) (*Slot, error) {
	prefix, ext, err := splitRequestedPath(requestedPath)
	if err != nil {
		s.metrics.IncUploadSlot("invalid", "rejected")
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "upload.request_slot", attribute.String("upload.prefix", prefix))
	defer span.End()

	suffix, err := randomHex(8)
	if err != nil {
		return nil, apierr.Upstream("slot_entropy_failed", err)
	}
	now := s.now()
	key := fmt.Sprintf("%s/%d-%s%s", prefix, now.UnixMilli(), suffix, ext)

	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = gcp.ContentTypeForKey(key)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	expiresAt := now.Add(s.ttl)

	signedURL, err := s.bucket.SignedUploadURL(ctx, key, contentType, expiresAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sign")
		s.metrics.IncUploadSlot(prefix, "error")
		s.log.Error("sign upload url failed", "path", key, "error", err)
		return nil, apierr.Upstream("signed_url_failed", fmt.Errorf("create signed upload url: %w", err))
	}

	slot, err := s.slotRepo.Create(ctx, nil, &types.UploadSlot{
		Path:        key,
		PublicURL:   s.bucket.GetPublicURL(key),
		Prefix:      prefix,
		ContentType: contentType,
		Status:      content.SlotStatusPending,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stage")
		s.metrics.IncUploadSlot(prefix, "error")
		s.log.Error("stage upload slot failed", "path", key, "error", err)
		return nil, storeError("slot_stage_failed", err)
	}

	s.metrics.IncUploadSlot(prefix, "issued")
	s.log.Info("upload slot issued", "path", key, "slot_id", slot.ID, "expires_at", expiresAt)
	return &Slot{
		SignedURL:   signedURL,
		Token:       slot.ID.String(),
		Path:        key,
		PublicURL:   slot.PublicURL,
		ContentType: contentType,
		ExpiresAt:   expiresAt,
	}, nil
}

// splitRequestedPath validates the caller's path and returns its allowed
// prefix plus a sanitised extension (with dot). Nothing else survives.
func splitRequestedPath(requested string) (string, string, error) {
	p := strings.TrimLeft(strings.TrimSpace(strings.ReplaceAll(requested, `\`, "/")), "/")
	if p == "" {
		return "", "", apierr.Validation("path required")
	}
	if strings.Contains(p, "..") {
		return "", "", apierr.Validation("invalid path")
	}
	first, rest, found := strings.Cut(p, "/")
	if !found || strings.TrimSpace(rest) == "" {
		return "", "", apierr.Validation("path must be <prefix>/<file name>")
	}
	allowed := false
	for _, prefix := range UploadPrefixes {
		if first == prefix {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", "", apierr.Validation(fmt.Sprintf("path prefix must be one of %s", strings.Join(UploadPrefixes, ", ")))
	}
	return first, sanitizeExt(path.Ext(rest)), nil
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" || len(clean) > 8 {
		return ".bin"
	}
	return "." + clean
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
