package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

const (
	defaultOrphanGrace  = 30 * time.Minute
	reconcileBatchLimit = 200
)

// ReconcileResult summarises one sweep over stale upload slots.
type ReconcileResult struct {
	Scanned int `json:"scanned"`
	Expired int `json:"expired"`
	// Adopted counts slots confirmed late because a row already uses their object.
	Adopted int `json:"adopted"`
	Failed  int `json:"failed"`
}

type ReconcileService interface {
	// Sweep deletes objects behind pending slots that outlived their grace
	// period and marks those slots expired. A slot whose object is referenced
	// by a content row is confirmed instead and its object kept.
	Sweep(ctx context.Context) (*ReconcileResult, error)
}

type reconcileService struct {
	log      *logger.Logger
	slotRepo repos.UploadSlotRepo
	itemRepo repos.ItemRepo
	bucket   gcp.BucketService
	metrics  *observability.Metrics
	grace    time.Duration
	now      func() time.Time
}

func NewReconcileService(log *logger.Logger, slotRepo repos.UploadSlotRepo, itemRepo repos.ItemRepo, bucket gcp.BucketService, metrics *observability.Metrics, grace time.Duration) ReconcileService {
	if grace < 0 {
		grace = defaultOrphanGrace
	}
	return &reconcileService{
		log:      log.With("service", "ReconcileService"),
		slotRepo: slotRepo,
		itemRepo: itemRepo,
		bucket:   bucket,
		metrics:  metrics,
		grace:    grace,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *reconcileService) Sweep(ctx context.Context) (*ReconcileResult, error) {
	ctx, span := observability.StartSpan(ctx, "uploads.reconcile")
	defer span.End()

	cutoff := s.now().Add(-s.grace)
	slots, err := s.slotRepo.ListStalePending(ctx, nil, cutoff, reconcileBatchLimit)
	if err != nil {
		s.metrics.ObserveReconcile("error", 0, 0)
		return nil, fmt.Errorf("list stale slots: %w", err)
	}

	res := &ReconcileResult{Scanned: len(slots)}
	expired := make([]uuid.UUID, 0, len(slots))
	for _, slot := range slots {
		if err := ctx.Err(); err != nil {
			break
		}
		ref, err := s.itemRepo.FindAssetRef(ctx, nil, slot.PublicURL, slot.Path)
		if err != nil {
			res.Failed++
			s.log.Warn("orphan reference check failed, keeping object", "path", slot.Path, "error", err)
			continue
		}
		if ref != nil {
			if _, err := s.slotRepo.Confirm(ctx, nil, slot.ID, ref.ItemID, s.now()); err != nil {
				res.Failed++
				s.log.Warn("late slot confirm failed", "path", slot.Path, "error", err)
				continue
			}
			res.Adopted++
			s.log.Info("upload slot adopted by existing row", "path", slot.Path, "category", ref.Category, "item_id", ref.ItemID)
			continue
		}
		if err := s.bucket.DeleteFile(ctx, slot.Path); err != nil {
			res.Failed++
			s.log.Warn("orphan delete failed", "path", slot.Path, "error", err)
			continue
		}
		expired = append(expired, slot.ID)
	}

	if len(expired) > 0 {
		n, err := s.slotRepo.MarkExpired(ctx, nil, expired)
		if err != nil {
			s.metrics.ObserveReconcile("error", 0, res.Failed)
			return res, fmt.Errorf("mark slots expired: %w", err)
		}
		res.Expired = int(n)
	}

	s.metrics.ObserveReconcile("ok", res.Expired, res.Failed)
	if res.Scanned > 0 {
		s.log.Info("reconcile sweep finished", "scanned", res.Scanned, "expired", res.Expired, "adopted", res.Adopted, "failed", res.Failed)
	}
	return res, nil
}
