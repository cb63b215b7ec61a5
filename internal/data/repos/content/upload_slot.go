package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type UploadSlotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, slot *types.UploadSlot) (*types.UploadSlot, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UploadSlot, error)
	// ConfirmByPublicURLs marks pending slots whose public URL is referenced by itemID.
	ConfirmByPublicURLs(ctx context.Context, tx *gorm.DB, publicURLs []string, itemID uuid.UUID, at time.Time) (int64, error)
	// Confirm settles one pending slot against itemID.
	Confirm(ctx context.Context, tx *gorm.DB, id, itemID uuid.UUID, at time.Time) (int64, error)
	ListStalePending(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]*types.UploadSlot, error)
	MarkExpired(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type uploadSlotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUploadSlotRepo(db *gorm.DB, baseLog *logger.Logger) UploadSlotRepo {
	repoLog := baseLog.With("repo", "UploadSlotRepo")
	return &uploadSlotRepo{db: db, log: repoLog}
}

func (r *uploadSlotRepo) Create(ctx context.Context, tx *gorm.DB, slot *types.UploadSlot) (*types.UploadSlot, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	if slot.Status == "" {
		slot.Status = types.SlotStatusPending
	}
	if err := conn.Create(slot).Error; err != nil {
		return nil, err
	}
	return slot, nil
}

func (r *uploadSlotRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UploadSlot, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	var rows []*types.UploadSlot
	if err := conn.
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *uploadSlotRepo) ConfirmByPublicURLs(ctx context.Context, tx *gorm.DB, publicURLs []string, itemID uuid.UUID, at time.Time) (int64, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	if len(publicURLs) == 0 {
		return 0, nil
	}
	res := conn.
		Model(&types.UploadSlot{}).
		Where("public_url IN ? AND status = ?", publicURLs, types.SlotStatusPending).
		Updates(map[string]interface{}{
			"status":       types.SlotStatusConfirmed,
			"item_id":      itemID,
			"confirmed_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *uploadSlotRepo) Confirm(ctx context.Context, tx *gorm.DB, id, itemID uuid.UUID, at time.Time) (int64, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	res := conn.
		Model(&types.UploadSlot{}).
		Where("id = ? AND status = ?", id, types.SlotStatusPending).
		Updates(map[string]interface{}{
			"status":       types.SlotStatusConfirmed,
			"item_id":      itemID,
			"confirmed_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *uploadSlotRepo) ListStalePending(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]*types.UploadSlot, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	var rows []*types.UploadSlot
	q := conn.
		Where("status = ? AND expires_at < ?", types.SlotStatusPending, before).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *uploadSlotRepo) MarkExpired(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	if len(ids) == 0 {
		return 0, nil
	}
	res := conn.
		Model(&types.UploadSlot{}).
		Where("id IN ? AND status = ?", ids, types.SlotStatusPending).
		Update("status", types.SlotStatusExpired)
	return res.RowsAffected, res.Error
}
