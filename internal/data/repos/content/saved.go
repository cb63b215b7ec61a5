package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type SavedRepo interface {
	Save(ctx context.Context, tx *gorm.DB, category types.Category, userID, itemID uuid.UUID) error
	Unsave(ctx context.Context, tx *gorm.DB, category types.Category, userID, itemID uuid.UUID) error
	IsSaved(ctx context.Context, tx *gorm.DB, category types.Category, userID, itemID uuid.UUID) (bool, error)
	CountForItem(ctx context.Context, tx *gorm.DB, category types.Category, itemID uuid.UUID) (int64, error)
	ItemIDsForUser(ctx context.Context, tx *gorm.DB, category types.Category, userID uuid.UUID) ([]uuid.UUID, error)
}

type savedRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedRepo(db *gorm.DB, baseLog *logger.Logger) SavedRepo {
	repoLog := baseLog.With("repo", "SavedRepo")
	return &savedRepo{db: db, log: repoLog}
}

func (r *savedRepo) Save(ctx context.Context, tx *gorm.DB, category types.Category, userID, itemID uuid.UUID) error {
	conn := dbctx.Conn(ctx, tx, r.db)
	row, ok := types.NewSavedRelation(category, userID, itemID)
	if !ok {
		return fmt.Errorf("category %q cannot be saved", category)
	}
	return conn.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *savedRepo) Unsave(ctx context.Context, tx *gorm.DB, category types.Category, userID, itemID uuid.UUID) error {
	conn := dbctx.Conn(ctx, tx, r.db)
	model, ok := savedModel(category)
	if !ok {
		return fmt.Errorf("category %q cannot be saved", category)
	}
	return conn.
		Where("user_id = ? AND "+category.SavedColumn()+" = ?", userID, itemID).
		Delete(model).Error
}

func (r *savedRepo) IsSaved(ctx context.Context, tx *gorm.DB, category types.Category, userID, itemID uuid.UUID) (bool, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	model, ok := savedModel(category)
	if !ok {
		return false, nil
	}
	var count int64
	if err := conn.
		Model(model).
		Where("user_id = ? AND "+category.SavedColumn()+" = ?", userID, itemID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *savedRepo) CountForItem(ctx context.Context, tx *gorm.DB, category types.Category, itemID uuid.UUID) (int64, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	model, ok := savedModel(category)
	if !ok {
		return 0, nil
	}
	var count int64
	if err := conn.
		Model(model).
		Where(category.SavedColumn()+" = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *savedRepo) ItemIDsForUser(ctx context.Context, tx *gorm.DB, category types.Category, userID uuid.UUID) ([]uuid.UUID, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	out := []uuid.UUID{}
	model, ok := savedModel(category)
	if !ok {
		return out, nil
	}
	if err := conn.
		Model(model).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck(category.SavedColumn(), &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
