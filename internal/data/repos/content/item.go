package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item types.Item) error
	GetByID(ctx context.Context, tx *gorm.DB, category types.Category, id uuid.UUID) (types.Item, error)
	List(ctx context.Context, tx *gorm.DB, category types.Category) ([]types.Item, error)
	ListRecent(ctx context.Context, tx *gorm.DB, category types.Category, limit int) ([]types.Item, error)
	IncrementPlays(ctx context.Context, tx *gorm.DB, category types.Category, id uuid.UUID) (int64, error)
	// DeleteCascade removes saved relations, comments and the row itself.
	DeleteCascade(ctx context.Context, tx *gorm.DB, category types.Category, id uuid.UUID) error
	// FindAssetRef returns the first row whose asset columns equal publicURL or
	// end in "/"+key, or nil when no row references the object.
	FindAssetRef(ctx context.Context, tx *gorm.DB, publicURL, key string) (*AssetRef, error)
}

// AssetRef points at a row referencing a stored object.
type AssetRef struct {
	Category types.Category
	ItemID   uuid.UUID
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	repoLog := baseLog.With("repo", "ItemRepo")
	return &itemRepo{db: db, log: repoLog}
}

func (r *itemRepo) Create(ctx context.Context, tx *gorm.DB, item types.Item) error {
	conn := dbctx.Conn(ctx, tx, r.db)
	if item == nil {
		return errors.New("nil item")
	}
	return conn.Create(item).Error
}

func (r *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, category types.Category, id uuid.UUID) (types.Item, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	item, err := newItem(category)
	if err != nil {
		return nil, err
	}
	res := conn.Where("id = ?", id).Limit(1).Find(item)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return item, nil
}

func (r *itemRepo) List(ctx context.Context, tx *gorm.DB, category types.Category) ([]types.Item, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	q := withSavesCount(conn, category)
	if category == types.CategoryBeginnerPlans {
		q = q.Order("duration ASC").Order("created_at DESC")
	} else {
		q = q.Order(category.Table() + ".created_at DESC")
	}
	return findItems(q, category)
}

func (r *itemRepo) ListRecent(ctx context.Context, tx *gorm.DB, category types.Category, limit int) ([]types.Item, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	q := withSavesCount(conn, category).
		Order(category.Table() + ".created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return findItems(q, category)
}

func (r *itemRepo) IncrementPlays(ctx context.Context, tx *gorm.DB, category types.Category, id uuid.UUID) (int64, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	model, err := newItem(category)
	if err != nil {
		return 0, err
	}
	res := conn.
		Model(model).
		Where("id = ?", id).
		UpdateColumn("plays", gorm.Expr("plays + ?", 1))
	return res.RowsAffected, res.Error
}

func (r *itemRepo) DeleteCascade(ctx context.Context, tx *gorm.DB, category types.Category, id uuid.UUID) error {
	conn := dbctx.Conn(ctx, tx, r.db)
	model, err := newItem(category)
	if err != nil {
		return err
	}
	if saved, ok := savedModel(category); ok {
		if err := conn.
			Where(category.SavedColumn()+" = ?", id).
			Delete(saved).Error; err != nil {
			return fmt.Errorf("delete saved relations: %w", err)
		}
	}
	if err := conn.
		Where("item_id = ? AND item_type = ?", id, category.ItemType()).
		Delete(&types.Comment{}).Error; err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if err := conn.
		Where("id = ?", id).
		Delete(model).Error; err != nil {
		return fmt.Errorf("delete %s: %w", category.Label(), err)
	}
	return nil
}

func (r *itemRepo) FindAssetRef(ctx context.Context, tx *gorm.DB, publicURL, key string) (*AssetRef, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	key = strings.TrimLeft(key, "/")
	if publicURL == "" && key == "" {
		return nil, nil
	}
	for _, category := range types.Categories {
		cols := category.AssetColumns()
		if len(cols) == 0 {
			continue
		}
		var (
			conds []string
			args  []interface{}
		)
		for _, col := range cols {
			if publicURL != "" {
				conds = append(conds, col+" = ?")
				args = append(args, publicURL)
			}
			if key != "" {
				// generated keys carry no LIKE wildcards
				conds = append(conds, col+" LIKE ?")
				args = append(args, "%/"+key)
			}
		}
		var ids []uuid.UUID
		if err := conn.
			Table(category.Table()).
			Where(strings.Join(conds, " OR "), args...).
			Limit(1).
			Pluck("id", &ids).Error; err != nil {
			return nil, fmt.Errorf("find %s asset ref: %w", category.Label(), err)
		}
		if len(ids) > 0 {
			return &AssetRef{Category: category, ItemID: ids[0]}, nil
		}
	}
	return nil, nil
}

func withSavesCount(q *gorm.DB, category types.Category) *gorm.DB {
	table := category.Table()
	q = q.Table(table)
	if !category.Saveable() {
		return q.Select(table + ".*, 0 AS saves_count")
	}
	return q.Select(fmt.Sprintf(
		"%s.*, (SELECT COUNT(*) FROM %s s WHERE s.%s = %s.id) AS saves_count",
		table, category.SavedTable(), category.SavedColumn(), table,
	))
}

func findItems(q *gorm.DB, category types.Category) ([]types.Item, error) {
	switch category {
	case types.CategoryVideos:
		var rows []*types.Video
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		return toItems(rows), nil
	case types.CategorySheetMusic:
		var rows []*types.SheetMusic
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		return toItems(rows), nil
	case types.CategoryTechniqueDrills:
		var rows []*types.TechniqueDrill
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		return toItems(rows), nil
	case types.CategoryBeginnerPlans:
		var rows []*types.BeginnerPlan
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		return toItems(rows), nil
	}
	return nil, fmt.Errorf("unknown category %q", category)
}

func toItems[T types.Item](rows []T) []types.Item {
	out := make([]types.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	return out
}

func newItem(category types.Category) (types.Item, error) {
	switch category {
	case types.CategoryVideos:
		return &types.Video{}, nil
	case types.CategorySheetMusic:
		return &types.SheetMusic{}, nil
	case types.CategoryTechniqueDrills:
		return &types.TechniqueDrill{}, nil
	case types.CategoryBeginnerPlans:
		return &types.BeginnerPlan{}, nil
	}
	return nil, fmt.Errorf("unknown category %q", category)
}

func savedModel(category types.Category) (interface{}, bool) {
	switch category {
	case types.CategoryVideos:
		return &types.SavedVideo{}, true
	case types.CategorySheetMusic:
		return &types.SavedSheetMusic{}, true
	case types.CategoryTechniqueDrills:
		return &types.SavedTechniqueDrill{}, true
	}
	return nil, false
}
