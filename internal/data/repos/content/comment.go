package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/domain/user"
	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) (*types.Comment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Comment, error)
	ListForItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, itemType string) ([]*types.CommentWithAuthor, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	repoLog := baseLog.With("repo", "CommentRepo")
	return &commentRepo{db: db, log: repoLog}
}

func (r *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) (*types.Comment, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	if err := conn.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Comment, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	var rows []*types.Comment
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

func (r *commentRepo) ListForItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, itemType string) ([]*types.CommentWithAuthor, error) {
	conn := dbctx.Conn(ctx, tx, r.db)

	var comments []*types.Comment
	if err := conn.
		Where("item_id = ? AND item_type = ?", itemID, itemType).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	out := make([]*types.CommentWithAuthor, 0, len(comments))
	if len(comments) == 0 {
		return out, nil
	}

	userIDs := make([]uuid.UUID, 0, len(comments))
	seen := map[uuid.UUID]bool{}
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}
	var profiles []*user.Profile
	if err := conn.
		Where("id IN ?", userIDs).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*user.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	for _, c := range comments {
		row := &types.CommentWithAuthor{Comment: *c}
		if p := byID[c.UserID]; p != nil {
			row.Profile = types.CommentAuthor{Email: p.Email, FullName: p.FullName}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *commentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	conn := dbctx.Conn(ctx, tx, r.db)
	return conn.
		Where("id = ?", id).
		Delete(&types.Comment{}).Error
}
