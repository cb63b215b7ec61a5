package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pianostudio-backend/internal/domain/user"
	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

type ProfileRepo interface {
	// GetByID returns (nil, nil) when no profile exists for id.
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Profile, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) ([]*types.Profile, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Profile, error)
	// Upsert creates the profile or refreshes its email and name, never its role.
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
	SetRoleByEmail(ctx context.Context, tx *gorm.DB, email, role string) (int64, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (r *profileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Profile, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	var rows []*types.Profile
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

func (r *profileRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) ([]*types.Profile, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	var rows []*types.Profile
	if err := conn.
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *profileRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Profile, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	var rows []*types.Profile
	if err := conn.
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *profileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
	conn := dbctx.Conn(ctx, tx, r.db)
	return conn.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "full_name"}),
		}).
		Create(profile).Error
}

func (r *profileRepo) SetRoleByEmail(ctx context.Context, tx *gorm.DB, email, role string) (int64, error) {
	conn := dbctx.Conn(ctx, tx, r.db)
	res := conn.
		Model(&types.Profile{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Update("role", role)
	return res.RowsAffected, res.Error
}
