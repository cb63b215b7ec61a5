package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

// SaveState is the canonical result of a save toggle.
type SaveState struct {
	Saved      bool  `json:"saved"`
	SavesCount int64 `json:"saves_count"`
}

type CounterService interface {
	// IncrementPlay adds one play. Unknown ids are a no-op.
	IncrementPlay(ctx context.Context, category types.Category, id uuid.UUID) error
	Save(ctx context.Context, category types.Category, userID, itemID uuid.UUID) (*SaveState, error)
	Unsave(ctx context.Context, category types.Category, userID, itemID uuid.UUID) (*SaveState, error)
	SavedIDs(ctx context.Context, category types.Category, userID uuid.UUID) ([]uuid.UUID, error)
}

type counterService struct {
	log       *logger.Logger
	itemRepo  repos.ItemRepo
	savedRepo repos.SavedRepo
	catalog   CatalogService
	metrics   *observability.Metrics
}

func NewCounterService(log *logger.Logger, itemRepo repos.ItemRepo, savedRepo repos.SavedRepo, catalog CatalogService, metrics *observability.Metrics) CounterService {
	return &counterService{
		log:       log.With("service", "CounterService"),
		itemRepo:  itemRepo,
		savedRepo: savedRepo,
		catalog:   catalog,
		metrics:   metrics,
	}
}

func (s *counterService) IncrementPlay(ctx context.Context, category types.Category, id uuid.UUID) error {
	if !category.Valid() {
		return apierr.Validation("unknown category")
	}
	if id == uuid.Nil {
		return apierr.Validation("invalid id")
	}
	n, err := s.itemRepo.IncrementPlays(ctx, nil, category, id)
	if err != nil {
		s.metrics.IncPlay(string(category), "error")
		s.log.Error("increment plays failed", "category", category, "id", id, "error", err)
		return storeError("play_failed", fmt.Errorf("increment plays: %w", err))
	}
	if n == 0 {
		s.metrics.IncPlay(string(category), "missing")
		return nil
	}
	s.metrics.IncPlay(string(category), "ok")
	return nil
}

func (s *counterService) Save(ctx context.Context, category types.Category, userID, itemID uuid.UUID) (*SaveState, error) {
	if err := s.checkTarget(ctx, category, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.savedRepo.Save(ctx, nil, category, userID, itemID); err != nil {
		s.log.Error("save failed", "category", category, "user_id", userID, "error", err)
		return nil, storeError("save_failed", fmt.Errorf("save %s: %w", category.Label(), err))
	}
	s.metrics.IncSave(string(category), "save")
	return s.state(ctx, category, true, itemID)
}

func (s *counterService) Unsave(ctx context.Context, category types.Category, userID, itemID uuid.UUID) (*SaveState, error) {
	if err := s.checkTarget(ctx, category, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.savedRepo.Unsave(ctx, nil, category, userID, itemID); err != nil {
		s.log.Error("unsave failed", "category", category, "user_id", userID, "error", err)
		return nil, storeError("unsave_failed", fmt.Errorf("unsave %s: %w", category.Label(), err))
	}
	s.metrics.IncSave(string(category), "unsave")
	return s.state(ctx, category, false, itemID)
}

func (s *counterService) SavedIDs(ctx context.Context, category types.Category, userID uuid.UUID) ([]uuid.UUID, error) {
	if !category.Saveable() {
		return nil, apierr.Validation("category cannot be saved")
	}
	ids, err := s.savedRepo.ItemIDsForUser(ctx, nil, category, userID)
	if err != nil {
		return nil, storeError("saved_lookup_failed", err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

func (s *counterService) checkTarget(ctx context.Context, category types.Category, userID, itemID uuid.UUID) error {
	if !category.Saveable() {
		return apierr.Validation("category cannot be saved")
	}
	if userID == uuid.Nil {
		return apierr.Unauthorized("Unauthorized")
	}
	if itemID == uuid.Nil {
		return apierr.Validation("invalid id")
	}
	item, err := s.itemRepo.GetByID(ctx, nil, category, itemID)
	if err != nil {
		return storeError("item_lookup_failed", err)
	}
	if item == nil {
		return apierr.NotFound(category.Label() + " not found")
	}
	return nil
}

func (s *counterService) state(ctx context.Context, category types.Category, saved bool, itemID uuid.UUID) (*SaveState, error) {
	count, err := s.savedRepo.CountForItem(ctx, nil, category, itemID)
	if err != nil {
		return nil, storeError("save_count_failed", err)
	}
	s.catalog.Invalidate(ctx, category)
	return &SaveState{Saved: saved, SavesCount: count}, nil
}
