package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/cache"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

const (
	defaultCatalogCacheTTL = time.Minute
	catalogReadTimeout     = 10 * time.Second
	defaultRecentLimit     = 6
	maxRecentLimit         = 50
)

// CatalogService serves the public listings.
type CatalogService interface {
	List(ctx context.Context, category types.Category) ([]types.Item, error)
	// Recent merges the newest videos and sheet music.
	Recent(ctx context.Context, limit int) ([]types.Item, error)
	// Invalidate retires cached listings after a write. Fills that began
	// before the call land on a retired version and are never served.
	Invalidate(ctx context.Context, categories ...types.Category)
}

type catalogService struct {
	log      *logger.Logger
	itemRepo repos.ItemRepo
	cache    cache.Cache
	ttl      time.Duration
	metrics  *observability.Metrics
	group    singleflight.Group
}

func NewCatalogService(log *logger.Logger, itemRepo repos.ItemRepo, c cache.Cache, ttl time.Duration, metrics *observability.Metrics) CatalogService {
	if c == nil {
		c = cache.Noop()
	}
	if ttl <= 0 {
		ttl = defaultCatalogCacheTTL
	}
	return &catalogService{
		log:      log.With("service", "CatalogService"),
		itemRepo: itemRepo,
		cache:    c,
		ttl:      ttl,
		metrics:  metrics,
	}
}

func versionKey(category types.Category) string {
	return "catalog:" + string(category) + ":version"
}

func listingKey(category types.Category, version string) string {
	return "catalog:" + string(category) + ":" + version
}

// listingVersion returns the live listing version, creating one when none is
// stored. An empty result means the cache is unusable for this read.
func (s *catalogService) listingVersion(ctx context.Context, category types.Category) string {
	raw, ok, err := s.cache.Get(ctx, versionKey(category))
	if err != nil {
		s.metrics.IncCatalogCache("error")
		s.log.Warn("catalog version read failed", "category", category, "error", err)
		return ""
	}
	if ok && len(raw) > 0 {
		return string(raw)
	}
	v := uuid.NewString()
	if err := s.cache.Set(ctx, versionKey(category), []byte(v), 0); err != nil {
		s.log.Warn("catalog version write failed", "category", category, "error", err)
		return ""
	}
	return v
}

func (s *catalogService) List(ctx context.Context, category types.Category) ([]types.Item, error) {
	if !category.Valid() {
		return nil, apierr.Validation("unknown category")
	}

	version := s.listingVersion(ctx, category)
	key := listingKey(category, version)
	if version != "" {
		if raw, ok, err := s.cache.Get(ctx, key); err != nil {
			s.metrics.IncCatalogCache("error")
			s.log.Warn("catalog cache read failed", "category", category, "error", err)
		} else if ok {
			items, err := decodeItems(category, raw)
			if err == nil {
				s.metrics.IncCatalogCache("hit")
				return items, nil
			}
			s.log.Warn("catalog cache entry unreadable", "category", category, "error", err)
		}
	}
	s.metrics.IncCatalogCache("miss")

	// The shared read ignores caller cancellation; only catalogReadTimeout bounds it.
	flight := s.group.DoChan(key, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalogReadTimeout)
		defer cancel()
		items, err := s.itemRepo.List(readCtx, nil, category)
		if err != nil {
			return nil, err
		}
		if version == "" {
			return items, nil
		}
		if raw, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(readCtx, key, raw, s.ttl); err != nil {
				s.log.Warn("catalog cache write failed", "category", category, "error", err)
			}
		}
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			s.log.Error("list catalog failed", "category", category, "error", res.Err)
			return nil, storeError("catalog_failed", fmt.Errorf("list %s: %w", category, res.Err))
		}
		return res.Val.([]types.Item), nil
	}
}

func (s *catalogService) Recent(ctx context.Context, limit int) ([]types.Item, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var videos, sheets []types.Item
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.itemRepo.ListRecent(gctx, nil, content.CategoryVideos, limit)
		videos = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.itemRepo.ListRecent(gctx, nil, content.CategorySheetMusic, limit)
		sheets = rows
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("list recent failed", "error", err)
		return nil, storeError("catalog_failed", fmt.Errorf("list recent: %w", err))
	}

	merged := make([]types.Item, 0, len(videos)+len(sheets))
	merged = append(merged, videos...)
	merged = append(merged, sheets...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ItemCreatedAt().After(merged[j].ItemCreatedAt())
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func (s *catalogService) Invalidate(ctx context.Context, categories ...types.Category) {
	// the write already committed; a caller hanging up must not skip this
	ctx = context.WithoutCancel(ctx)
	for _, c := range categories {
		err := s.cache.Set(ctx, versionKey(c), []byte(uuid.NewString()), 0)
		if err == nil {
			continue
		}
		s.log.Warn("catalog version bump failed", "category", c, "error", err)
		// without a new version the best remaining option is dropping the pointer
		if err := s.cache.Delete(ctx, versionKey(c)); err != nil {
			s.log.Warn("catalog cache invalidation failed", "category", c, "error", err)
		}
	}
}

func decodeItems(category types.Category, raw []byte) ([]types.Item, error) {
	switch category {
	case content.CategoryVideos:
		return decodeRows[*content.Video](raw)
	case content.CategorySheetMusic:
		return decodeRows[*content.SheetMusic](raw)
	case content.CategoryTechniqueDrills:
		return decodeRows[*content.TechniqueDrill](raw)
	case content.CategoryBeginnerPlans:
		return decodeRows[*content.BeginnerPlan](raw)
	}
	return nil, fmt.Errorf("unknown category %q", category)
}

func decodeRows[T types.Item](raw []byte) ([]types.Item, error) {
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]types.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return out, nil
}
