package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/observability"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

const (
	defaultMediaLearningTime = "10 mins"
	defaultPlanLearningTime  = "1 week"
)

type VideoInput struct {
	Title        string
	Description  string
	Tags         json.RawMessage
	Difficulty   string
	LearningTime string
	VideoURL     string
	ThumbnailURL string
	AspectRatio  string
}

type SheetMusicInput struct {
	Title        string
	Description  string
	Tags         json.RawMessage
	Difficulty   string
	LearningTime string
	PDFURL       string
}

type TechniqueDrillInput struct {
	Title        string
	Description  string
	Tags         json.RawMessage
	Difficulty   string
	LearningTime string
	PDFURL       string
	ThumbnailURL string
}

type BeginnerPlanInput struct {
	Title        string
	Description  string
	Duration     string
	Level        string
	Lessons      json.RawMessage
	LearningTime string
}

// ContentService writes and removes catalog items.
type ContentService interface {
	CreateVideo(ctx context.Context, in VideoInput) (*types.Video, error)
	CreateSheetMusic(ctx context.Context, in SheetMusicInput) (*types.SheetMusic, error)
	CreateTechniqueDrill(ctx context.Context, in TechniqueDrillInput) (*types.TechniqueDrill, error)
	CreateBeginnerPlan(ctx context.Context, in BeginnerPlanInput) (*types.BeginnerPlan, error)
	// Delete removes the row with its saves and comments. Missing ids succeed.
	Delete(ctx context.Context, category types.Category, id uuid.UUID) error
}

type contentService struct {
	db       *gorm.DB
	log      *logger.Logger
	itemRepo repos.ItemRepo
	slotRepo repos.UploadSlotRepo
	bucket   gcp.BucketService
	catalog  CatalogService
	covers   CoverService
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewContentService wires the writer. covers may be nil to disable title cards.
func NewContentService(
	db *gorm.DB,
	log *logger.Logger,
	itemRepo repos.ItemRepo,
	slotRepo repos.UploadSlotRepo,
	bucket gcp.BucketService,
	catalog CatalogService,
	covers CoverService,
	metrics *observability.Metrics,
) ContentService {
	return &contentService{
		db:       db,
		log:      log.With("service", "ContentService"),
		itemRepo: itemRepo,
		slotRepo: slotRepo,
		bucket:   bucket,
		catalog:  catalog,
		covers:   covers,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *contentService) CreateVideo(ctx context.Context, in VideoInput) (*types.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Validation("title required")
	}
	videoURL := strings.TrimSpace(in.VideoURL)
	if videoURL == "" {
		return nil, apierr.Validation("video_url required")
	}
	difficulty, err := resolveDifficulty(in.Difficulty, content.DifficultyBeginner)
	if err != nil {
		return nil, err
	}
	aspect := firstNonEmpty(in.AspectRatio, content.AspectRatioVideo)
	if !content.ValidAspectRatio(aspect) {
		return nil, apierr.Validation("aspect_ratio must be video or vertical")
	}

	thumb := optionalString(in.ThumbnailURL)
	if thumb == nil {
		if derived, ok := YouTubeThumbnail(videoURL); ok {
			thumb = &derived
		} else {
			thumb = s.renderCover(ctx, title, content.CategoryVideos)
		}
	}

	v := &types.Video{
		Base: content.Base{
			Title:        title,
			Description:  optionalString(in.Description),
			LearningTime: firstNonEmpty(in.LearningTime, defaultMediaLearningTime),
			CreatedAt:    s.now(),
		},
		Tags:         datatypes.JSONSlice[string](ParseList(in.Tags, ",")),
		Difficulty:   difficulty,
		VideoURL:     videoURL,
		ThumbnailURL: thumb,
		AspectRatio:  aspect,
	}
	if err := s.insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *contentService) CreateSheetMusic(ctx context.Context, in SheetMusicInput) (*types.SheetMusic, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Validation("title required")
	}
	pdfURL := strings.TrimSpace(in.PDFURL)
	if pdfURL == "" {
		return nil, apierr.Validation("pdf_url required")
	}
	difficulty, err := resolveDifficulty(in.Difficulty, content.DifficultyBeginner)
	if err != nil {
		return nil, err
	}

	sm := &types.SheetMusic{
		Base: content.Base{
			Title:        title,
			Description:  optionalString(in.Description),
			LearningTime: firstNonEmpty(in.LearningTime, defaultMediaLearningTime),
			CreatedAt:    s.now(),
		},
		Tags:       datatypes.JSONSlice[string](ParseList(in.Tags, ",")),
		Difficulty: difficulty,
		PDFURL:     pdfURL,
	}
	if err := s.insert(ctx, sm); err != nil {
		return nil, err
	}
	return sm, nil
}

func (s *contentService) CreateTechniqueDrill(ctx context.Context, in TechniqueDrillInput) (*types.TechniqueDrill, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Validation("title required")
	}
	pdfURL := strings.TrimSpace(in.PDFURL)
	if pdfURL == "" {
		return nil, apierr.Validation("pdf_url required")
	}
	difficulty, err := resolveDifficulty(in.Difficulty, content.DifficultyIntermediate)
	if err != nil {
		return nil, err
	}

	thumb := optionalString(in.ThumbnailURL)
	if thumb == nil {
		thumb = s.renderCover(ctx, title, content.CategoryTechniqueDrills)
	}

	d := &types.TechniqueDrill{
		Base: content.Base{
			Title:        title,
			Description:  optionalString(in.Description),
			LearningTime: firstNonEmpty(in.LearningTime, defaultMediaLearningTime),
			CreatedAt:    s.now(),
		},
		Tags:         datatypes.JSONSlice[string](ParseList(in.Tags, ",")),
		Difficulty:   difficulty,
		PDFURL:       pdfURL,
		ThumbnailURL: thumb,
	}
	if err := s.insert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *contentService) CreateBeginnerPlan(ctx context.Context, in BeginnerPlanInput) (*types.BeginnerPlan, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Validation("title required")
	}
	p := &types.BeginnerPlan{
		Base: content.Base{
			Title:        title,
			Description:  optionalString(in.Description),
			LearningTime: firstNonEmpty(in.LearningTime, defaultPlanLearningTime),
			CreatedAt:    s.now(),
		},
		Duration: strings.TrimSpace(in.Duration),
		Level:    strings.TrimSpace(in.Level),
		Lessons:  datatypes.JSONSlice[string](ParseList(in.Lessons, "\n")),
	}
	if err := s.insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// insert stores the row, then settles any staging slots its assets came from.
func (s *contentService) insert(ctx context.Context, item types.Item) error {
	category := item.Category()
	ctx, span := observability.StartSpan(ctx, "content.create", attribute.String("content.category", string(category)))
	defer span.End()

	if err := s.itemRepo.Create(ctx, nil, item); err != nil {
		span.RecordError(err)
		s.metrics.IncItemCreated(string(category), "error")
		s.log.Error("create item failed", "category", category, "error", err)
		return uploadFailure(category, storeError("create_failed", err))
	}

	if urls := item.AssetURLs(); len(urls) > 0 {
		n, err := s.slotRepo.ConfirmByPublicURLs(ctx, nil, urls, item.ItemID(), s.now())
		if err != nil {
			s.log.Warn("confirm upload slots failed", "category", category, "item_id", item.ItemID(), "error", err)
		} else if n > 0 {
			s.log.Debug("upload slots confirmed", "category", category, "slots", n)
		}
	}

	s.catalog.Invalidate(ctx, category)
	s.metrics.IncItemCreated(string(category), "created")
	s.log.Info("item created", "category", category, "id", item.ItemID())
	return nil
}

func (s *contentService) renderCover(ctx context.Context, title string, category types.Category) *string {
	if s.covers == nil {
		return nil
	}
	url, err := s.covers.CreateAndUpload(ctx, title, category.Label())
	if err != nil {
		s.log.Warn("cover render failed (ignored)", "category", category, "error", err)
		return nil
	}
	return &url
}

func (s *contentService) Delete(ctx context.Context, category types.Category, id uuid.UUID) error {
	if !category.Valid() {
		return apierr.Validation("unknown category")
	}
	if id == uuid.Nil {
		return apierr.Validation("invalid id")
	}
	ctx, span := observability.StartSpan(ctx, "content.delete", attribute.String("content.category", string(category)))
	defer span.End()

	var assets []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.GetByID(ctx, tx, category, id)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		assets = item.AssetURLs()
		return s.itemRepo.DeleteCascade(ctx, tx, category, id)
	})
	if err != nil {
		span.RecordError(err)
		s.log.Error("delete item failed", "category", category, "id", id, "error", err)
		return storeError("delete_failed", fmt.Errorf("delete %s: %w", category.Label(), err))
	}

	for _, u := range assets {
		key, ok := s.bucket.KeyFromPublicURL(u)
		if !ok {
			continue
		}
		// the row is gone, so any match is another item sharing the object
		ref, err := s.itemRepo.FindAssetRef(ctx, nil, u, key)
		if err != nil {
			s.log.Warn("asset reference check failed, keeping object", "path", key, "error", err)
			continue
		}
		if ref != nil {
			s.log.Debug("asset still referenced, keeping object", "path", key, "category", ref.Category, "item_id", ref.ItemID)
			continue
		}
		if err := s.bucket.DeleteFile(ctx, key); err != nil {
			s.log.Warn("failed to delete asset (ignored)", "path", key, "error", err)
		}
	}

	s.catalog.Invalidate(ctx, category)
	s.log.Info("item deleted", "category", category, "id", id, "assets", len(assets))
	return nil
}

func resolveDifficulty(raw, def string) (string, error) {
	d := strings.ToLower(firstNonEmpty(raw, def))
	if !content.ValidDifficulty(d) {
		return "", apierr.Validation("difficulty must be beginner, intermediate or advanced")
	}
	return d, nil
}

// uploadFailure keeps the classified status but rewrites the message the way
// the upload forms display it.
func uploadFailure(category types.Category, err error) error {
	status, code := apierr.StatusOf(err), apierr.CodeOf(err, "create_failed")
	return apierr.New(status, code, fmt.Errorf("Failed to upload %s: %s", category.Label(), err.Error()))
}
