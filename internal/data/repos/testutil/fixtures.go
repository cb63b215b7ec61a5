package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/domain/user"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.Profile {
	tb.Helper()
	p := &types.Profile{
		ID:       uuid.New(),
		Email:    email,
		FullName: "Test User",
		Role:     role,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedOwner(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Profile {
	tb.Helper()
	return SeedProfile(tb, ctx, tx, email, user.RoleOwner)
}

func SeedVideo(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, createdAt time.Time) *types.Video {
	tb.Helper()
	v := &types.Video{
		Base: content.Base{
			Title:        title,
			LearningTime: "10 mins",
			CreatedAt:    createdAt.UTC(),
		},
		Tags:        datatypes.JSONSlice[string]{"Classical"},
		Difficulty:  content.DifficultyBeginner,
		VideoURL:    "https://storage.googleapis.com/content/videos/" + uuid.NewString() + ".mp4",
		AspectRatio: content.AspectRatioVideo,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed video: %v", err)
	}
	return v
}

func SeedSheetMusic(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, createdAt time.Time) *types.SheetMusic {
	tb.Helper()
	s := &types.SheetMusic{
		Base: content.Base{
			Title:        title,
			LearningTime: "10 mins",
			CreatedAt:    createdAt.UTC(),
		},
		Tags:       datatypes.JSONSlice[string]{},
		Difficulty: content.DifficultyBeginner,
		PDFURL:     "https://storage.googleapis.com/content/sheet-music/" + uuid.NewString() + ".pdf",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sheet music: %v", err)
	}
	return s
}

func SeedBeginnerPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, title, duration string) *types.BeginnerPlan {
	tb.Helper()
	p := &types.BeginnerPlan{
		Base: content.Base{
			Title:        title,
			LearningTime: "1 week",
		},
		Duration: duration,
		Level:    "Absolute beginner",
		Lessons:  datatypes.JSONSlice[string]{"Posture", "C major"},
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed beginner plan: %v", err)
	}
	return p
}
