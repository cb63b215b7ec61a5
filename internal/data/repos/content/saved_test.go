package content

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pianostudio-backend/internal/domain/content"
)

func TestSavedRepoIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSavedRepo(db, testutil.Logger(t))

	v := testutil.SeedVideo(t, ctx, tx, "Arpeggios", time.Now())
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, tx, types.CategoryVideos, userID, v.ID); err != nil {
			t.Fatalf("Save #%d: %v", i, err)
		}
	}
	n, err := repo.CountForItem(ctx, tx, types.CategoryVideos, v.ID)
	if err != nil {
		t.Fatalf("CountForItem: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountForItem: expected 1 after double save, got %d", n)
	}
	ok, err := repo.IsSaved(ctx, tx, types.CategoryVideos, userID, v.ID)
	if err != nil || !ok {
		t.Fatalf("IsSaved: ok=%v err=%v", ok, err)
	}
	ids, err := repo.ItemIDsForUser(ctx, tx, types.CategoryVideos, userID)
	if err != nil || len(ids) != 1 || ids[0] != v.ID {
		t.Fatalf("ItemIDsForUser: ids=%v err=%v", ids, err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Unsave(ctx, tx, types.CategoryVideos, userID, v.ID); err != nil {
			t.Fatalf("Unsave #%d: %v", i, err)
		}
	}
	if n, _ := repo.CountForItem(ctx, tx, types.CategoryVideos, v.ID); n != 0 {
		t.Fatalf("CountForItem: expected 0 after unsave, got %d", n)
	}
}

func TestSavedRepoRejectsPlans(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSavedRepo(db, testutil.Logger(t))
	if err := repo.Save(context.Background(), nil, types.CategoryBeginnerPlans, uuid.New(), uuid.New()); err == nil {
		t.Fatalf("Save: expected error for beginner plans")
	}
}
