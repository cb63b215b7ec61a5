package content

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pianostudio-backend/internal/domain/content"
)

func TestUploadSlotLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUploadSlotRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	confirmed, err := repo.Create(ctx, tx, &types.UploadSlot{
		Path:      "videos/1-aa.mp4",
		PublicURL: "https://cdn.example/videos/1-aa.mp4",
		Prefix:    "videos",
		ExpiresAt: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stale, err := repo.Create(ctx, tx, &types.UploadSlot{
		Path:      "videos/2-bb.mp4",
		PublicURL: "https://cdn.example/videos/2-bb.mp4",
		Prefix:    "videos",
		ExpiresAt: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, &types.UploadSlot{
		Path:      "videos/3-cc.mp4",
		PublicURL: "https://cdn.example/videos/3-cc.mp4",
		Prefix:    "videos",
		ExpiresAt: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	itemID := uuid.New()
	n, err := repo.ConfirmByPublicURLs(ctx, tx, []string{confirmed.PublicURL, "https://elsewhere/x"}, itemID, now)
	if err != nil || n != 1 {
		t.Fatalf("ConfirmByPublicURLs: n=%d err=%v", n, err)
	}

	rows, err := repo.ListStalePending(ctx, tx, now, 10)
	if err != nil {
		t.Fatalf("ListStalePending: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != stale.ID {
		t.Fatalf("ListStalePending: unexpected rows %+v", rows)
	}

	if n, err := repo.MarkExpired(ctx, tx, []uuid.UUID{stale.ID}); err != nil || n != 1 {
		t.Fatalf("MarkExpired: n=%d err=%v", n, err)
	}
	got, err := repo.GetByID(ctx, tx, stale.ID)
	if err != nil || got == nil || got.Status != types.SlotStatusExpired {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	got, _ = repo.GetByID(ctx, tx, confirmed.ID)
	if got.Status != types.SlotStatusConfirmed || got.ItemID == nil || *got.ItemID != itemID {
		t.Fatalf("confirmed slot: got=%+v", got)
	}
}
