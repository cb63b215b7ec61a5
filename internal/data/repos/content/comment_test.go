package content

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pianostudio-backend/internal/domain/content"
)

func TestCommentRepoListJoinsAuthor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCommentRepo(db, testutil.Logger(t))

	author := testutil.SeedProfile(t, ctx, tx, "student@example.com", "")
	itemID := uuid.New()
	base := time.Now().UTC()

	for i, body := range []string{"first", "second"} {
		if _, err := repo.Create(ctx, tx, &types.Comment{
			ItemID:    itemID,
			ItemType:  "video",
			UserID:    author.ID,
			Content:   body,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := repo.Create(ctx, tx, &types.Comment{ItemID: itemID, ItemType: "sheet_music", UserID: author.ID, Content: "other"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListForItem(ctx, tx, itemID, "video")
	if err != nil {
		t.Fatalf("ListForItem: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListForItem: expected 2 rows, got %d", len(rows))
	}
	if rows[0].Content != "second" {
		t.Fatalf("ListForItem: expected newest first, got %q", rows[0].Content)
	}
	if rows[0].Profile.Email != "student@example.com" {
		t.Fatalf("ListForItem: author not joined: %+v", rows[0].Profile)
	}

	if err := repo.Delete(ctx, tx, rows[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, rows[0].ID)
	if err != nil || got != nil {
		t.Fatalf("GetByID after delete: got=%v err=%v", got, err)
	}
}
