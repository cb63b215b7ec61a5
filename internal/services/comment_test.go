package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos/testutil"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
)

func TestCommentLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	v := testutil.SeedVideo(t, ctx, h.db, "Scales", time.Now())

	author := h.user("author", "author@studio.test")
	stranger := h.user("stranger", "stranger@studio.test")
	owner := h.user("owner", testOwnerEmail)

	first, err := h.comments.Create(ctx, author, v.ID, "video", "  great lesson  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Content != "great lesson" || first.Profile.Email != author.Email {
		t.Fatalf("created: %+v", first)
	}
	second, err := h.comments.Create(ctx, stranger, v.ID, "video", "thanks")
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	list, err := h.comments.List(ctx, v.ID, "video")
	if err != nil || len(list) != 2 {
		t.Fatalf("List: n=%d err=%v", len(list), err)
	}
	if list[0].Profile.FullName == "" {
		t.Fatalf("author not joined: %+v", list[0])
	}

	err = h.comments.Delete(ctx, stranger, first.ID)
	if got := apierr.StatusOf(err); got != http.StatusForbidden {
		t.Fatalf("stranger delete: want 403 got=%d", got)
	}
	if err := h.comments.Delete(ctx, author, first.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := h.comments.Delete(ctx, owner, second.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	list, _ = h.comments.List(ctx, v.ID, "video")
	if len(list) != 0 {
		t.Fatalf("comments left: %d", len(list))
	}
}

func TestCommentValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	v := testutil.SeedVideo(t, ctx, h.db, "Scales", time.Now())
	u := h.user("u", "u@studio.test")

	cases := []struct {
		name     string
		itemID   uuid.UUID
		itemType string
		text     string
		status   int
	}{
		{"blank", v.ID, "video", "   ", http.StatusBadRequest},
		{"too long", v.ID, "video", strings.Repeat("a", 2001), http.StatusBadRequest},
		{"bad type", v.ID, "videos", "hi", http.StatusBadRequest},
		{"missing item", uuid.New(), "video", "hi", http.StatusNotFound},
	}
	for _, tc := range cases {
		_, err := h.comments.Create(ctx, u, tc.itemID, tc.itemType, tc.text)
		if got := apierr.StatusOf(err); got != tc.status {
			t.Fatalf("%s: want %d got=%d err=%v", tc.name, tc.status, got, err)
		}
	}
	if _, err := h.comments.Create(ctx, u, v.ID, "video", strings.Repeat("a", 2000)); err != nil {
		t.Fatalf("2000 chars rejected: %v", err)
	}
}
