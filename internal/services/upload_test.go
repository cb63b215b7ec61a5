package services

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
)

func TestRequestSlotRewritesPath(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	slot, err := h.uploads.RequestSlot(ctx, "videos/../../etc/My Nocturne.MP4", "")
	if err == nil {
		t.Fatalf("traversal accepted: %+v", slot)
	}

	slot, err = h.uploads.RequestSlot(ctx, "/videos/My Nocturne.MP4", "")
	if err != nil {
		t.Fatalf("RequestSlot: %v", err)
	}
	if !regexp.MustCompile(`^videos/\d{13}-[0-9a-f]{16}\.mp4$`).MatchString(slot.Path) {
		t.Fatalf("unexpected key %q", slot.Path)
	}
	if slot.ContentType != "video/mp4" {
		t.Fatalf("content type: got=%q", slot.ContentType)
	}
	if slot.PublicURL != h.bucket.GetPublicURL(slot.Path) {
		t.Fatalf("public url: got=%q", slot.PublicURL)
	}
	if !strings.Contains(slot.SignedURL, slot.Path) {
		t.Fatalf("signed url does not target key: %q", slot.SignedURL)
	}
	if d := time.Until(slot.ExpiresAt); d < time.Hour || d > 2*time.Hour+time.Minute {
		t.Fatalf("expiry out of range: %v", d)
	}

	id, err := uuid.Parse(slot.Token)
	if err != nil {
		t.Fatalf("token is not a slot id: %v", err)
	}
	row, err := h.repos.UploadSlots.GetByID(ctx, nil, id)
	if err != nil || row == nil {
		t.Fatalf("slot row: row=%v err=%v", row, err)
	}
	if row.Status != content.SlotStatusPending || row.Path != slot.Path || row.Prefix != "videos" {
		t.Fatalf("unexpected slot row: %+v", row)
	}

	again, err := h.uploads.RequestSlot(ctx, "videos/My Nocturne.MP4", "")
	if err != nil {
		t.Fatalf("RequestSlot again: %v", err)
	}
	if again.Path == slot.Path || again.Token == slot.Token {
		t.Fatalf("slot reused: %q", again.Path)
	}
}

func TestRequestSlotRejectsUnknownPrefix(t *testing.T) {
	h := newHarness(t)
	for _, p := range []string{"", "avatars/me.png", "videos", "videos/", "../videos/x.mp4"} {
		_, err := h.uploads.RequestSlot(context.Background(), p, "")
		if got := apierr.StatusOf(err); got != http.StatusBadRequest {
			t.Fatalf("path %q: want 400 got=%d err=%v", p, got, err)
		}
	}
	if n := len(h.bucket.Signed()); n != 0 {
		t.Fatalf("signed %d urls for rejected paths", n)
	}
}

func TestRequestSlotSanitisesExtension(t *testing.T) {
	h := newHarness(t)
	slot, err := h.uploads.RequestSlot(context.Background(), "sheet-music/Étude <script>", "application/pdf")
	if err != nil {
		t.Fatalf("RequestSlot: %v", err)
	}
	if !strings.HasSuffix(slot.Path, ".bin") || !strings.HasPrefix(slot.Path, "sheet-music/") {
		t.Fatalf("unexpected key %q", slot.Path)
	}
	if slot.ContentType != "application/pdf" {
		t.Fatalf("explicit content type dropped: %q", slot.ContentType)
	}
}

func TestRequestSlotSignFailureIsUpstream(t *testing.T) {
	h := newHarness(t)
	h.bucket.SignErr = errors.New("no signer")
	_, err := h.uploads.RequestSlot(context.Background(), "drills/a.pdf", "")
	if got := apierr.StatusOf(err); got != http.StatusInternalServerError {
		t.Fatalf("status: want 500 got=%d", got)
	}
}
