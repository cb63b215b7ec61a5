package services

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
)

func TestCreateSheetMusicDefaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	sm, err := h.content.CreateSheetMusic(ctx, SheetMusicInput{
		Title:  "Nocturne Op. 9 No. 2",
		Tags:   json.RawMessage(`"Classical, Chopin, "`),
		PDFURL: "https://storage.googleapis.com/content/sheet-music/nocturne.pdf",
	})
	if err != nil {
		t.Fatalf("CreateSheetMusic: %v", err)
	}
	if sm.Difficulty != content.DifficultyBeginner {
		t.Fatalf("difficulty: got=%q", sm.Difficulty)
	}
	if sm.LearningTime != "10 mins" {
		t.Fatalf("learning time: got=%q", sm.LearningTime)
	}
	if want := []string{"Classical", "Chopin"}; !reflect.DeepEqual([]string(sm.Tags), want) {
		t.Fatalf("tags: want %v got=%v", want, sm.Tags)
	}

	list, err := h.catalog.List(ctx, content.CategorySheetMusic)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ItemID() != sm.ID {
		t.Fatalf("created row not listed: %+v", list)
	}
	got := list[0].(*types.SheetMusic)
	if got.SavesCount != 0 || got.Title != "Nocturne Op. 9 No. 2" {
		t.Fatalf("listed row: %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := map[string]func() error{
		"video without title": func() error {
			_, err := h.content.CreateVideo(ctx, VideoInput{VideoURL: "https://youtu.be/x"})
			return err
		},
		"video without url": func() error {
			_, err := h.content.CreateVideo(ctx, VideoInput{Title: "Scales"})
			return err
		},
		"sheet music without pdf": func() error {
			_, err := h.content.CreateSheetMusic(ctx, SheetMusicInput{Title: "Minuet", PDFURL: "   "})
			return err
		},
		"drill without pdf": func() error {
			_, err := h.content.CreateTechniqueDrill(ctx, TechniqueDrillInput{Title: "Hanon 1"})
			return err
		},
		"bad difficulty": func() error {
			_, err := h.content.CreateSheetMusic(ctx, SheetMusicInput{Title: "Minuet", PDFURL: "https://x/y.pdf", Difficulty: "expert"})
			return err
		},
		"bad aspect ratio": func() error {
			_, err := h.content.CreateVideo(ctx, VideoInput{Title: "Scales", VideoURL: "https://x/v.mp4", AspectRatio: "square"})
			return err
		},
		"plan without title": func() error {
			_, err := h.content.CreateBeginnerPlan(ctx, BeginnerPlanInput{Duration: "4 weeks"})
			return err
		},
	}
	for name, fn := range cases {
		if got := apierr.StatusOf(fn()); got != http.StatusBadRequest {
			t.Fatalf("%s: want 400 got=%d", name, got)
		}
	}
	for _, c := range content.Categories {
		items, err := h.catalog.List(ctx, c)
		if err != nil {
			t.Fatalf("List %s: %v", c, err)
		}
		if len(items) != 0 {
			t.Fatalf("%s: rejected input was stored: %d rows", c, len(items))
		}
	}
}

func TestCreateVideoDerivesYouTubeThumbnail(t *testing.T) {
	h := newHarness(t)
	v, err := h.content.CreateVideo(context.Background(), VideoInput{
		Title:    "Arpeggios",
		VideoURL: "https://youtu.be/abc123XYZ0",
		Tags:     json.RawMessage(`["Technique"]`),
	})
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	if v.ThumbnailURL == nil || *v.ThumbnailURL != "https://img.youtube.com/vi/abc123XYZ0/maxresdefault.jpg" {
		t.Fatalf("thumbnail: got=%v", v.ThumbnailURL)
	}
	if v.AspectRatio != content.AspectRatioVideo || v.Difficulty != content.DifficultyBeginner {
		t.Fatalf("defaults: %+v", v)
	}
}

func TestCreateTechniqueDrillAndPlanDefaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	d, err := h.content.CreateTechniqueDrill(ctx, TechniqueDrillInput{Title: "Hanon 1", PDFURL: "https://x/hanon.pdf"})
	if err != nil {
		t.Fatalf("CreateTechniqueDrill: %v", err)
	}
	if d.Difficulty != content.DifficultyIntermediate || d.ThumbnailURL != nil {
		t.Fatalf("drill defaults: %+v", d)
	}

	p, err := h.content.CreateBeginnerPlan(ctx, BeginnerPlanInput{
		Title:    "First Steps",
		Duration: "4 weeks",
		Lessons:  json.RawMessage(`"Posture\n\nFinger numbers\nC position"`),
	})
	if err != nil {
		t.Fatalf("CreateBeginnerPlan: %v", err)
	}
	if p.LearningTime != "1 week" {
		t.Fatalf("plan learning time: %q", p.LearningTime)
	}
	if want := []string{"Posture", "Finger numbers", "C position"}; !reflect.DeepEqual([]string(p.Lessons), want) {
		t.Fatalf("lessons: want %v got=%v", want, p.Lessons)
	}
}

func TestCreateConfirmsUploadSlot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	slot, err := h.uploads.RequestSlot(ctx, "videos/lesson.mp4", "")
	if err != nil {
		t.Fatalf("RequestSlot: %v", err)
	}
	v, err := h.content.CreateVideo(ctx, VideoInput{Title: "Lesson", VideoURL: slot.PublicURL})
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	row, err := h.repos.UploadSlots.GetByID(ctx, nil, uuid.MustParse(slot.Token))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if row.Status != content.SlotStatusConfirmed || row.ItemID == nil || *row.ItemID != v.ID {
		t.Fatalf("slot not confirmed: %+v", row)
	}
}

func TestDeleteRemovesRowRelationsAndAssets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	key := "videos/1700000000000-aa.mp4"
	h.bucket.Put(key, []byte("data"), "video/mp4")
	v, err := h.content.CreateVideo(ctx, VideoInput{Title: "Old", VideoURL: h.bucket.GetPublicURL(key)})
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	viewer := h.user("viewer", "viewer@studio.test")
	if _, err := h.counters.Save(ctx, content.CategoryVideos, viewer.ID, v.ID); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := h.comments.Create(ctx, viewer, v.ID, "video", "lovely"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := h.content.Delete(ctx, content.CategoryVideos, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, err := h.catalog.List(ctx, content.CategoryVideos)
	if err != nil || len(items) != 0 {
		t.Fatalf("after delete: items=%d err=%v", len(items), err)
	}
	if n, _ := h.repos.Saved.CountForItem(ctx, nil, content.CategoryVideos, v.ID); n != 0 {
		t.Fatalf("saved relations left: %d", n)
	}
	comments, _ := h.comments.List(ctx, v.ID, "video")
	if len(comments) != 0 {
		t.Fatalf("comments left: %d", len(comments))
	}
	if _, _, ok := h.bucket.Object(key); ok {
		t.Fatalf("asset not deleted")
	}

	if err := h.content.Delete(ctx, content.CategoryVideos, v.ID); err != nil {
		t.Fatalf("second Delete should succeed: %v", err)
	}
}

func TestDeleteLeavesForeignAssets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	v, err := h.content.CreateVideo(ctx, VideoInput{Title: "Hosted", VideoURL: "https://www.youtube.com/watch?v=q1"})
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	if err := h.content.Delete(ctx, content.CategoryVideos, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if d := h.bucket.Deleted(); len(d) != 0 {
		t.Fatalf("deleted foreign objects: %v", d)
	}
}

func TestDeleteKeepsSharedThumbnail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	thumbKey := "thumbnails/1700000000000-aa11.png"
	h.bucket.Put(thumbKey, []byte("png"), "image/png")
	thumb := h.bucket.GetPublicURL(thumbKey)

	var ids []uuid.UUID
	for _, title := range []string{"Arpeggios", "Octaves"} {
		pdfKey := "drills/" + strings.ToLower(title) + ".pdf"
		h.bucket.Put(pdfKey, []byte("%PDF"), "application/pdf")
		d, err := h.content.CreateTechniqueDrill(ctx, TechniqueDrillInput{
			Title:        title,
			PDFURL:       h.bucket.GetPublicURL(pdfKey),
			ThumbnailURL: thumb,
		})
		if err != nil {
			t.Fatalf("CreateTechniqueDrill %s: %v", title, err)
		}
		ids = append(ids, d.ID)
	}

	if err := h.content.Delete(ctx, content.CategoryTechniqueDrills, ids[0]); err != nil {
		t.Fatalf("Delete first: %v", err)
	}
	if _, _, ok := h.bucket.Object(thumbKey); !ok {
		t.Fatalf("shared thumbnail deleted while still in use")
	}
	if _, _, ok := h.bucket.Object("drills/arpeggios.pdf"); ok {
		t.Fatalf("unshared pdf should be deleted")
	}

	if err := h.content.Delete(ctx, content.CategoryTechniqueDrills, ids[1]); err != nil {
		t.Fatalf("Delete second: %v", err)
	}
	if _, _, ok := h.bucket.Object(thumbKey); ok {
		t.Fatalf("thumbnail should go with its last reference")
	}
}
