package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pianostudio-backend/internal/domain"
	"github.com/yungbote/pianostudio-backend/internal/domain/content"
	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
)

func TestConcurrentPlaysAddExactly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	v := testutil.SeedVideo(t, ctx, h.db, "Scales", time.Now())

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- h.counters.IncrementPlay(ctx, content.CategoryVideos, v.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("IncrementPlay: %v", err)
		}
	}

	item, err := h.repos.Items.GetByID(ctx, nil, content.CategoryVideos, v.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := item.(*types.Video).Plays; got != n {
		t.Fatalf("plays: want %d got=%d", n, got)
	}
}

func TestIncrementPlayUnknownIDIsNoop(t *testing.T) {
	h := newHarness(t)
	if err := h.counters.IncrementPlay(context.Background(), content.CategoryBeginnerPlans, uuid.New()); err != nil {
		t.Fatalf("IncrementPlay: %v", err)
	}
}

func TestSaveUnsaveRestoresCount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sm := testutil.SeedSheetMusic(t, ctx, h.db, "Minuet in G", time.Now())
	other := uuid.New()
	if _, err := h.counters.Save(ctx, content.CategorySheetMusic, other, sm.ID); err != nil {
		t.Fatalf("Save other: %v", err)
	}

	me := uuid.New()
	st, err := h.counters.Save(ctx, content.CategorySheetMusic, me, sm.ID)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !st.Saved || st.SavesCount != 2 {
		t.Fatalf("after save: %+v", st)
	}
	st, err = h.counters.Save(ctx, content.CategorySheetMusic, me, sm.ID)
	if err != nil || st.SavesCount != 2 {
		t.Fatalf("repeated save: st=%+v err=%v", st, err)
	}

	ids, err := h.counters.SavedIDs(ctx, content.CategorySheetMusic, me)
	if err != nil || len(ids) != 1 || ids[0] != sm.ID {
		t.Fatalf("SavedIDs: ids=%v err=%v", ids, err)
	}

	st, err = h.counters.Unsave(ctx, content.CategorySheetMusic, me, sm.ID)
	if err != nil {
		t.Fatalf("Unsave: %v", err)
	}
	if st.Saved || st.SavesCount != 1 {
		t.Fatalf("after unsave: %+v", st)
	}
	if st, err = h.counters.Unsave(ctx, content.CategorySheetMusic, me, sm.ID); err != nil || st.SavesCount != 1 {
		t.Fatalf("repeated unsave: st=%+v err=%v", st, err)
	}

	list, err := h.catalog.List(ctx, content.CategorySheetMusic)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: n=%d err=%v", len(list), err)
	}
	if got := list[0].(*types.SheetMusic).SavesCount; got != 1 {
		t.Fatalf("listed saves_count: want 1 got=%d", got)
	}
}

func TestSaveRejectsPlansAndMissingItems(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := testutil.SeedBeginnerPlan(t, ctx, h.db, "First Steps", "2 weeks")

	_, err := h.counters.Save(ctx, content.CategoryBeginnerPlans, uuid.New(), plan.ID)
	if got := apierr.StatusOf(err); got != http.StatusBadRequest {
		t.Fatalf("plan save: want 400 got=%d", got)
	}
	_, err = h.counters.Save(ctx, content.CategoryVideos, uuid.New(), uuid.New())
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("missing item: want 404 got=%d", got)
	}
}
