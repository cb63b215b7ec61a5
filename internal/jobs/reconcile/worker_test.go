package reconcile

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

type countingSweeper struct {
	calls atomic.Int32
	panic bool
}

func (c *countingSweeper) Sweep(ctx context.Context) (*services.ReconcileResult, error) {
	n := c.calls.Add(1)
	if c.panic && n == 1 {
		panic("boom")
	}
	return &services.ReconcileResult{}, nil
}

func TestWorkerSweepsImmediatelyAndOnTick(t *testing.T) {
	sw := &countingSweeper{}
	w := NewWorker(logger.Nop(), sw, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for sw.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	w.Wait()
	if got := sw.calls.Load(); got < 3 {
		t.Fatalf("sweeps: want >=3 got=%d", got)
	}
}

func TestWorkerSurvivesPanic(t *testing.T) {
	sw := &countingSweeper{panic: true}
	w := NewWorker(logger.Nop(), sw, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for sw.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	w.Wait()
	if got := sw.calls.Load(); got < 2 {
		t.Fatalf("worker stopped after panic: calls=%d", got)
	}
}
