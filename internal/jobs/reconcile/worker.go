package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

const defaultInterval = 15 * time.Minute

// Worker runs the upload reconciliation sweep on a fixed interval.
type Worker struct {
	log      *logger.Logger
	svc      services.ReconcileService
	interval time.Duration
	wg       sync.WaitGroup
}

func NewWorker(baseLog *logger.Logger, svc services.ReconcileService, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		log:      baseLog.With("component", "ReconcileWorker"),
		svc:      svc,
		interval: interval,
	}
}

// Start launches the loop; it stops when ctx is cancelled. The first sweep
// runs immediately.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		w.runOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

// Wait blocks until the loop has exited.
func (w *Worker) Wait() { w.wg.Wait() }

func (w *Worker) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("reconcile sweep panic", "panic", r)
		}
	}()
	if _, err := w.svc.Sweep(ctx); err != nil && ctx.Err() == nil {
		w.log.Warn("reconcile sweep failed", "error", err)
	}
}
