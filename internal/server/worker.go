package server

import (
	"context"

	"github.com/cicconee/marine-forecast/internal/refresh"
)

// worker runs the refresh scheduler until killed.
type worker struct {
	scheduler *refresh.Scheduler
	killCh    <-chan struct{}
}

func (w *worker) start() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-w.killCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	w.scheduler.Run(ctx)
}
