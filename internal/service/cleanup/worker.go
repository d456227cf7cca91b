package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IdleCloser is implemented by host.Registry.
type IdleCloser interface {
	CloseIdle(maxIdle time.Duration) int
}

type Worker struct {
	Sessions IdleCloser
	Interval time.Duration
	MaxIdle  time.Duration
	log      *zap.Logger
}

func NewWorker(sessions IdleCloser, interval, maxIdle time.Duration, log *zap.Logger) *Worker {
	return &Worker{Sessions: sessions, Interval: interval, MaxIdle: maxIdle, log: log}
}

// Run sweeps once immediately and then every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.log.Info("background worker started", zap.Duration("interval", w.Interval), zap.Duration("max_idle", w.MaxIdle))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() {
	if n := w.Sessions.CloseIdle(w.MaxIdle); n > 0 {
		w.log.Info("closed idle sessions", zap.Int("count", n))
	}
}
