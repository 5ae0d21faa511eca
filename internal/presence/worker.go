package presence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tabot/internal/stats"
)

const DefaultInterval = 5 * time.Minute

type CounterSource interface {
	Counters(ctx context.Context) (stats.Counters, error)
}

type Setter interface {
	SetPresence(ctx context.Context, text string) error
}

// Worker periodically shows how many questions were solved out of those raised.
type Worker struct {
	Counters CounterSource
	Platform Setter
	Interval time.Duration
	Logger   *slog.Logger
}

func Text(c stats.Counters) string {
	return fmt.Sprintf("%d solved / %d raised questions", c.Solved, c.Raised)
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}

	w.tick(ctx, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx, log)
		}
	}
}

// tick refreshes the presence once. Failures are logged and retried next tick.
func (w *Worker) tick(ctx context.Context, log *slog.Logger) {
	c, err := w.Counters.Counters(ctx)
	if err != nil {
		log.WarnContext(ctx, "presence counters failed", "error", err)
		return
	}
	if err := w.Platform.SetPresence(ctx, Text(c)); err != nil {
		log.WarnContext(ctx, "presence update failed", "error", err)
	}
}
