package services

import (
	"context"
	"time"
)

// Poll runs fn immediately and then on every tick until ctx is done.
// A run that outlasts the interval delays the next one instead of overlapping.
func Poll(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		interval = 6 * time.Second
	}

	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
