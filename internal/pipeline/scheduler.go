package pipeline

import (
	"context"
	"time"
)

// RunPeriodic executes fn immediately and then again with a fixed delay
// after each completion, until the context is cancelled. Because the next
// run is scheduled only after the previous one returns, runs of the same
// job never overlap.
func RunPeriodic(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			fn(ctx)
			timer.Reset(interval)
		}
	}
}
