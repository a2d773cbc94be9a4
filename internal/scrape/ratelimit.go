package scrape

import (
	"context"
	"sync"
	"time"
)

// limiter paces outbound scrapes with a fixed delay. The mutex is held for
// the duration of the sleep, so concurrent callers queue up behind each
// other instead of bursting.
type limiter struct {
	mu    sync.Mutex
	delay time.Duration
}

func (l *limiter) wait(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.delay <= 0 {
		return
	}
	timer := time.NewTimer(l.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
