package fetch

import (
	"context"
	"math/rand"
	"time"
)

// jitterFactor bounds the random addition to the politeness delay: up to
// one extra base interval.
const jitterFactor = 1.0

// PolitenessDelay sleeps for the configured base delay plus random jitter
// before an outbound content fetch. This is best-effort politeness toward
// job boards, not a rate-limit guarantee. Returns early if ctx is
// cancelled.
func PolitenessDelay(ctx context.Context, baseMS int) error {
	if baseMS <= 0 {
		return nil
	}
	jitter := time.Duration(rand.Int63n(int64(float64(baseMS)*jitterFactor)+1)) * time.Millisecond
	delay := time.Duration(baseMS)*time.Millisecond + jitter

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
