package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttled spaces outbound model calls so a burst of chat requests does not
// trip the provider's own per-minute quota.
type Throttled struct {
	next    Client
	limiter *rate.Limiter
}

func NewThrottled(next Client, perMinute int) *Throttled {
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

func (t *Throttled) Invoke(ctx context.Context, prompt string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.next.Invoke(ctx, prompt)
}
