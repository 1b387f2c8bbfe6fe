package directory

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"
)

// DefaultRetryOn lists the statuses retried when a policy names none.
var DefaultRetryOn = []int{408, 429, 500, 502, 503, 504}

// RetryPolicy decides whether and when a failed directory call is repeated.
type RetryPolicy struct {
	// Retries is the number of attempts after the first one.
	Retries int
	// Backoff is the wait before the first retry. Each later wait is
	// Factor times longer, up to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
	Factor     float64
	// Jitter spreads each wait by up to this fraction in either direction.
	Jitter float64
	// RetryOn lists retryable HTTP statuses; nil means DefaultRetryOn.
	RetryOn []int
}

// DefaultRetryPolicy returns three retries starting at 500ms, doubling up to
// 10s with 20% jitter.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		Retries:    3,
		Backoff:    500 * time.Millisecond,
		MaxBackoff: 10 * time.Second,
		Factor:     2,
		Jitter:     0.2,
	}
}

// Allows reports whether attempt (zero based) may be followed by another.
// A status of 0 stands for a transport error, which is always retryable.
func (p *RetryPolicy) Allows(attempt, status int) bool {
	if attempt >= p.Retries {
		return false
	}
	if status == 0 {
		return true
	}
	codes := p.RetryOn
	if codes == nil {
		codes = DefaultRetryOn
	}
	return slices.Contains(codes, status)
}

// BackoffFor returns the wait after attempt, jitter included.
func (p *RetryPolicy) BackoffFor(attempt int) time.Duration {
	wait := float64(p.Backoff)
	for i := 0; i < attempt && wait < float64(p.MaxBackoff); i++ {
		wait *= p.Factor
	}
	wait = min(wait, float64(p.MaxBackoff))

	if p.Jitter > 0 {
		spread := wait * p.Jitter
		wait += (rand.Float64()*2 - 1) * spread
	}
	return time.Duration(wait)
}

// Sleep blocks for BackoffFor(attempt) or until ctx is done.
func (p *RetryPolicy) Sleep(ctx context.Context, attempt int) error {
	t := time.NewTimer(p.BackoffFor(attempt))
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
