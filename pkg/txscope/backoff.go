package txscope

import "time"

// retryBackoff is exponential with no jitter: deadlocks and serialization
// failures are rare enough under this executor's small retry budget that a
// thundering-herd concern does not apply the way it does for webhook
// delivery retries.
type retryBackoff struct {
	initial time.Duration
	factor  float64
}

func (b retryBackoff) interval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := float64(b.initial)
	for i := 1; i < attempt; i++ {
		d *= b.factor
	}
	return time.Duration(d)
}

// defaultRetryBackoff is 50ms, 100ms, 200ms for attempts 1, 2, 3.
var defaultRetryBackoff = retryBackoff{initial: 50 * time.Millisecond, factor: 2}

// maxRetryAttempts is the upper bound on attempts, the first one included,
// for a deadlock or serialization failure before the error escalates to the
// caller.
const maxRetryAttempts = 3
