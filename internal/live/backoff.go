package live

import (
	"math/rand/v2"
	"time"
)

// DefaultReconnectDelay is the fixed wait between connection attempts.
const DefaultReconnectDelay = 5 * time.Second

// Backoff is the reconnection policy: a fixed Delay plus up to Jitter of
// random extra wait, for at most MaxAttempts consecutive failures
// (0 retries forever).
type Backoff struct {
	Delay       time.Duration
	Jitter      time.Duration
	MaxAttempts int
}

// Next returns how long to wait before the next attempt.
func (b Backoff) Next() time.Duration {
	d := b.Delay
	if d <= 0 {
		d = DefaultReconnectDelay
	}
	if b.Jitter > 0 {
		d += time.Duration(rand.Int64N(int64(b.Jitter) + 1))
	}
	return d
}

// Exhausted reports whether failures consecutive failed attempts reach
// the cap.
func (b Backoff) Exhausted(failures int) bool {
	return b.MaxAttempts > 0 && failures >= b.MaxAttempts
}
