package equitywire

import (
	"math"
	"math/rand"
	"time"
)

// BackoffCalculator yields the delay to wait before reconnect attempt number
// `attempts` (1-based).
type BackoffCalculator func(attempts int) time.Duration

// UniformJitterBackoff returns a calculator yielding base plus a uniformly
// random share of jitter, regardless of the attempt count. Randomizing the
// delay desynchronizes reconnect storms when many clients lose connectivity
// at once.
func UniformJitterBackoff(base, jitter time.Duration) BackoffCalculator {
	return func(int) time.Duration {
		if jitter <= 0 {
			return base
		}
		return base + time.Duration(rand.Int63n(int64(jitter)))
	}
}

// ExponentialBackoff computes (2^attempts - 1) / 2 for use as a delay in
// seconds. It grows without bound; cap it at the call site if needed.
func ExponentialBackoff(attempts int) float64 {
	return (math.Pow(2.0, float64(attempts)) - 1) / 2
}

// ExponentialBackoffSeconds is an alternative calculator that grows the
// delay exponentially across consecutive failed attempts. Inject it with
// WithBackoffCalculator when talking to a backend that penalizes hot retry
// loops.
func ExponentialBackoffSeconds(attempts int) time.Duration {
	return time.Duration(ExponentialBackoff(attempts)) * time.Second
}
