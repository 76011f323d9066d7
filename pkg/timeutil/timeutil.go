// Package timeutil provides the small time/jitter helpers shared by the
// rate limiter and the retry package.
package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// Sleeper lets callers inject a fake clock in tests, as the scheduler does.
type Sleeper interface {
	Sleep(d time.Duration)
}

type RealSleeper struct{}

func NewRealSleeper() RealSleeper { return RealSleeper{} }

func (RealSleeper) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// MaxDuration returns the largest duration among ds.
func MaxDuration(ds []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range ds {
		if d > max {
			max = d
		}
	}
	return max
}

// UniformJitter returns a uniformly distributed duration in
// [base*(1-frac), base*(1+frac)], using rng for determinism in tests.
func UniformJitter(base time.Duration, frac float64, rng *rand.Rand) time.Duration {
	if base <= 0 {
		return 0
	}
	spread := float64(base) * frac
	offset := (rng.Float64()*2 - 1) * spread
	result := float64(base) + offset
	if result < 0 {
		result = 0
	}
	return time.Duration(result)
}

// BackoffParam configures exponential backoff.
type BackoffParam struct {
	Initial    time.Duration
	Multiplier float64
	Max        time.Duration
}

// ExponentialBackoffDelay computes the delay before the given attempt
// (1-indexed), with uniform jitter in [0, jitter].
func ExponentialBackoffDelay(attempt int, jitter time.Duration, rng *rand.Rand, param BackoffParam) time.Duration {
	exponent := float64(attempt - 1)
	delay := float64(param.Initial) * math.Pow(param.Multiplier, exponent)
	if param.Max > 0 && delay > float64(param.Max) {
		delay = float64(param.Max)
	}
	if jitter > 0 {
		delay += float64(rng.Int63n(int64(jitter) + 1))
	}
	return time.Duration(delay)
}
