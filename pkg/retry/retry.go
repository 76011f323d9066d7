// Package retry implements the generic retry-with-backoff helper used by
// the Page Extractor's fetch loop (§4.5).
package retry

import (
	"math/rand"
	"time"

	"github.com/aeoinsight/crawler/pkg/failure"
	"github.com/aeoinsight/crawler/pkg/timeutil"
)

// Param configures a single Do call.
type Param struct {
	MaxAttempts  int
	RandomSeed   int64
	Jitter       time.Duration
	BackoffParam timeutil.BackoffParam
}

// DefaultParam matches §4.5: up to 3 retries (4 attempts in all), 1s base
// exponential backoff.
func DefaultParam() Param {
	return Param{
		MaxAttempts: 4,
		RandomSeed:  time.Now().UnixNano(),
		Jitter:      0,
		BackoffParam: timeutil.BackoffParam{
			Initial:    1 * time.Second,
			Multiplier: 2.0,
			Max:        10 * time.Second,
		},
	}
}

type Result[T any] struct {
	Value    T
	Err      failure.ClassifiedError
	Attempts int
}

// Error reports whether the retry loop ultimately failed.
func (r Result[T]) Error() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// ExhaustedError is returned when every attempt returned a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return "retry: exhausted attempts"
}

func (e *ExhaustedError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// retryable is satisfied by any ClassifiedError that also exposes whether
// it should be retried (the fetcher's/sitemap's transport errors do).
type retryable interface {
	IsRetryable() bool
}

// Do executes fn, retrying while the returned error is retryable, up to
// param.MaxAttempts times, sleeping an exponentially increasing jittered
// backoff between attempts.
func Do[T any](param Param, fn func() (T, failure.ClassifiedError)) Result[T] {
	var zero T
	if param.MaxAttempts < 1 {
		param.MaxAttempts = 1
	}
	rng := rand.New(rand.NewSource(param.RandomSeed))

	var last failure.ClassifiedError
	for attempt := 1; attempt <= param.MaxAttempts; attempt++ {
		value, err := fn()
		if err == nil {
			return Result[T]{Value: value, Attempts: attempt}
		}
		last = err

		if r, ok := err.(retryable); ok && !r.IsRetryable() {
			return Result[T]{Err: err, Attempts: attempt}
		}

		if attempt == param.MaxAttempts {
			break
		}

		delay := timeutil.ExponentialBackoffDelay(attempt, param.Jitter, rng, param.BackoffParam)
		time.Sleep(delay)
	}

	return Result[T]{
		Value:    zero,
		Err:      &ExhaustedError{Attempts: param.MaxAttempts, Last: last},
		Attempts: param.MaxAttempts,
	}
}
