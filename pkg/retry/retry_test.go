package retry

import (
	"testing"
	"time"

	"github.com/aeoinsight/crawler/pkg/failure"
	"github.com/aeoinsight/crawler/pkg/timeutil"
	"github.com/stretchr/testify/require"
)

type fakeErr struct {
	retryable bool
}

func (e *fakeErr) Error() string             { return "fake error" }
func (e *fakeErr) Severity() failure.Severity { return failure.SeverityRecoverable }
func (e *fakeErr) IsRetryable() bool          { return e.retryable }

func TestDoSucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	result := Do(DefaultParam(), func() (int, failure.ClassifiedError) {
		calls++
		return 42, nil
	})
	require.NoError(t, result.Error())
	require.Equal(t, 42, result.Value)
	require.Equal(t, 1, calls)
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	param := Param{
		MaxAttempts: 3,
		RandomSeed:  1,
		BackoffParam: timeutil.BackoffParam{
			Initial:    time.Millisecond,
			Multiplier: 2.0,
			Max:        10 * time.Millisecond,
		},
	}
	calls := 0
	result := Do(param, func() (int, failure.ClassifiedError) {
		calls++
		if calls < 3 {
			return 0, &fakeErr{retryable: true}
		}
		return 7, nil
	})
	require.NoError(t, result.Error())
	require.Equal(t, 7, result.Value)
	require.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	result := Do(DefaultParam(), func() (int, failure.ClassifiedError) {
		calls++
		return 0, &fakeErr{retryable: false}
	})
	require.Error(t, result.Error())
	require.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	param := DefaultParam()
	param.MaxAttempts = 2
	param.BackoffParam.Initial = time.Millisecond
	calls := 0
	result := Do(param, func() (int, failure.ClassifiedError) {
		calls++
		return 0, &fakeErr{retryable: true}
	})
	require.Error(t, result.Error())
	require.Equal(t, 2, calls)
	var exhausted *ExhaustedError
	require.ErrorAs(t, result.Err, &exhausted)
}
