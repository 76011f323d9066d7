package pageextract

import (
	"fmt"

	"github.com/aeoinsight/crawler/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseNetworkFailure = FetchErrorCause("network issues")
	ErrCauseReadBody       = FetchErrorCause("failed to read response body")
)

// FetchError wraps a failed attempt at the transport level. Per the
// spec, HTTP status codes themselves are never errors — performFetch
// returns a FetchResult for any status the server gives back. FetchError
// only covers failures below the HTTP layer: DNS, connection, timeout,
// or body-read failures.
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("page extract fetch error: %s", e.Cause)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}
