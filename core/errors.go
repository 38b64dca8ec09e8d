package core

import (
	"errors"
	"fmt"
)

// Error kinds used across the service. Callers classify with errors.Is;
// no external service error type crosses above these.
var (
	// ErrInvalidArgument reports bad partition or estimator parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotReady reports a QA call before any transcript was set.
	ErrNotReady = errors.New("no transcript available")
	// ErrSummarization reports a generation call that failed or returned
	// unusable content; it aborts the whole summarization run.
	ErrSummarization = errors.New("summarization failed")
	// ErrExternalService wraps a downstream network/service fault.
	ErrExternalService = errors.New("external service error")
)

func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

func SummarizationErr(cause error) error {
	return fmt.Errorf("%w: %v", ErrSummarization, cause)
}

func ExternalServiceErr(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrExternalService, op, cause)
}
