package contracts

import (
	"errors"
	"fmt"
)

// Source-level failure taxonomy. Both are converted to missing-source
// markers by the pipeline; neither aborts a run on its own.
var (
	// ErrSourceUnavailable marks transient failures: network errors,
	// rate limiting, auth, upstream 5xx, per-fetch timeout. The HTTP
	// layer retries these before they surface here.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNotFound marks a ticker with no data at a source. Terminal,
	// never retried.
	ErrNotFound = errors.New("ticker not found at source")
)

// AnalysisError is the only fatal error of a run: the primary price
// series is unusable, so no comparison is possible and no snapshot is
// produced.
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis failed: %s", e.Reason)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsAnalysisError reports whether err is (or wraps) an AnalysisError
func IsAnalysisError(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}
