package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for traversal bounds and lifecycle conditions.
var (
	ErrMaxDepth   = errors.New("max traversal depth exceeded")
	ErrVisited    = errors.New("url already visited")
	ErrInvalidURL = errors.New("invalid URL")
)

// FetchError wraps a failed page fetch. The Retryable flag tells the caller
// whether a bounded retry is worthwhile; the fetcher itself never retries.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from a Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ExtractError wraps a markup parse failure. Extractors treat structurally
// unexpected pages as yielding zero candidates, so this surfaces only when
// the markup cannot be parsed at all.
type ExtractError struct {
	URL string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// IndexError wraps a search-index operation failure. Point-lookup failures
// degrade to treat-as-new; batch-write failures are reported per batch.
type IndexError struct {
	Backend string
	Op      string
	Err     error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }
