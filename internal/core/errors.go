package core

import (
	"errors"
	"fmt"
)

var (
	// ErrThrottled is wrapped into errors returned by text generation
	// adapters when the provider signals an HTTP 429 equivalent. The
	// retry decorator matches it with errors.Is; any other provider
	// error propagates without retry.
	ErrThrottled = errors.New("text provider throttled")

	// ErrRateLimitExceeded is returned once the throttle retries are
	// exhausted.
	ErrRateLimitExceeded = errors.New("rate limit exceeded, maximum retries reached")
)

// ProviderError reports a mailbox transport or auth failure. The poll
// cycle aborts without mutating the progress marker when it sees one.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mailbox provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// CategoryError reports a category outside the set the system models.
// Reply generation must fail fast on it rather than invent a response.
type CategoryError struct {
	Category Category
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", string(e.Category))
}

// AddressParseError reports a sender header with no angle-bracket address
// segment. Jobs failing on it follow the queue's redelivery policy and
// eventually dead-letter.
type AddressParseError struct {
	Raw string
}

func (e *AddressParseError) Error() string {
	return fmt.Sprintf("no address in angle brackets in %q", e.Raw)
}
