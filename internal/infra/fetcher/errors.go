// Package fetcher retrieves readable article text for news items before
// summarization.
package fetcher

import "errors"

var (
	// ErrInvalidURL indicates a URL that fails validation before any request.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates a URL resolving to a private or loopback address.
	ErrPrivateIP = errors.New("URL resolves to private IP")

	// ErrTimeout indicates the request exceeded its per-request deadline.
	ErrTimeout = errors.New("content fetch timeout")

	// ErrBodyTooLarge indicates a response over the configured size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects indicates the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")
)
