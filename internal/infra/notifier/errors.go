package notifier

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Webhook error categories. Retry handling differs per category: 429 waits
// out the advertised cooldown, 5xx and network errors back off and retry,
// other 4xx fail immediately.

// RateLimitError represents a 429 response from the webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a non-429 4xx response.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx response.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// asRateLimitError unwraps a 429 error if present.
func asRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// isRetryableError reports whether a failed send is worth retrying.
// Client errors are permanent; everything else (server errors, network
// errors, timeouts) is transient.
func isRetryableError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return false // handled by the 429 path, not generic retry
	}
	return true
}

// extractRetryAfter reads the cooldown from the Retry-After header,
// defaulting to 5 seconds when absent or unparseable.
func extractRetryAfter(resp *http.Response) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 5 * time.Second
}
