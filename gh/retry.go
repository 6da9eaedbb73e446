package gh

import (
	"errors"
	"math"
	"net"
	"net/http"
	"time"
)

const (
	DefaultMaxRetries = 3
	BaseDelay         = 500 * time.Millisecond
	MaxDelay          = 10 * time.Second
)

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	return min(time.Duration(float64(BaseDelay)*math.Pow(2, float64(attempt))), MaxDelay)
}

// retryTransport re-issues idempotent requests that failed with a transient
// network error or a retryable status. The last response or error is passed
// through untouched so callers see the real outcome.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	// sleep is swapped out in tests.
	sleep func(time.Duration) <-chan time.Time
}

func newRetryTransport(base http.RoundTripper, maxRetries int) *retryTransport {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &retryTransport{base: base, maxRetries: maxRetries, sleep: time.After}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return t.base.RoundTrip(req)
	}

	ctx := req.Context()
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-t.sleep(backoffDelay(attempt - 1)):
			}
		}

		resp, err := t.base.RoundTrip(req.Clone(ctx))
		if attempt >= t.maxRetries {
			return resp, err
		}
		if err != nil {
			if !isRetryable(err) {
				return nil, err
			}
			continue
		}
		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		resp.Body.Close()
	}
}
