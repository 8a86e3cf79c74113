// Package fetchutil provides the outbound HTTP plumbing shared by the source
// adapters: a retrying GET client and a bounded-concurrency task runner.
package fetchutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const (
	// DefaultTimeout bounds a single attempt, independent of any deadline
	// on the caller's context. The effective deadline is the earlier of
	// the two.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the number of additional attempts after the
	// first, so up to three attempts total by default.
	DefaultMaxRetries = 2
)

var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
}

// Options configures FetchWithRetry. The zero value uses the defaults above.
type Options struct {
	// Timeout is the per-attempt deadline. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Zero means DefaultMaxRetries; negative disables retries.
	MaxRetries int

	// Backoff is the base delay before the first retry; the delay doubles
	// each attempt. Zero means one second.
	Backoff time.Duration

	// Client overrides the HTTP client used for requests.
	Client *http.Client
}

// Response is a fully drained HTTP response. Reading the body eagerly keeps
// the per-attempt deadline in force until the payload has arrived.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports whether the response status is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

var defaultClient = &http.Client{}

// FetchWithRetry performs a GET with exponential backoff on retryable
// failures: HTTP 429/500/502/503 and transient network errors. Other
// errors (e.g. a malformed URL) propagate immediately. Once retries are
// exhausted the last response or error is returned as-is.
func FetchWithRetry(ctx context.Context, url string, opts Options) (*Response, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	} else if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	client := opts.Client
	if client == nil {
		client = defaultClient
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := fetchOnce(ctx, client, url, timeout)
		if err == nil {
			if retryableStatus[resp.StatusCode] && attempt < maxRetries {
				if werr := wait(ctx, backoff<<attempt); werr != nil {
					return nil, werr
				}
				continue
			}
			return resp, nil
		}
		if attempt < maxRetries && ctx.Err() == nil && isRetryable(err) {
			if werr := wait(ctx, backoff<<attempt); werr != nil {
				return nil, werr
			}
			continue
		}
		return nil, err
	}

	// Unreachable: the final attempt always returns above.
	return nil, fmt.Errorf("fetch %s: retries exhausted", url)
}

func fetchOnce(ctx context.Context, client *http.Client, url string, timeout time.Duration) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body from %s: %w", url, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// isRetryable matches the closed set of transient network failures:
// timeouts, connection resets/refusals, and truncated or aborted transfers.
func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "aborted")
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
