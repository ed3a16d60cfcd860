package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPError carries status/body for non-2xx responses so callers can
// tell a missing roster (404) from an auth problem (401/403).
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("httpx: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 500))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// RetryPolicy controls how Do retries.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Retry5xx retries any 5xx status.
	Retry5xx bool

	// RetryStatuses lists extra statuses to retry (429, 408, ...).
	RetryStatuses map[int]bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Retry5xx:    true,
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests: true,
			http.StatusRequestTimeout:  true,
			http.StatusTooEarly:        true,
		},
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		return def
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.RetryStatuses == nil {
		p.RetryStatuses = def.RetryStatuses
	}
	return p
}

// Do runs the request built by build, retrying transient failures.
// build is called once per attempt so request bodies can be replayed.
// The response body is always fully read and closed; it is returned as bytes.
func Do(
	ctx context.Context,
	client *http.Client,
	build func(context.Context) (*http.Request, error),
	policy RetryPolicy,
) (*http.Response, []byte, error) {
	policy = policy.withDefaults()
	if client == nil {
		client = http.DefaultClient
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, nil, err
		}

		resp, err := client.Do(req)
		if err == nil {
			var body []byte
			body, err = readAndClose(resp.Body)
			if err == nil {
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					return resp, body, nil
				}

				herr := &HTTPError{
					Method:     req.Method,
					URL:        req.URL.String(),
					StatusCode: resp.StatusCode,
					Header:     resp.Header.Clone(),
					Body:       body,
				}
				if !policy.retryableStatus(resp.StatusCode) || attempt == policy.MaxAttempts {
					return resp, body, herr
				}
				lastErr = herr
				if err := wait(ctx, delay(attempt, policy, ParseRetryAfter(resp))); err != nil {
					return nil, nil, err
				}
				continue
			}
		}

		if !isRetryableNetErr(err) || attempt == policy.MaxAttempts {
			return nil, nil, err
		}
		lastErr = err
		if err := wait(ctx, delay(attempt, policy, 0)); err != nil {
			return nil, nil, err
		}
	}

	if lastErr != nil {
		return nil, nil, lastErr
	}
	return nil, nil, errors.New("httpx: request failed")
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p RetryPolicy) retryableStatus(code int) bool {
	if p.RetryStatuses[code] {
		return true
	}
	return p.Retry5xx && code >= 500 && code <= 599
}

// delay is exponential in attempt, capped at MaxDelay, plus up to 250ms jitter.
// A positive retryAfter from the server wins.
func delay(attempt int, p RetryPolicy, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}
	d := p.BaseDelay << (attempt - 1)
	if d <= 0 || d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d + time.Duration(rand.Intn(250))*time.Millisecond
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isRetryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

// ParseRetryAfter parses the Retry-After header (seconds or HTTP date).
// Returns 0 when the header is missing, invalid or in the past.
func ParseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
