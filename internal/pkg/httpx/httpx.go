// Package httpx holds the retry and error plumbing shared by outbound HTTP
// clients.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError reports a non-2xx response from an upstream HTTP service.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

// Temporary marks statuses a caller may retry: timeouts, throttling and 5xx.
func (e *StatusError) Temporary() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= 500
	}
}

// CheckResponse returns nil for a 2xx response. Otherwise it drains up to 512
// bytes of the body into a StatusError, honoring Retry-After up to maxWait.
func CheckResponse(res *http.Response, maxWait time.Duration) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return &StatusError{
		StatusCode: res.StatusCode,
		Body:       strings.TrimSpace(string(body)),
		RetryAfter: min(retryAfter(res.Header.Get("Retry-After"), time.Now()), maxWait),
	}
}

// retryAfter parses either delay-seconds or an HTTP date.
func retryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}

// Retryable reports whether err is worth another attempt. Cancellation never is.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// jitter spreads d by +/-20%.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := int64(d) / 5
	return d - time.Duration(spread) + time.Duration(rand.Int64N(2*spread+1))
}

// RetryPolicy bounds Retry. Zero values fall back to 3 attempts from 200ms, capped at 5s.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
	// Until stops retrying once the deadline passes, even with attempts left.
	Until time.Time
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// policy is exhausted. The last error is returned.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.Base <= 0 {
		p.Base = 200 * time.Millisecond
	}
	if p.Max <= 0 {
		p.Max = 5 * time.Second
	}
	backoff := p.Base
	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == p.Attempts || !Retryable(err) {
			return err
		}
		wait := jitter(backoff)
		var se *StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			wait = se.RetryAfter
		}
		if wait > p.Max {
			wait = p.Max
		}
		if !p.Until.IsZero() && time.Now().Add(wait).After(p.Until) {
			return err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
		backoff *= 2
	}
	return err
}
