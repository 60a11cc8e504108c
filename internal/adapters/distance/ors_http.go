package distance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	maxAttempts    = 4
	initialBackoff = 200 * time.Millisecond
	// maxRetryAfter bounds how long a server hint may stall one attempt.
	maxRetryAfter = 30 * time.Second
)

// httpStatusError is a non-2xx ORS response. RetryAfter carries the
// server's Retry-After hint, zero when absent.
type httpStatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// post sends payload as JSON to url. Transient failures are retried with
// exponential backoff, stretched to the server's Retry-After when that is
// longer. Every attempt waits for the rate limiter first.
func (o *ORSMatrixProvider) post(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		resp, err := o.send(ctx, url, payload)
		if err == nil {
			return resp, nil
		}

		delay, transient := retryDelay(err, backoff)
		if !transient || attempt == maxAttempts || ctx.Err() != nil {
			return nil, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

func (o *ORSMatrixProvider) send(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return nil, &httpStatusError{
		Code:       resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}
}

// retryDelay reports whether err is worth another attempt and how long to
// wait first. Rate limiting and gateway-side 5xx are transient, as are
// network errors; other statuses are not.
func retryDelay(err error, backoff time.Duration) (time.Duration, bool) {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return max(backoff, he.RetryAfter), true
		}
		return 0, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return backoff, true
	}
	return 0, false
}

// parseRetryAfter reads a Retry-After value given as delay-seconds or an
// HTTP date. Unparseable or past values yield zero.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = at.Sub(now)
	}
	return min(max(d, 0), maxRetryAfter)
}
