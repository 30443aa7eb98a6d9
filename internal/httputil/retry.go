// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the discovery and
// scraping stages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff when the
// server does not say how long to wait. Tests override this to avoid
// real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxBackoff caps a single wait; career sites occasionally send
// Retry-After values in the minutes.
const maxBackoff = 2 * time.Minute

const defaultMaxRetries = 4

// retryable reports whether the response is a throttle signal worth
// waiting out. Career pages and the search endpoint answer bursts with
// 429 or a temporary 503.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries throttled responses.
// The wait honors a Retry-After header in seconds when present, otherwise
// doubles from RetryBaseDelay per attempt, capped at two minutes.
//
// When maxRetries is 0 the default (4) is used. A cancelled context
// during a wait returns ctx.Err(). After exhausting retries the last
// throttled response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	backoff := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff
		if after := retryAfter(resp); after > 0 {
			wait = after
		}
		if wait > maxBackoff {
			wait = maxBackoff
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
}

// retryAfter parses the Retry-After header in its delay-seconds form.
// The HTTP-date form is rare on the endpoints this pipeline talks to and
// is ignored.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
