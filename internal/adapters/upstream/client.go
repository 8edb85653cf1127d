// Package upstream fetches raw hotel listings from the listing data source.
package upstream

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/domain"
)

const (
	maxAttempts  = 4
	maxBodyBytes = 32 << 20
	service      = "upstream"
	endpoint     = "hotels"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

// New builds a client for base (e.g. https://api.example.com/v1). key is
// optional; rps <= 0 uses 5 requests per second; timeout bounds each attempt.
func New(base, key string, rps int, timeout time.Duration) (*Client, error) {
	if base == "" {
		return nil, errors.New("upstream base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// FetchListings returns the raw payload for key, unparsed. Non-2xx replies
// become *domain.UpstreamError; a 404 additionally wraps domain.ErrNotFound.
func (c *Client) FetchListings(ctx context.Context, key domain.LocationKey) (json.RawMessage, error) {
	segs := key.Segments()
	if len(segs) == 0 {
		return nil, domain.ErrSlugRequired
	}
	esc := make([]string, len(segs))
	for i, s := range segs {
		esc[i] = url.PathEscape(s)
	}
	return c.get(ctx, c.base+"/hotels/"+strings.Join(esc, "/"))
}

// get performs a GET with client-side rate limiting and retries on 429 and
// transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, u string) (json.RawMessage, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-search/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read upstream body: %w", err)
			}
			return json.RawMessage(b), nil

		case retryable(resp.StatusCode):
			wait := retryAfter(resp)
			lastErr = statusError(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			return nil, statusError(resp)
		}
	}
	return nil, lastErr
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// statusError drains and closes resp, surfacing the upstream's own
// {"error": "..."} message when it sent one.
func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	ue := &domain.UpstreamError{Message: fmt.Sprintf("upstream returned status %d", resp.StatusCode)}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(bytes.TrimSpace(b), &body) == nil {
		switch {
		case body.Error != "":
			ue.Message = body.Error
		case body.Message != "":
			ue.Message = body.Message
		}
	}
	if resp.StatusCode == http.StatusNotFound {
		ue.Err = domain.ErrNotFound
	}
	return ue
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
