package nascar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/racelytics/competitiveness-analyzer-go/log"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

// DefaultBaseURL is the public document cache of the feed-based series.
const DefaultBaseURL = "https://cf.nascar.com/cacher"

const (
	DefaultMaxAttempts = 10
	DefaultRetryDelay  = 4 * time.Second
	DefaultFetchPause  = 2 * time.Second
)

type (
	// Client downloads feed documents politely: consecutive requests are
	// paced by a fixed pause and failed downloads are retried a bounded
	// number of times. The pipeline fetches sequentially, so Client is not
	// safe for concurrent use.
	Client struct {
		http        *http.Client
		baseURL     string
		maxAttempts int
		retryDelay  time.Duration
		pause       time.Duration
		log         *log.Logger
		lastRequest time.Time
	}
	ClientOption func(*Client)
)

func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMaxAttempts bounds the download attempts per document.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the wait between failed attempts.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithFetchPause sets the minimum spacing between consecutive requests.
func WithFetchPause(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.pause = d
		}
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

func WithClientLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

func NewClient(opts ...ClientOption) *Client {
	ret := &Client{
		http:        &http.Client{Timeout: time.Minute},
		baseURL:     DefaultBaseURL,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		pause:       DefaultFetchPause,
		log:         log.Default().Named("nascar.client"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (c *Client) raceList(ctx context.Context, season int) ([]byte, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%d/race_list_basic.json", c.baseURL, season))
}

func (c *Client) lapTimes(ctx context.Context, season, seriesID, raceID int) ([]byte, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%d/%d/%d/lap-times.json", c.baseURL, season, seriesID, raceID))
}

// fetch downloads one document. Any response outside 2xx counts as a failed
// attempt; once the attempts are exhausted the document is reported
// unavailable.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.throttle(ctx); err != nil {
			return nil, err
		}
		data, err := c.get(ctx, url)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn("download failed",
			log.String("url", url),
			log.Int("attempt", attempt),
			log.ErrorField(err))
		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts", model.ErrUnavailable, url, c.maxAttempts)
}

func (c *Client) throttle(ctx context.Context) error {
	wait := c.pause - time.Since(c.lastRequest)
	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	c.lastRequest = time.Now()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
