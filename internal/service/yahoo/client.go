package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	domrepo "FinLens/internal/domain/repository"
	icache "FinLens/internal/service/cache"
	xhttp "FinLens/pkg/http"
	xlogger "FinLens/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	kindChart   = "chart"
	kindSummary = "summary"
)

var validRanges = map[string]bool{
	"1mo": true, "3mo": true, "6mo": true, "1y": true, "2y": true, "5y": true,
}

// Client is the Yahoo Finance implementation of repository.MarketData.
type Client struct {
	chartURL   string
	summaryURL string
	userAgent  string
	timeout    time.Duration
	transport  http.RoundTripper

	http    *xhttp.Client
	limiter *rate.Limiter
	cache   icache.BytesCache
	ttl     time.Duration
	metrics domrepo.Metrics
	logger  *xlogger.Logger
}

type Option func(*Client)

// New creates a client with sane defaults; options override them.
func New(opts ...Option) *Client {
	c := &Client{
		chartURL:   "https://query1.finance.yahoo.com",
		summaryURL: "https://query2.finance.yahoo.com",
		userAgent:  "Mozilla/5.0",
		timeout:    15 * time.Second,
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
		ttl:        15 * time.Minute,
		logger:     xlogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.chartURL = strings.TrimRight(c.chartURL, "/")
	c.summaryURL = strings.TrimRight(c.summaryURL, "/")
	c.http = xhttp.NewClient(
		xhttp.WithTimeout(c.timeout),
		xhttp.WithUserAgent(c.userAgent),
		xhttp.WithTransport(c.transport),
	)
	return c
}

func WithChartURL(u string) Option   { return func(c *Client) { c.chartURL = u } }
func WithSummaryURL(u string) Option { return func(c *Client) { c.summaryURL = u } }
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit paces outbound requests. perSec <= 0 disables pacing.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		if perSec <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// WithCache stores raw upstream payloads. A nil cache disables caching.
func WithCache(bc icache.BytesCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = bc
		c.ttl = ttl
	}
}

func WithMetrics(m domrepo.Metrics) Option { return func(c *Client) { c.metrics = m } }

func WithLogger(l *xlogger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithTransport(rt http.RoundTripper) Option { return func(c *Client) { c.transport = rt } }

// fetch returns the raw body for a GET, consulting the cache first.
// cached reports whether the body came from the cache.
func (c *Client) fetch(ctx context.Context, kind, key, url string, query map[string][]string) (body []byte, cached bool, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordLatency("yahoo_"+kind, time.Since(start).Seconds())
		}
	}()

	if c.cache != nil {
		b, ok, err := c.cache.GetBytes(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed", xlogger.String("key", key), xlogger.Error(err))
		} else if ok {
			c.record(kind, "cache_hit")
			return b, true, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.record(kind, "error")
			return nil, false, fmt.Errorf("yahoo %s rate limit wait: %w", kind, err)
		}
	}

	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: query,
		Headers:     map[string]string{"Accept": "application/json"},
	}, &body)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			c.record(kind, "not_found")
			return nil, false, fmt.Errorf("yahoo %s %s: %w", kind, key, domrepo.ErrNotFound)
		}
		c.record(kind, "error")
		return nil, false, fmt.Errorf("yahoo %s: %w", kind, err)
	}
	c.record(kind, "ok")
	return body, false, nil
}

// store caches a payload that decoded into usable data.
func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SetBytes(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("cache write failed", xlogger.String("key", key), xlogger.Error(err))
	}
}

func (c *Client) record(kind, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordFetch(kind, outcome)
	}
}

var _ domrepo.MarketData = (*Client)(nil)
