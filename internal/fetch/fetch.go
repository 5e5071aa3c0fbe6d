package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/httputil"
	"github.com/go-resty/resty/v2"
)

// Fetcher returns the body of a successful GET. Implemented by plain HTTP and by the
// headless browser for pages that only render with scripts.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) lunchmap/1.0"
)

type httpFetcher struct {
	client    *resty.Client
	transport http.RoundTripper
	timeout   time.Duration
	userAgent string
	retries   int
	onTrip    func(httputil.RequestRecord)
}

type Option func(*httpFetcher)

// WithTimeout bounds every request made by the fetcher.
func WithTimeout(d time.Duration) Option {
	return func(f *httpFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(f *httpFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTransport sets the base transport (e.g. httptest.Server.Client().Transport in tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(f *httpFetcher) {
		f.transport = rt
	}
}

// WithRetries retries failed requests n extra times.
func WithRetries(n int) Option {
	return func(f *httpFetcher) {
		f.retries = max(n, 0)
	}
}

// WithRoundTripHook is called after every outbound round trip.
func WithRoundTripHook(fn func(httputil.RequestRecord)) Option {
	return func(f *httpFetcher) {
		f.onTrip = fn
	}
}

// HTTP returns a Fetcher backed by resty.
func HTTP(opts ...Option) Fetcher {
	f := &httpFetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = resty.New().
		SetTransport(&httputil.LoggingTransport{Base: f.transport, OnRoundTrip: f.onTrip}).
		SetTimeout(f.timeout).
		SetRetryCount(f.retries).
		SetHeader("User-Agent", f.userAgent).
		SetHeader("Accept-Language", "sv-SE,sv;q=0.9,en;q=0.8")
	return f
}

func (f *httpFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", internal.ErrFetch, url, err)
	}
	if res.IsError() || res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: get %s: %s", internal.ErrFetch, url, res.Status())
	}
	return res.Body(), nil
}
