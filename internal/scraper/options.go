package scraper

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/browser"
	"github.com/drewfead/lunchmap/internal/fetch"
)

type options struct {
	baseURL string
	fetcher fetch.Fetcher
}

// Option applies configuration to any page-backed source.
type Option func(*options)

// WithBaseURL sets the base URL for the source (e.g. httptest.Server.URL in tests).
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithClient fetches through client's transport (e.g. httptest.Server.Client() in tests).
func WithClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.fetcher = fetch.HTTP(fetch.WithTransport(client.Transport))
		}
	}
}

// WithBrowser renders the page in a headless browser instead of fetching it over plain HTTP.
func WithBrowser(b browser.Interface) Option {
	return func(o *options) {
		if b != nil {
			o.fetcher = b
		}
	}
}

func WithFetcher(f fetch.Fetcher) Option {
	return func(o *options) {
		if f != nil {
			o.fetcher = f
		}
	}
}

// page is the shared plumbing of a source that reads one document from one location.
type page struct {
	descriptor string
	baseURL    string
	path       string
	goldenFile string
	fetcher    fetch.Fetcher
}

func newPage(descriptor, defaultBaseURL, path, goldenFile string, opts []Option) page {
	o := &options{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}
	if o.fetcher == nil {
		o.fetcher = fetch.HTTP()
	}
	return page{
		descriptor: descriptor,
		baseURL:    o.baseURL,
		path:       path,
		goldenFile: goldenFile,
		fetcher:    o.fetcher,
	}
}

func (p *page) Descriptor() string {
	return p.descriptor
}

func (p *page) url() string {
	return p.baseURL + p.path
}

func (p *page) get(ctx context.Context) ([]byte, error) {
	return p.fetcher.Get(ctx, p.url())
}

func (p *page) document(ctx context.Context) (*goquery.Document, error) {
	body, err := p.get(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", internal.ErrParsing, p.url(), err)
	}
	return doc, nil
}

// PullGolden fetches the live page and saves it as golden data.
func (p *page) PullGolden(ctx context.Context, goldenDir string) error {
	body, err := p.get(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch golden data: %w", err)
	}
	return writeGoldenFiles(goldenDir, map[string][]byte{
		p.goldenFile: body,
	})
}

// MountGolden serves the golden file at the path the live site uses.
func (p *page) MountGolden(_ context.Context, goldenDir string) (http.Handler, error) {
	body, err := os.ReadFile(filepath.Join(goldenDir, p.goldenFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s golden file: %w", p.goldenFile, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(p.goldenFile))
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == p.path && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", contentType)
			_, _ = w.Write(body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}), nil
}
