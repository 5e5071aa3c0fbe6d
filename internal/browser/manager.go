package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/fetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// PageStableTimeout is the timeout used when waiting for page stability.
var PageStableTimeout = 20 * time.Second

// Interface renders pages in a real browser. Get returns the rendered document so it can
// stand in for a plain HTTP fetch.
type Interface interface {
	fetch.Fetcher
	WithPage(ctx context.Context, url string, fn func(*rod.Page) error) error

	io.Closer
}

// headlessBrowser manages a single rod browser instance. A channel of capacity 1 serializes
// access: callers receive the browser, use it, then send it back so only one page runs at a time.
type headlessBrowser struct {
	initOnce sync.Once
	initErr  error
	ch       chan *rod.Browser
	launch   func() (*rod.Browser, error)
}

// Headless returns a browser that launches chromium on first use and reuses it afterwards.
// Nothing is started until the first page is requested.
func Headless() Interface {
	return &headlessBrowser{
		ch:     make(chan *rod.Browser, 1),
		launch: launchHeadless,
	}
}

func launchHeadless() (*rod.Browser, error) {
	u, err := launcher.New().Logger(newRodLauncherLogger()).Leakless(false).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	slog.Info("headless browser started")
	return b, nil
}

func (h *headlessBrowser) init() error {
	h.initOnce.Do(func() {
		b, err := h.launch()
		if err != nil {
			h.initErr = err
			close(h.ch)
			return
		}
		h.ch <- b
	})
	return h.initErr
}

// Close shuts the browser down. Closing a browser that never launched, or whose launch
// failed, is a no-op: the launch error was already returned to every fetch.
func (h *headlessBrowser) Close() error {
	launched := true
	h.initOnce.Do(func() {
		launched = false
		close(h.ch)
	})
	if !launched {
		return nil
	}
	b, ok := <-h.ch
	if !ok {
		return nil
	}
	return b.Close()
}

// WithPage receives the shared browser, opens a page at url, waits for it to settle, runs fn,
// then hands the browser back. The page is closed when fn returns.
func (h *headlessBrowser) WithPage(ctx context.Context, url string, fn func(page *rod.Page) error) error {
	if err := h.init(); err != nil {
		return fmt.Errorf("%w: %w", internal.ErrFetch, err)
	}
	var b *rod.Browser
	select {
	case got, ok := <-h.ch:
		if !ok {
			return fmt.Errorf("%w: browser closed", internal.ErrFetch)
		}
		b = got
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", internal.ErrFetch, ctx.Err())
	}
	defer func() { h.ch <- b }()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("%w: create page: %w", internal.ErrFetch, err)
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("%w: navigate to %s: %w", internal.ErrFetch, url, err)
	}
	if err := page.Timeout(PageStableTimeout).WaitStable(time.Second); err != nil {
		return fmt.Errorf("%w: wait for %s: %w", internal.ErrFetch, url, err)
	}

	return fn(page)
}

// Get renders url and returns the resulting document HTML.
func (h *headlessBrowser) Get(ctx context.Context, url string) ([]byte, error) {
	var html string
	err := h.WithPage(ctx, url, func(page *rod.Page) error {
		var err error
		html, err = page.HTML()
		if err != nil {
			return fmt.Errorf("%w: read html: %w", internal.ErrFetch, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("browser: rendered page", "url", url, "bytes", len(html))
	return []byte(html), nil
}

// rodLauncherLogger is an io.Writer that forwards launcher output (e.g. download progress) to slog at debug level.
type rodLauncherLogger struct {
	buf []byte
}

func (w *rodLauncherLogger) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSpace(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
		if line != "" {
			slog.Debug("rod launcher", "message", line)
		}
	}
	return len(p), nil
}

func newRodLauncherLogger() io.Writer {
	return &rodLauncherLogger{}
}
