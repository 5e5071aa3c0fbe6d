package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/drewfead/lunchmap/internal"
)

// Timeout returns middleware that gives up on a source after d, even if the source ignores
// its context. The abandoned call finishes in the background.
func Timeout(d time.Duration) SourceMiddleware {
	return func(inner internal.Source) internal.Source {
		if inner == nil || d <= 0 {
			return inner
		}
		return &timeoutSource{inner: inner, timeout: d}
	}
}

type timeoutSource struct {
	inner   internal.Source
	timeout time.Duration
}

func (t *timeoutSource) Descriptor() string {
	return t.inner.Descriptor()
}

type menuResult struct {
	menu internal.Menu
	err  error
}

func (t *timeoutSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan menuResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- menuResult{err: fmt.Errorf("%w: %s panicked: %v", internal.ErrInternal, t.inner.Descriptor(), r)}
			}
		}()
		menu, err := t.inner.FetchMenu(ctx, req)
		done <- menuResult{menu: menu, err: err}
	}()

	select {
	case res := <-done:
		return res.menu, res.err
	case <-ctx.Done():
		return internal.Menu{}, fmt.Errorf("%w: %s after %s", internal.ErrTimeout, t.inner.Descriptor(), t.timeout)
	}
}
