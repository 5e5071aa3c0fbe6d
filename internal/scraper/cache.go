package scraper

import (
	"context"
	"log/slog"

	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/store"
)

// Cached returns middleware that answers from st while the stored entry's date equals the
// request's date. Force requests skip the lookup. Only successful menus are written back.
//
//	scraper.NewRegistry(scraper.WithSource(scraper.Kolga(), scraper.Cached(store.Memory(0, 0))))
func Cached(st store.Store) SourceMiddleware {
	return func(inner internal.Source) internal.Source {
		if inner == nil || st == nil {
			return inner
		}
		return &cachingSource{
			descriptor: inner.Descriptor(),
			inner:      inner,
			store:      st,
		}
	}
}

type cachingSource struct {
	descriptor string
	inner      internal.Source
	store      store.Store
}

func (c *cachingSource) Descriptor() string {
	return c.descriptor
}

func (c *cachingSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	if !req.Force {
		entry, ok, err := c.store.Get(ctx, c.descriptor)
		switch {
		case err != nil:
			slog.Warn("menu cache: read failed", "descriptor", c.descriptor, "error", err)
		case ok && entry.FreshFor(req.Now.Date):
			slog.Debug("menu cache: hit", "descriptor", c.descriptor, "date", entry.Date)
			return entry.Content, nil
		case ok:
			slog.Debug("menu cache: stale", "descriptor", c.descriptor, "cached", entry.Date, "today", req.Now.Date)
		}
	}

	menu, err := c.inner.FetchMenu(ctx, req)
	if err != nil || menu.Failed() {
		return menu, err
	}
	if err := c.store.Put(ctx, c.descriptor, store.Entry{Date: req.Now.Date, Content: menu}); err != nil {
		slog.Warn("menu cache: write failed", "descriptor", c.descriptor, "error", err)
	}
	return menu, nil
}
