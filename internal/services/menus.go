package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/clock"
	"github.com/drewfead/lunchmap/internal/scraper"
)

// MenuService answers menu requests. Every answer is a well-formed Menu: source errors,
// timeouts and panics come back as Failure menus and never as Go errors.
type MenuService interface {
	// Menu returns one source's menu. Unknown identifiers yield a Failure.
	Menu(ctx context.Context, sourceID string, force bool) internal.Menu
	// All asks every registered source concurrently and waits for all of them.
	All(ctx context.Context, force bool) map[string]internal.Menu
	// Select is All restricted to sourceIDs, in one request context.
	Select(ctx context.Context, sourceIDs []string, force bool) map[string]internal.Menu
	Sources() []string
}

type menusService struct {
	registry scraper.Registry
	clock    clock.Clock
}

func MenusService(registry scraper.Registry, c clock.Clock) MenuService {
	if c == nil {
		c = clock.System(nil)
	}
	return &menusService{
		registry: registry,
		clock:    c,
	}
}

func (s *menusService) Sources() []string {
	return s.registry.Descriptors()
}

func (s *menusService) Menu(ctx context.Context, sourceID string, force bool) internal.Menu {
	req := internal.MenuRequest{Now: s.clock.Now(), Force: force}
	return s.fetch(ctx, sourceID, req)
}

func (s *menusService) All(ctx context.Context, force bool) map[string]internal.Menu {
	return s.Select(ctx, s.registry.Descriptors(), force)
}

func (s *menusService) Select(ctx context.Context, sourceIDs []string, force bool) map[string]internal.Menu {
	req := internal.MenuRequest{Now: s.clock.Now(), Force: force}
	out := make(map[string]internal.Menu, len(sourceIDs))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range sourceIDs {
		wg.Go(func() {
			menu := s.fetch(ctx, id, req)
			mu.Lock()
			defer mu.Unlock()
			out[id] = menu
		})
	}
	wg.Wait()

	failed := 0
	for _, m := range out {
		if m.Failed() {
			failed++
		}
	}
	slog.Info("fetch-menus", "date", req.Now.Date, "force", force, "sources", len(out), "failed", failed)
	return out
}

// fetch is the boundary where errors and panics become Failure menus.
func (s *menusService) fetch(ctx context.Context, sourceID string, req internal.MenuRequest) (menu internal.Menu) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("fetch-menu: source panicked", "descriptor", sourceID, "panic", r, "stack", string(debug.Stack()))
			menu = internal.Failure(internal.ErrInternal.Error())
		}
	}()

	source, err := s.registry.GetSource(sourceID)
	if err != nil {
		return failure(sourceID, err)
	}
	menu, err = source.FetchMenu(ctx, req)
	if err != nil {
		return failure(sourceID, err)
	}
	if err := menu.Validate(); err != nil {
		return failure(sourceID, fmt.Errorf("%w: %w", internal.ErrParsing, err))
	}
	return menu
}

// failure maps err to the canonical message for its kind and logs it at a level matching
// how surprising it is. Temporal mismatches are routine.
func failure(sourceID string, err error) internal.Menu {
	log := slog.With("descriptor", sourceID, "error", err)
	var kind error
	switch {
	case internal.Temporal(err):
		log.Debug("fetch-menu: not current")
		if errors.Is(err, internal.ErrWrongWeek) {
			kind = internal.ErrWrongWeek
		} else {
			kind = internal.ErrWrongDay
		}
	case errors.Is(err, internal.ErrSourceNotFound):
		log.Info("fetch-menu: unknown source")
		kind = internal.ErrSourceNotFound
	case errors.Is(err, internal.ErrParsing):
		log.Info("fetch-menu: page did not parse")
		kind = internal.ErrParsing
	case errors.Is(err, internal.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		log.Warn("fetch-menu: timed out")
		kind = internal.ErrTimeout
	case errors.Is(err, internal.ErrFetch):
		log.Warn("fetch-menu: fetch failed")
		kind = internal.ErrFetch
	default:
		log.Error("fetch-menu: failed")
		kind = internal.ErrInternal
	}
	return internal.Failure(kind.Error())
}
