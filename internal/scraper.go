package internal

import (
	"context"
	"net/http"

	"github.com/drewfead/lunchmap/internal/clock"
)

type Source interface {
	// Descriptor returns the source identifier (registry key, cache key and response key).
	Descriptor() string
	// FetchMenu returns today's menu. Errors are returned as-is; callers turn them into Failure menus.
	FetchMenu(ctx context.Context, req MenuRequest) (Menu, error)
}

// GoldenSource extends Source with the ability to pull and replay golden test data.
type GoldenSource interface {
	Source
	PullGolden(ctx context.Context, goldenDir string) error
	MountGolden(ctx context.Context, goldenDir string) (http.Handler, error)
}

// MenuRequest is threaded unchanged to every source handling one request.
type MenuRequest struct {
	Now   clock.Now
	Force bool
}
