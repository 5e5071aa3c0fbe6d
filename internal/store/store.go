package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/drewfead/lunchmap/internal"
)

// Entry is the last successful menu for a source and the date it was computed for.
type Entry struct {
	Date    string        `json:"date"`
	Content internal.Menu `json:"content"`
}

// FreshFor reports whether e was computed for date.
func (e Entry) FreshFor(date string) bool {
	return e.Date != "" && e.Date == date
}

// Store holds at most one Entry per source identifier. Get reports ok=false on a miss.
// Freshness is decided by the caller comparing Entry.Date with its own date.
type Store interface {
	Get(ctx context.Context, sourceID string) (Entry, bool, error)
	Put(ctx context.Context, sourceID string, entry Entry) error
}

var (
	ErrInvalidKey   = errors.New("invalid source identifier")
	ErrInvalidEntry = errors.New("invalid cache entry")
)

func validateKey(sourceID string) error {
	if sourceID == "" || strings.ContainsAny(sourceID, `/\:`) || strings.Contains(sourceID, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, sourceID)
	}
	return nil
}

func validateEntry(entry Entry) error {
	if entry.Date == "" {
		return fmt.Errorf("%w: missing date", ErrInvalidEntry)
	}
	if entry.Content.Failed() {
		return fmt.Errorf("%w: failures are not cached", ErrInvalidEntry)
	}
	if err := entry.Content.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return nil
}
