package scraper

import (
	"fmt"

	"github.com/drewfead/lunchmap/internal"
)

type constructor struct {
	descriptor string
	build      func(...Option) internal.Source
}

// scraped lists every source that reads a live page, in display order.
var scraped = []constructor{
	{"miamarias", Miamarias},
	{"spill", Spill},
	{"kolga", Kolga},
	{"variation", Variation},
	{"p2", P2},
	{"dockanshamnkrog", Dockanshamnkrog},
	{"namdo", Namdo},
	{"storavarvsgatan6", Storavarvsgatan6},
	{"thapthim", Thapthim},
}

// ScrapedDescriptors returns the identifiers of every page-backed source.
func ScrapedDescriptors() []string {
	out := make([]string, len(scraped))
	for i, c := range scraped {
		out[i] = c.descriptor
	}
	return out
}

// New builds the page-backed source registered under descriptor.
func New(descriptor string, opts ...Option) (internal.Source, error) {
	for _, c := range scraped {
		if c.descriptor == descriptor {
			return c.build(opts...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, descriptor)
}

// Statics returns every source with a fixed answer.
func Statics() []internal.Source {
	return []internal.Source{
		DocksideBurgers(),
		Laziza(),
		VHPizzeria(),
		CurryRepublik(),
		ThaiSushiForYou(),
	}
}
