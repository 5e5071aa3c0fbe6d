package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/drewfead/lunchmap/internal"
)

const defaultSpillBaseURL = "https://restaurangspill.se"

type spillSource struct {
	page
}

// Spill posts a single "today" block headed "Dagens lunch, DD/M".
func Spill(opts ...Option) internal.Source {
	return &spillSource{page: newPage("spill", defaultSpillBaseURL, "/", "index.html", opts)}
}

func (s *spillSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	heading := doc.Find("#dagens .uppercase").First()
	if heading.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no #dagens heading", internal.ErrParsing)
	}
	_, day, ok := strings.Cut(heading.Text(), ",")
	if !ok {
		return internal.Menu{}, fmt.Errorf("%w: heading %q has no date", internal.ErrParsing, clean(heading.Text()))
	}
	if want := req.Now.PaddedDayMonth(); clean(day) != want {
		return internal.Menu{}, fmt.Errorf("%w: page shows %s, want %s", internal.ErrWrongDay, clean(day), want)
	}

	dishes := compact(texts(heading.Siblings().Children()))
	if len(dishes) == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no dishes under heading", internal.ErrParsing)
	}
	return internal.SimpleList(dishes...), nil
}
