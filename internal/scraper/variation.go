package scraper

import (
	"context"
	"fmt"

	"github.com/drewfead/lunchmap/internal"
)

const (
	defaultVariationBaseURL = "https://www.nyavariation.se"
	variationBuffetHeading  = "Dagens buffé:"
)

type variationSource struct {
	page
}

// Variation builds its lunch page with Elementor: a weekday heading widget followed by a
// text widget listing the buffet.
func Variation(opts ...Option) internal.Source {
	return &variationSource{page: newPage("variation", defaultVariationBaseURL, "/lunch_malmo/", "index.html", opts)}
}

func (s *variationSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	weekday := req.Now.WeekdayTitle()
	heading := containing(doc.Find("h4"), weekday).First()
	if heading.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no heading for %s", internal.ErrWrongDay, weekday)
	}

	list := heading.ParentsFiltered(".elementor-widget-wrap").First().
		Find(".elementor-widget-container").Last().
		Find("ul").First()
	dishes := compact(texts(list.Children()))
	if len(dishes) == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no buffet list for %s", internal.ErrParsing, weekday)
	}
	return internal.SimpleList(append([]string{variationBuffetHeading}, dishes...)...), nil
}
