package scraper

import (
	"context"
	"fmt"

	"github.com/drewfead/lunchmap/internal"
)

const defaultNamdoBaseURL = "http://namdo.se"

type namdoSource struct {
	page
}

// Namdo alternates two menus by week parity. Each day is a Five Star Restaurant Menu section
// classed fdm-section-<weekday>-<jamn|ojamn>.
func Namdo(opts ...Option) internal.Source {
	return &namdoSource{page: newPage("namdo", defaultNamdoBaseURL, "/meny/", "index.html", opts)}
}

func namdoSection(req internal.MenuRequest) string {
	parity := "ojamn"
	if req.Now.EvenWeek() {
		parity = "jamn"
	}
	return fmt.Sprintf(".fdm-section-%s-%s", req.Now.WeekdayASCII(), parity)
}

func (s *namdoSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	selector := namdoSection(req)
	section := doc.Find(selector)
	if section.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no %s section", internal.ErrWrongDay, selector)
	}

	titles := texts(section.Find(".fdm-item-title"))
	descriptions := texts(section.Find(".fdm-item-content"))
	if len(titles) != len(descriptions) {
		return internal.Menu{}, fmt.Errorf("%w: length mismatch: %d titles, %d descriptions", internal.ErrParsing, len(titles), len(descriptions))
	}
	if len(titles) == 0 {
		return internal.Menu{}, fmt.Errorf("%w: empty %s section", internal.ErrParsing, selector)
	}

	dishes := make([]internal.Dish, len(titles))
	for i := range titles {
		if dishes[i], err = dish(titles[i], descriptions[i]); err != nil {
			return internal.Menu{}, err
		}
	}
	return internal.TitledList(dishes...), nil
}
