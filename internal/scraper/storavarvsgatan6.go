package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/drewfead/lunchmap/internal"
)

const defaultStoravarvsgatan6BaseURL = "https://storavarvsgatan6.se"

type storavarvsgatan6Source struct {
	page
}

// Storavarvsgatan6 is a flat run of paragraphs: "Veckans meny v.N", then each weekday
// followed by its dishes and a blank paragraph.
func Storavarvsgatan6(opts ...Option) internal.Source {
	return &storavarvsgatan6Source{page: newPage("storavarvsgatan6", defaultStoravarvsgatan6BaseURL, "/meny.html", "meny.html", opts)}
}

func (s *storavarvsgatan6Source) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	heading := containing(doc.Find("p"), "Veckans meny").First()
	parts := strings.Split(clean(heading.Text()), ".")
	week, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if heading.Length() == 0 || err != nil || week != req.Now.Week {
		return internal.Menu{}, fmt.Errorf("%w: weekly menu not yet posted", internal.ErrWrongWeek)
	}

	weekday := req.Now.WeekdayTitle()
	day := containing(heading.SiblingsFiltered("p"), weekday).First()
	if day.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no paragraph for %s", internal.ErrWrongDay, weekday)
	}

	var dishes []string
	for row := day.Next(); row.Length() > 0; row = row.Next() {
		text := clean(row.Text())
		if text == "" {
			break
		}
		dishes = append(dishes, text)
	}
	if len(dishes) == 0 {
		return internal.Menu{}, fmt.Errorf("%w: nothing listed under %s", internal.ErrParsing, weekday)
	}
	return internal.SimpleList(dishes...), nil
}
