package scraper

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/drewfead/lunchmap/internal"
)

const defaultKolgaBaseURL = "https://kolga.gastrogate.com"

type kolgaSource struct {
	page
}

// Kolga publishes a week of tables on gastrogate, one per day, headed "Måndag 4 mars".
func Kolga(opts ...Option) internal.Source {
	return &kolgaSource{page: newPage("kolga", defaultKolgaBaseURL, "/lunch/", "index.html", opts)}
}

func (s *kolgaSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	weekday := req.Now.WeekdayTitle()
	day := strconv.Itoa(req.Now.Day)
	header := containing(doc.Find(".menu_header h3"), weekday).FilterFunction(func(_ int, h *goquery.Selection) bool {
		return containsToken(h.Text(), day)
	}).First()
	if header.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no header for %s %s", internal.ErrWrongDay, weekday, day)
	}

	body := header.ParentsFiltered("thead").First().SiblingsFiltered("tbody").First()
	dishes := compact(texts(body.Find(".td_title")))
	if len(dishes) == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no dishes under %q", internal.ErrParsing, clean(header.Text()))
	}
	return internal.SimpleList(dishes...), nil
}
