package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/drewfead/lunchmap/internal"
)

const defaultMiamariasBaseURL = "http://www.miamarias.nu"

// miamariasCategories are the dish slots in the order the restaurant lists them.
var miamariasCategories = []string{"Fisk", "Kött", "Veg"}

type miamariasSource struct {
	page
}

// Miamarias lists the day's fish, meat and vegetarian dish under a toggle titled with the date.
func Miamarias(opts ...Option) internal.Source {
	return &miamariasSource{page: newPage("miamarias", defaultMiamariasBaseURL, "/", "index.html", opts)}
}

func (s *miamariasSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	date := req.Now.DayMonth()
	toggle := doc.Find("h5.et_pb_toggle_title").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return containsToken(h.Text(), date)
	}).First()
	if toggle.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no toggle titled %s", internal.ErrWrongDay, date)
	}

	var dishes []string
	for _, text := range compact(texts(toggle.Parent().Find("p, span"))) {
		// Price headings such as "Dagens fisk 125 kr" separate the dishes.
		if strings.HasSuffix(text, " kr") {
			continue
		}
		dishes = append(dishes, text)
	}
	// A paragraph and the span inside it carry the same text.
	dishes = dedupeKeepLast(dishes)
	if len(dishes) < len(miamariasCategories) {
		return internal.Menu{}, fmt.Errorf("%w: found %d dishes, want %d", internal.ErrParsing, len(dishes), len(miamariasCategories))
	}

	menu := make([]internal.Dish, len(miamariasCategories))
	for i, category := range miamariasCategories {
		menu[i] = internal.Dish{Title: category, Description: dishes[i]}
	}
	slog.Debug("miamarias: parsed menu", "date", date, "dishes", len(dishes))
	return internal.TitledList(menu...), nil
}
