package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/drewfead/lunchmap/internal"
)

const defaultP2BaseURL = "https://www.restaurangp2.se"

type p2Source struct {
	page
}

// P2 states the week as "Vecka N" and keeps each day in an element with the English weekday as id.
func P2(opts ...Option) internal.Source {
	return &p2Source{page: newPage("p2", defaultP2BaseURL, "/lunch", "index.html", opts)}
}

func (s *p2Source) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	fields := strings.Fields(doc.Find(".week_number").First().Text())
	if len(fields) < 2 {
		return internal.Menu{}, fmt.Errorf("%w: no week number", internal.ErrParsing)
	}
	if week, err := strconv.Atoi(fields[1]); err != nil || week != req.Now.Week {
		return internal.Menu{}, fmt.Errorf("%w: page shows week %s, want %d", internal.ErrWrongWeek, fields[1], req.Now.Week)
	}

	day := doc.Find("#" + req.Now.WeekdayEN())
	if day.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no section for %s", internal.ErrWrongDay, req.Now.WeekdayEN())
	}

	var dishes []internal.Dish
	var parseErr error
	day.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := compact(texts(row.Find("p")))
		if len(cells) < 2 {
			parseErr = fmt.Errorf("%w: row %d has %d non-empty paragraphs", internal.ErrParsing, i, len(cells))
			return false
		}
		d, err := dish(cells[0], cells[1])
		if err != nil {
			parseErr = err
			return false
		}
		dishes = append(dishes, d)
		return true
	})
	if parseErr != nil {
		return internal.Menu{}, parseErr
	}
	if len(dishes) == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no rows for %s", internal.ErrParsing, req.Now.WeekdayEN())
	}
	return internal.TitledList(dishes...), nil
}
