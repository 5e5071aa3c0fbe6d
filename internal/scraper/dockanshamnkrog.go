package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/drewfead/lunchmap/internal"
)

const defaultDockanshamnkrogBaseURL = "http://dockanshamnkrog.se"

// trailingNumber matches the week at the end of "LUNCH VECKA 10".
var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

type dockanshamnkrogSource struct {
	page
}

// Dockanshamnkrog writes the week as "VECKA N" under a "Lunch" heading, then one paragraph
// per day: the weekday on the first line and the dish after it.
func Dockanshamnkrog(opts ...Option) internal.Source {
	return &dockanshamnkrogSource{page: newPage("dockanshamnkrog", defaultDockanshamnkrogBaseURL, "/lunchmeny/", "index.html", opts)}
}

func (s *dockanshamnkrogSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return internal.Menu{}, err
	}

	menu := containing(doc.Find("h2"), "Lunch").First().Parent()
	if menu.Length() == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no lunch section", internal.ErrParsing)
	}

	weekText := clean(containing(menu.Children(), "VECKA").First().Text())
	match := trailingNumber.FindStringSubmatch(weekText)
	if match == nil {
		return internal.Menu{}, fmt.Errorf("%w: no week in %q", internal.ErrWrongWeek, weekText)
	}
	if week, _ := strconv.Atoi(match[1]); week != req.Now.Week {
		return internal.Menu{}, fmt.Errorf("%w: page shows week %d, want %d", internal.ErrWrongWeek, week, req.Now.Week)
	}

	weekday := req.Now.WeekdayTitle()
	day := containing(menu.ChildrenFiltered("p"), weekday).First()
	if day.Length() == 0 || clean(day.Text()) == "" {
		return internal.Menu{}, fmt.Errorf("%w: no paragraph for %s", internal.ErrWrongDay, weekday)
	}
	rows := lines(day)
	if len(rows) < 2 {
		return internal.Menu{}, fmt.Errorf("%w: nothing listed under %s", internal.ErrParsing, weekday)
	}
	return internal.SimpleList(rows[1:]...), nil
}
