package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drewfead/lunchmap/internal"
)

const (
	defaultThapthimBaseURL = "https://cdn.thapthim.se"
	thapthimWeeklyKey      = "Veckans"
)

type thapthimSource struct {
	page
}

// Thapthim serves JSON keyed by "Veckans" and capitalised Swedish weekdays. Every value is a
// list of [title, description] pairs padded with nulls and empty strings.
func Thapthim(opts ...Option) internal.Source {
	return &thapthimSource{page: newPage("thapthim", defaultThapthimBaseURL, "/data/lunchdata.json", "lunchdata.json", opts)}
}

type thapthimPayload struct {
	WeekExp map[string]json.RawMessage `json:"weekexp"`
}

func (s *thapthimSource) FetchMenu(ctx context.Context, req internal.MenuRequest) (internal.Menu, error) {
	body, err := s.get(ctx)
	if err != nil {
		return internal.Menu{}, err
	}
	var payload thapthimPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return internal.Menu{}, fmt.Errorf("%w: decode lunch data: %w", internal.ErrParsing, err)
	}

	weekly, err := thapthimMeals(payload.WeekExp[thapthimWeeklyKey])
	if err != nil {
		return internal.Menu{}, err
	}
	weekday := req.Now.WeekdayTitle()
	daily, err := thapthimMeals(payload.WeekExp[weekday])
	if err != nil {
		return internal.Menu{}, err
	}
	if len(daily) == 0 {
		return internal.Menu{}, fmt.Errorf("%w: no dishes for %s", internal.ErrWrongDay, weekday)
	}

	var segments []internal.Segment
	if len(weekly) > 0 {
		segments = append(segments, internal.Segment{Header: thapthimWeeklyKey, Contents: weekly})
	}
	segments = append(segments, internal.Segment{Header: weekday, Contents: daily})
	return internal.SegmentedList(segments...), nil
}

// thapthimMeals skips null and empty placeholders and decodes the remaining pairs.
func thapthimMeals(raw json.RawMessage) ([]internal.Dish, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: meal list: %w", internal.ErrParsing, err)
	}
	var dishes []internal.Dish
	for _, item := range items {
		switch strings.TrimSpace(string(item)) {
		case "null", `""`, "false", "0":
			continue
		}
		var pair []string
		if err := json.Unmarshal(item, &pair); err != nil {
			return nil, fmt.Errorf("%w: meal %s: %w", internal.ErrParsing, item, err)
		}
		if len(pair) < 2 {
			return nil, fmt.Errorf("%w: meal %s has %d fields", internal.ErrParsing, item, len(pair))
		}
		d, err := dish(cleanEncoded(pair[0]), cleanEncoded(pair[1]))
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, nil
}
