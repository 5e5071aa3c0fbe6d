package scraper

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/drewfead/lunchmap/internal"
)

// clean collapses runs of whitespace (including non-breaking spaces) and trims the result.
func clean(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\u200b'
}

// cleanEncoded is clean for text that did not come through an HTML parser and may still
// carry entities or numeric character references.
func cleanEncoded(s string) string {
	return clean(html.UnescapeString(s))
}

// compact cleans every item and drops the ones left empty.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = clean(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// dish pairs a cleaned title with a cleaned description. A side left blank is a parsing fault.
func dish(title, description string) (internal.Dish, error) {
	title, description = clean(title), clean(description)
	if title == "" || description == "" {
		return internal.Dish{}, fmt.Errorf("%w: dish %q has a blank field", internal.ErrParsing, title+" / "+description)
	}
	return internal.Dish{Title: title, Description: description}, nil
}

// dedupeKeepLast drops every item that appears again later in the list.
func dedupeKeepLast(items []string) []string {
	last := make(map[string]int, len(items))
	for i, item := range items {
		last[item] = i
	}
	out := make([]string, 0, len(last))
	for i, item := range items {
		if last[item] == i {
			out = append(out, item)
		}
	}
	return out
}

func texts(sel *goquery.Selection) []string {
	return sel.Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
}

// containing keeps the elements of sel whose text contains every needle.
func containing(sel *goquery.Selection, needles ...string) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		for _, n := range needles {
			if !strings.Contains(text, n) {
				return false
			}
		}
		return true
	})
}

// containsToken reports whether token occurs in text without a digit directly on either
// side, so "4/3" matches "Måndag 4/3" but not "14/3".
func containsToken(text, token string) bool {
	if token == "" {
		return false
	}
	for offset := 0; ; {
		i := strings.Index(text[offset:], token)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(token)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsDigit(before) && !unicode.IsDigit(after) {
			return true
		}
		offset = start + 1
	}
}

// lines splits an element's text at <br> tags and newlines, cleaning every line and
// dropping blank ones.
func lines(sel *goquery.Selection) []string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			switch goquery.NodeName(c) {
			case "#text":
				b.WriteString(c.Get(0).Data)
			case "br":
				b.WriteByte('\n')
			default:
				walk(c)
			}
		})
	}
	walk(sel.First())
	return compact(strings.Split(b.String(), "\n"))
}
