package clock

import (
	"fmt"
	"time"
	_ "time/tzdata"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultZone is the zone every restaurant publishes its menu in.
const DefaultZone = "Europe/Stockholm"

// Stockholm is the location for DefaultZone, loaded once at startup.
var Stockholm *time.Location

func init() {
	loc, err := time.LoadLocation(DefaultZone)
	if err != nil {
		panic(fmt.Sprintf("load %s: %v", DefaultZone, err))
	}
	Stockholm = loc
}

// Clock hands out the request-scoped Now. Services capture it once per request.
type Clock interface {
	Now() Now
}

type systemClock struct {
	loc *time.Location
}

// System returns a Clock backed by the wall clock, evaluated in loc (Stockholm when nil).
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = Stockholm
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() Now {
	return At(time.Now().In(c.loc))
}

type fixedClock struct {
	now Now
}

// Fixed returns a Clock that always reports t. Used by tests and the CLI --date flag.
func Fixed(t time.Time) Clock {
	return fixedClock{now: At(t)}
}

func (c fixedClock) Now() Now {
	return c.now
}

// Now is everything a source needs to know about "today", derived from one instant.
type Now struct {
	Time    time.Time
	Date    string
	Year    int
	Week    int
	Month   time.Month
	Day     int
	Weekday time.Weekday
}

// At derives a Now from t in t's own location.
func At(t time.Time) Now {
	year, week := t.ISOWeek()
	return Now{
		Time:    t,
		Date:    t.Format(time.DateOnly),
		Year:    year,
		Week:    week,
		Month:   t.Month(),
		Day:     t.Day(),
		Weekday: t.Weekday(),
	}
}

// Parse reads a YYYY-MM-DD date in loc and returns the Now for noon that day.
func Parse(date string, loc *time.Location) (Now, error) {
	if loc == nil {
		loc = Stockholm
	}
	t, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return Now{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return At(t.Add(12 * time.Hour)), nil
}

var swedishWeekdays = [...]string{
	time.Sunday:    "söndag",
	time.Monday:    "måndag",
	time.Tuesday:   "tisdag",
	time.Wednesday: "onsdag",
	time.Thursday:  "torsdag",
	time.Friday:    "fredag",
	time.Saturday:  "lördag",
}

// WeekdaySV is the lower-case Swedish weekday name, e.g. "måndag".
func (n Now) WeekdaySV() string {
	return swedishWeekdays[n.Weekday]
}

// WeekdayTitle is the capitalised Swedish weekday name, e.g. "Måndag".
func (n Now) WeekdayTitle() string {
	return cases.Title(language.Swedish).String(n.WeekdaySV())
}

// WeekdayEN is the lower-case English weekday name, e.g. "monday".
func (n Now) WeekdayEN() string {
	return cases.Lower(language.English).String(n.Weekday.String())
}

// WeekdayASCII is WeekdaySV with diacritics folded away, e.g. "mandag".
func (n Now) WeekdayASCII() string {
	return Fold(n.WeekdaySV())
}

// DayMonth formats the date as "D/M", e.g. "5/3".
func (n Now) DayMonth() string {
	return fmt.Sprintf("%d/%d", n.Day, n.Month)
}

// PaddedDayMonth formats the date as "DD/M", e.g. "05/3".
func (n Now) PaddedDayMonth() string {
	return fmt.Sprintf("%02d/%d", n.Day, n.Month)
}

// EvenWeek reports whether the ISO week number is even.
func (n Now) EvenWeek() bool {
	return n.Week%2 == 0
}

// Fold strips combining marks so "lördag" becomes "lordag".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
