package internal

import "errors"

// One message per failure kind. Sources add detail with fmt.Errorf("%w: ...").
var (
	ErrWrongWeek      = errors.New("wrong week")
	ErrWrongDay       = errors.New("wrong day")
	ErrParsing        = errors.New("parsing failed")
	ErrFetch          = errors.New("fetch failed")
	ErrTimeout        = errors.New("timed out")
	ErrInternal       = errors.New("internal error")
	ErrSourceNotFound = errors.New("unknown source")
)

// Temporal reports whether err means the page is fine but describes another day or week.
func Temporal(err error) bool {
	return errors.Is(err, ErrWrongWeek) || errors.Is(err, ErrWrongDay)
}
