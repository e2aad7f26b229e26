package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const dateOnly = "2006-01-02"

// DateBound selects how a date-only value is widened.
type DateBound int

const (
	StartOfDay DateBound = iota
	EndOfDay
)

// ParseDate parses RFC3339 or YYYY-MM-DD. Blank input yields nil. A date-only
// value used as an upper bound is widened to the last instant of that day so
// the range stays inclusive.
func ParseDate(raw string, bound DateBound) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateOnly, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", raw)
	}
	if bound == EndOfDay {
		t = now.With(t).EndOfDay()
	}
	return &t, nil
}
