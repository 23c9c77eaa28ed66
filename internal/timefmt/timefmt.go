// Package timefmt implements the fixed time-of-day grammar shared by the
// webhook (which stores the user's text untouched) and the scanner (which
// parses it when deciding whether a row is due).
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// The grammar is 12-hour with an am/pm marker, minutes optional:
// "8 pm", "9:00 am", "12:30 PM".
var layouts = []string{"3:04 PM", "3 PM"}

// ErrBadTime reports text outside the reminder time grammar.
var ErrBadTime = errors.New("unrecognized time of day")

// TimeOfDay is a parsed wall-clock time with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Parse interprets s against the reminder time grammar. Matching is
// case-insensitive and ignores surrounding whitespace.
func Parse(s string) (TimeOfDay, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range layouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTime, s)
}

// On splices the time of day onto day's calendar date, in day's location.
func (td TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), td.Hour, td.Minute, 0, 0, day.Location())
}
