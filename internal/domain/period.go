package domain

import (
	"errors"
	"fmt"
	"time"
)

// Classification describes where a completion attempt falls relative to the
// habit's previous completion.
type Classification int

const (
	// FirstEver means the habit has never been completed.
	FirstEver Classification = iota
	// Duplicate means a completion is already logged for the current period.
	Duplicate
	// Continuation means the previous completion fell in the immediately preceding period.
	Continuation
	// Reset means at least one period was missed since the previous completion.
	Reset
)

func (c Classification) String() string {
	switch c {
	case FirstEver:
		return "first_ever"
	case Duplicate:
		return "duplicate"
	case Continuation:
		return "continuation"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// ErrUnsupportedCadence is returned when a cadence has no period definition.
var ErrUnsupportedCadence = errors.New("unsupported cadence")

// periodIndex maps an instant to the ordinal of the period containing it.
// Consecutive periods have consecutive indexes.
type periodIndex func(t time.Time, loc *time.Location) int64

var periodIndexes = map[Cadence]periodIndex{
	CadenceDaily: dayIndex,
}

// dayIndex numbers calendar days in loc. It works on the civil date so that
// days shortened or lengthened by DST still count as exactly one period.
func dayIndex(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Classify classifies a completion attempt at now for a habit with the given
// cadence and last completion. A nil loc means UTC.
//
// A last completion in a period after now's period (clock skew) is reported
// as Duplicate so a streak is never advanced twice for one period.
func Classify(cadence Cadence, lastCompletedAt *time.Time, now time.Time, loc *time.Location) (Classification, error) {
	index, ok := periodIndexes[cadence]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCadence, cadence)
	}
	if lastCompletedAt == nil {
		return FirstEver, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	diff := index(now, loc) - index(*lastCompletedAt, loc)
	switch {
	case diff <= 0:
		return Duplicate, nil
	case diff == 1:
		return Continuation, nil
	default:
		return Reset, nil
	}
}
