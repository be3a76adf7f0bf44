// Package slots enumerates bookable start times inside a day's opening hours.
package slots

import (
	"iter"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
)

const (
	DefaultStep     = 30
	DefaultDuration = 30
)

// Candidates yields every start t = open + k*step such that
// [t, t+duration) fits inside [open, close). The sequence is recomputed on
// each range, so it can be iterated any number of times.
func Candidates(day calendar.DayHours, duration, step int) iter.Seq[clock.Time] {
	if step <= 0 {
		step = DefaultStep
	}

	return func(yield func(clock.Time) bool) {
		if !day.IsOpen || duration <= 0 {
			return
		}
		for t := day.Open; t.Add(duration) <= day.Close; t = t.Add(step) {
			if !yield(t) {
				return
			}
		}
	}
}

// Strings collects a sequence as "HH:MM" values.
func Strings(seq iter.Seq[clock.Time]) []string {
	out := []string{}
	for t := range seq {
		out = append(out, t.String())
	}
	return out
}
