package timezone

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
)

const DefaultTimezone = "Europe/Sofia"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, then UTC, when tz cannot be loaded.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

// Today is the current calendar date in loc as "YYYY-MM-DD".
func Today(loc *time.Location) string {
	return clock.FormatDate(NowIn(loc))
}
