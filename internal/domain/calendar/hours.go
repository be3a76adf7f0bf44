package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const DaysPerWeek = 7

// Entry is the wire shape of one weekday's hours.
type Entry struct {
	DayOfWeek int    `json:"day_of_week"`
	IsOpen    bool   `json:"is_open"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type DayHours struct {
	Weekday int
	IsOpen  bool
	Open    clock.Time
	Close   clock.Time
}

// Contains reports whether t lies in [Open, Close) on an open day.
func (d DayHours) Contains(t clock.Time) bool {
	return d.IsOpen && t >= d.Open && t < d.Close
}

// Fits reports whether the whole interval [start, end) is inside opening hours.
func (d DayHours) Fits(start, end clock.Time) bool {
	return d.Contains(start) && end > start && end <= d.Close
}

// Week is indexed by weekday, 0 = Monday.
type Week [DaysPerWeek]DayHours

// Weekday maps Go's Sunday-first weekday onto the Monday-first index used by
// business hours.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseWeek validates a full replacement of the weekly hours: exactly one
// entry per weekday, and close after open on every open day.
func ParseWeek(entries []Entry) (Week, error) {
	var week Week

	if len(entries) != DaysPerWeek {
		return week, httperr.Validation(
			"invalid_business_hours", "business_hours",
			fmt.Sprintf("expected %d entries, got %d", DaysPerWeek, len(entries)),
		)
	}

	var seen [DaysPerWeek]bool
	for _, e := range entries {
		if e.DayOfWeek < 0 || e.DayOfWeek >= DaysPerWeek {
			return week, httperr.Validation(
				"invalid_day_of_week", "day_of_week",
				fmt.Sprintf("day_of_week %d is outside 0..6", e.DayOfWeek),
			)
		}
		if seen[e.DayOfWeek] {
			return week, httperr.Validation(
				"duplicate_day_of_week", "day_of_week",
				fmt.Sprintf("day_of_week %d appears more than once", e.DayOfWeek),
			)
		}
		seen[e.DayOfWeek] = true

		day := DayHours{Weekday: e.DayOfWeek, IsOpen: e.IsOpen}
		if e.IsOpen {
			open, err := clock.Parse(e.OpenTime)
			if err != nil {
				return week, httperr.Validation("invalid_open_time", "open_time", err.Error())
			}
			closing, err := clock.Parse(e.CloseTime)
			if err != nil {
				return week, httperr.Validation("invalid_close_time", "close_time", err.Error())
			}
			if closing <= open {
				return week, httperr.Validation(
					"close_before_open", "close_time",
					fmt.Sprintf("day %d closes at %s, not after opening at %s", e.DayOfWeek, closing, open),
				)
			}
			day.Open, day.Close = open, closing
		}
		week[e.DayOfWeek] = day
	}

	return week, nil
}

// DefaultWeek is Monday to Friday 09:00-20:00, closed at the weekend.
func DefaultWeek() Week {
	var week Week
	for d := 0; d < DaysPerWeek; d++ {
		week[d] = DayHours{Weekday: d}
		if d < 5 {
			week[d].IsOpen = true
			week[d].Open = clock.New(9, 0)
			week[d].Close = clock.New(20, 0)
		}
	}
	return week
}

func (w Week) Models() []models.BusinessHours {
	out := make([]models.BusinessHours, 0, DaysPerWeek)
	for _, d := range w {
		out = append(out, models.BusinessHours{
			DayOfWeek: d.Weekday,
			IsOpen:    d.IsOpen,
			OpenTime:  d.Open.String(),
			CloseTime: d.Close.String(),
		})
	}
	return out
}

// WeekFromModels builds a week from stored rows. Missing weekdays are closed.
func WeekFromModels(rows []models.BusinessHours) (Week, error) {
	var week Week
	for d := range week {
		week[d] = DayHours{Weekday: d}
	}

	for _, row := range rows {
		if row.DayOfWeek < 0 || row.DayOfWeek >= DaysPerWeek {
			continue
		}
		day, err := DayFromModel(row)
		if err != nil {
			return week, err
		}
		week[row.DayOfWeek] = day
	}
	return week, nil
}

func DayFromModel(row models.BusinessHours) (DayHours, error) {
	day := DayHours{Weekday: row.DayOfWeek, IsOpen: row.IsOpen}
	if !row.IsOpen {
		return day, nil
	}

	open, err := clock.Parse(row.OpenTime)
	if err != nil {
		return day, fmt.Errorf("business hours for day %d: %w", row.DayOfWeek, err)
	}
	closing, err := clock.Parse(row.CloseTime)
	if err != nil {
		return day, fmt.Errorf("business hours for day %d: %w", row.DayOfWeek, err)
	}
	day.Open, day.Close = open, closing
	return day, nil
}

func SortHours(rows []models.BusinessHours) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].DayOfWeek < rows[j].DayOfWeek
	})
}
