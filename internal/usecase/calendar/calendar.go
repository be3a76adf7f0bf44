package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Day is the calendar's view of one date.
type Day struct {
	Date    time.Time
	Hours   domain.DayHours
	Blocked *models.BlockedDate
}

// Effective returns the hours that apply on the date: closed when blocked.
func (d Day) Effective() domain.DayHours {
	if d.Blocked != nil {
		return domain.DayHours{Weekday: d.Hours.Weekday}
	}
	return d.Hours
}

type Calendar struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
}

func New(repo domain.Repository, audit *audit.Dispatcher, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{repo: repo, audit: audit, loc: loc}
}

func (c *Calendar) ParseDate(s string) (time.Time, error) {
	d, err := clock.ParseDate(s, c.loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "date", "date must be YYYY-MM-DD")
	}
	return d, nil
}

// ======================================================
// Business hours
// ======================================================

func (c *Calendar) Week(ctx context.Context) (domain.Week, error) {
	rows, err := c.repo.ListHours(ctx)
	if err != nil {
		return domain.Week{}, err
	}
	return domain.WeekFromModels(rows)
}

// Hours always returns seven entries ordered Monday first.
func (c *Calendar) Hours(ctx context.Context) ([]models.BusinessHours, error) {
	week, err := c.Week(ctx)
	if err != nil {
		return nil, err
	}
	return week.Models(), nil
}

// SetHours replaces the whole week in one transaction.
func (c *Calendar) SetHours(
	ctx context.Context,
	actor access.Actor,
	entries []domain.Entry,
) ([]models.BusinessHours, error) {

	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	week, err := domain.ParseWeek(entries)
	if err != nil {
		return nil, err
	}

	rows := week.Models()
	if err := c.repo.ReplaceHours(ctx, rows); err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "business_hours_updated",
		Entity:   "business_hours",
		Metadata: rows,
	})

	return rows, nil
}

// SeedDefaults stores the default week when no hours exist yet.
func (c *Calendar) SeedDefaults(ctx context.Context) (bool, error) {
	rows, err := c.repo.ListHours(ctx)
	if err != nil {
		return false, err
	}
	if len(rows) > 0 {
		return false, nil
	}
	return true, c.repo.ReplaceHours(ctx, domain.DefaultWeek().Models())
}

// ======================================================
// Queries
// ======================================================

func (c *Calendar) Day(ctx context.Context, date string) (Day, error) {
	d, err := c.ParseDate(date)
	if err != nil {
		return Day{}, err
	}

	weekday := domain.Weekday(d)
	day := Day{Date: d, Hours: domain.DayHours{Weekday: weekday}}

	row, err := c.repo.GetHours(ctx, weekday)
	if err != nil {
		return Day{}, err
	}
	if row != nil {
		if day.Hours, err = domain.DayFromModel(*row); err != nil {
			return Day{}, err
		}
	}

	if day.Blocked, err = c.repo.FindBlocked(ctx, clock.FormatDate(d)); err != nil {
		return Day{}, err
	}
	return day, nil
}

// IsOpen reports whether t on date lies inside opening hours of a
// non-blocked day.
func (c *Calendar) IsOpen(ctx context.Context, date string, t clock.Time) (bool, error) {
	day, err := c.Day(ctx, date)
	if err != nil {
		return false, err
	}
	return day.Effective().Contains(t), nil
}

// Fits returns a closed error unless [start, end) on date lies entirely
// inside opening hours of a non-blocked day.
func (c *Calendar) Fits(ctx context.Context, date string, start, end clock.Time) error {
	day, err := c.Day(ctx, date)
	if err != nil {
		return err
	}

	switch {
	case day.Blocked != nil:
		return httperr.Closed("date_blocked", "the selected date is blocked").
			WithDetail("reason", day.Blocked.Reason)
	case !day.Hours.IsOpen:
		return httperr.Closed("day_closed", "the selected day is not a business day")
	case !day.Hours.Fits(start, end):
		return httperr.Closed("outside_business_hours", "the selected time is outside business hours").
			WithDetail("open_time", day.Hours.Open.String()).
			WithDetail("close_time", day.Hours.Close.String())
	}
	return nil
}

// ======================================================
// Blocked dates
// ======================================================

func (c *Calendar) ListBlocked(ctx context.Context) ([]models.BlockedDate, error) {
	return c.repo.ListBlocked(ctx)
}

func (c *Calendar) BlockDate(
	ctx context.Context,
	actor access.Actor,
	date string,
	reason string,
) (*models.BlockedDate, error) {

	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	d, err := c.ParseDate(date)
	if err != nil {
		return nil, err
	}
	date = clock.FormatDate(d)

	existing, err := c.repo.FindBlocked(ctx, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.Conflict("date_already_blocked", "date "+date+" is already blocked")
	}

	b := &models.BlockedDate{Date: date, Reason: strings.TrimSpace(reason)}
	if err := c.repo.CreateBlocked(ctx, b); err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "date_blocked",
		Entity:   "blocked_date",
		EntityID: &b.ID,
		Metadata: map[string]string{"date": b.Date, "reason": b.Reason},
	})

	return b, nil
}

func (c *Calendar) UnblockDate(ctx context.Context, actor access.Actor, id uint) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	if err := c.repo.DeleteBlocked(ctx, id); err != nil {
		return err
	}

	c.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "date_unblocked",
		Entity:   "blocked_date",
		EntityID: &id,
	})
	return nil
}
