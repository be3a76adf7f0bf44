// Package ledger owns appointment records. Every write that can create an
// overlap runs under a per-date lock and inside a per-date transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/slots"
)

type ServiceReader interface {
	Get(ctx context.Context, id uint) (*models.Service, error)
}

// Fitter checks an interval against business hours and blocked dates.
type Fitter interface {
	Fits(ctx context.Context, date string, start, end clock.Time) error
}

type Ledger struct {
	repo     domain.Repository
	services ServiceReader
	calendar Fitter
	slots    *slots.Generator
	locker   lock.Locker
}

func New(
	repo domain.Repository,
	services ServiceReader,
	calendar Fitter,
	generator *slots.Generator,
	locker lock.Locker,
) *Ledger {
	if locker == nil {
		locker = lock.NewMemory()
	}
	return &Ledger{
		repo:     repo,
		services: services,
		calendar: calendar,
		slots:    generator,
		locker:   locker,
	}
}

func lockKey(date string) string {
	return "appointments:" + date
}

// ======================================================
// Reads
// ======================================================

func (l *Ledger) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	return l.repo.Get(ctx, id)
}

func (l *Ledger) List(ctx context.Context, f domain.Filter) ([]models.Appointment, error) {
	return l.repo.List(ctx, f)
}

func (l *Ledger) CountByService(ctx context.Context, serviceID uint) (int64, error) {
	return l.repo.CountByService(ctx, serviceID)
}

// FindConflicts returns non-cancelled appointments on date overlapping
// [start, end), ignoring excludeID.
func (l *Ledger) FindConflicts(
	ctx context.Context,
	date string,
	start, end clock.Time,
	excludeID uint,
) ([]models.Appointment, error) {
	return findConflicts(ctx, l.repo, date, start, end, excludeID)
}

// AvailableSlots splits the candidate starts for the service into free and
// taken ones. A candidate is taken when its interval overlaps any
// non-cancelled appointment of the day.
func (l *Ledger) AvailableSlots(ctx context.Context, date string, serviceID uint) (domain.Availability, error) {
	plan, err := l.slots.Generate(ctx, date, serviceID)
	if err != nil {
		return domain.Availability{}, err
	}

	out := domain.Availability{
		Date:           plan.Date,
		AvailableSlots: []string{},
		BookedSlots:    []string{},
		AllSlots:       []string{},
	}

	day, err := l.repo.List(ctx, domain.Filter{Date: plan.Date})
	if err != nil {
		return domain.Availability{}, err
	}
	booked := domain.FilterByDate(day, plan.Date)

	for start := range plan.Slots {
		s := start.String()
		out.AllSlots = append(out.AllSlots, s)
		if len(domain.Conflicts(booked, start, start.Add(plan.Duration), 0)) > 0 {
			out.BookedSlots = append(out.BookedSlots, s)
		} else {
			out.AvailableSlots = append(out.AvailableSlots, s)
		}
	}
	return out, nil
}

// ======================================================
// Writes
// ======================================================

// Create inserts ap as pending. ap must carry Date, StartTime and EndTime.
// Concurrent creates for the same date are serialized so that at most one
// of two overlapping requests succeeds.
func (l *Ledger) Create(ctx context.Context, ap *models.Appointment) error {
	start, end, err := domain.Interval(*ap)
	if err != nil {
		return httperr.Validation("invalid_time", "start_time", err.Error())
	}

	unlock, err := l.locker.Lock(ctx, lockKey(ap.Date))
	if err != nil {
		return fmt.Errorf("lock %s: %w", ap.Date, err)
	}
	defer unlock()

	err = l.repo.Atomic(ctx, ap.Date, func(tx domain.Repository) error {
		if err := assertFree(ctx, tx, ap.Date, start, end, 0); err != nil {
			return err
		}
		ap.Status = string(domain.InitialStatus())
		return tx.Create(ctx, ap)
	})
	return classify(err)
}

// UpdateStatus applies a guarded transition.
func (l *Ledger) UpdateStatus(ctx context.Context, id uint, to domain.Status) (*models.Appointment, error) {
	cur, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var out *models.Appointment
	err = l.repo.Atomic(ctx, cur.Date, func(tx domain.Repository) error {
		ap, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.Transition(ap, to); err != nil {
			return err
		}
		if err := tx.Update(ctx, ap); err != nil {
			return err
		}
		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Patch lists the fields ForceSet may overwrite. Nil means unchanged.
type Patch struct {
	Name           *string
	Phone          *string
	Message        *string
	BarberNotes    *string
	ServiceID      *uint
	Date           *string
	StartTime      *string
	Status         *domain.Status
	Price          *float64
	ClientRating   *int
	ClientFeedback *string
}

// forceSetAttempts bounds how often ForceSet starts over when the row
// changes between the first read and the transaction.
const forceSetAttempts = 3

var errStaleRead = errors.New("appointment changed during edit")

// ForceSet is the administrative edit. It bypasses the status state
// machine, but a change of date, time or service is re-validated against
// the calendar and the ledger, and so is re-activating a cancelled
// appointment. Changing the service re-snapshots the price unless Price is
// part of the patch.
//
// The edit is recomputed from the row as read inside the transaction. If
// its status, schedule or service moved since the first read, ForceSet
// starts over.
func (l *Ledger) ForceSet(ctx context.Context, id uint, p Patch) (*models.Appointment, error) {
	for attempt := 1; ; attempt++ {
		out, err := l.forceSet(ctx, id, p)
		if !errors.Is(err, errStaleRead) {
			return out, err
		}
		if attempt == forceSetAttempts {
			return nil, httperr.Conflict("concurrent_update", "the appointment was changed by another request, try again")
		}
	}
}

func (l *Ledger) forceSet(ctx context.Context, id uint, p Patch) (*models.Appointment, error) {
	cur, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	svc, err := l.serviceFor(ctx, cur, p)
	if err != nil {
		return nil, err
	}

	e, err := buildEdit(cur, p, svc)
	if err != nil {
		return nil, err
	}
	if e.scheduleChanged && e.occupies {
		if err := l.calendar.Fits(ctx, e.next.Date, e.start, e.end); err != nil {
			return nil, err
		}
	}

	unlock, err := l.lockDates(ctx, cur.Date, e.next.Date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out models.Appointment
	err = l.repo.Atomic(ctx, e.next.Date, func(tx domain.Repository) error {
		fresh, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !sameSlot(fresh, cur) {
			return errStaleRead
		}

		e, err := buildEdit(fresh, p, svc)
		if err != nil {
			return err
		}
		if e.check() {
			if err := assertFree(ctx, tx, e.next.Date, e.start, e.end, id); err != nil {
				return err
			}
		}
		out = e.next
		return tx.Update(ctx, &out)
	})
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// serviceFor resolves the service the edited appointment will refer to.
func (l *Ledger) serviceFor(ctx context.Context, cur *models.Appointment, p Patch) (models.Service, error) {
	id := cur.ServiceID
	if p.ServiceID != nil {
		id = *p.ServiceID
	} else if cur.Service.ID != 0 {
		return cur.Service, nil
	}

	found, err := l.services.Get(ctx, id)
	if err != nil {
		return models.Service{}, err
	}
	return *found, nil
}

// lockDates takes the per-date locks for both dates of a move, in order.
func (l *Ledger) lockDates(ctx context.Context, from, to string) (func(), error) {
	keys := []string{from}
	if to != from {
		keys = append(keys, to)
		if to < from {
			keys[0], keys[1] = to, from
		}
	}

	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, k := range keys {
		unlock, err := l.locker.Lock(ctx, lockKey(k))
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// sameSlot reports whether nothing that decides overlap changed between a
// and b.
func sameSlot(a, b *models.Appointment) bool {
	return a.Status == b.Status &&
		a.Date == b.Date &&
		a.StartTime == b.StartTime &&
		a.EndTime == b.EndTime &&
		a.ServiceID == b.ServiceID
}

type edit struct {
	next            models.Appointment
	start, end      clock.Time
	scheduleChanged bool
	reactivated     bool
	occupies        bool
}

func (e edit) check() bool {
	return e.occupies && (e.scheduleChanged || e.reactivated)
}

// buildEdit applies p to base. svc is the service the result refers to.
func buildEdit(base *models.Appointment, p Patch, svc models.Service) (edit, error) {
	e := edit{next: *base}
	next := &e.next
	applyText(next, p)

	if p.ClientRating != nil {
		if r := *p.ClientRating; r < 1 || r > 5 {
			return e, httperr.Validation("invalid_client_rating", "client_rating", "rating must be between 1 and 5")
		}
		next.ClientRating = p.ClientRating
	}
	if p.Status != nil {
		next.Status = string(*p.Status)
	}

	serviceChanged := svc.ID != base.ServiceID
	next.ServiceID = svc.ID
	next.Service = svc
	if serviceChanged {
		price := svc.Price
		next.Price = &price
	}
	if p.Price != nil {
		next.Price = p.Price
	}

	if p.Date != nil {
		next.Date = strings.TrimSpace(*p.Date)
	}
	if p.StartTime != nil {
		next.StartTime = strings.TrimSpace(*p.StartTime)
	}
	if next.Date != base.Date {
		d, err := clock.ParseDate(next.Date, nil)
		if err != nil {
			return e, httperr.Validation("invalid_date", "date", "date must be YYYY-MM-DD")
		}
		next.Date = clock.FormatDate(d)
	}

	e.scheduleChanged = serviceChanged || next.Date != base.Date || next.StartTime != base.StartTime
	e.reactivated = domain.Status(base.Status) == domain.StatusCancelled &&
		domain.Status(next.Status) != domain.StatusCancelled
	e.occupies = domain.Status(next.Status).Blocks()

	if !e.scheduleChanged {
		var err error
		e.start, e.end, err = domain.Interval(*next)
		return e, err
	}

	start, err := clock.Parse(next.StartTime)
	if err != nil {
		return e, httperr.Validation("invalid_start_time", "start_time", "start_time must be HH:MM")
	}
	end := start.Add(svc.Duration)
	if end > clock.EndOfDay {
		return e, httperr.Closed("outside_business_hours", "appointment would end after midnight")
	}
	next.StartTime = start.String()
	next.EndTime = end.String()
	e.start, e.end = start, end
	return e, nil
}

func (l *Ledger) Delete(ctx context.Context, id uint) error {
	return l.repo.Delete(ctx, id)
}

// ======================================================
// Helpers
// ======================================================

func applyText(ap *models.Appointment, p Patch) {
	if p.Name != nil {
		ap.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		ap.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Message != nil {
		ap.Message = strings.TrimSpace(*p.Message)
	}
	if p.BarberNotes != nil {
		ap.BarberNotes = strings.TrimSpace(*p.BarberNotes)
	}
	if p.ClientFeedback != nil {
		ap.ClientFeedback = strings.TrimSpace(*p.ClientFeedback)
	}
}

func assertFree(
	ctx context.Context,
	tx domain.Repository,
	date string,
	start, end clock.Time,
	excludeID uint,
) error {
	conflicts, err := findConflicts(ctx, tx, date, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	return httperr.Conflict("time_conflict", "the selected time is not available").
		WithDetail("conflicting_ids", ids)
}

func findConflicts(
	ctx context.Context,
	r domain.Repository,
	date string,
	start, end clock.Time,
	excludeID uint,
) ([]models.Appointment, error) {
	return r.FindOverlapping(ctx, date, start.String(), end.String(), excludeID)
}

// classify maps database-level overlap guards onto the conflict error.
func classify(err error) error {
	if err != nil && (httperr.IsExclusionConflict(err) || httperr.IsUniqueViolation(err)) {
		return httperr.Conflict("time_conflict", "the selected time is not available")
	}
	return err
}
