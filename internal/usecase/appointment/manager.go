package appointment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type ServiceReader interface {
	Get(ctx context.Context, id uint) (*models.Service, error)
}

type Fitter interface {
	Fits(ctx context.Context, date string, start, end clock.Time) error
}

type Options struct {
	Location    *time.Location
	MinAdvance  time.Duration
	PhoneRegion string
	Now         func() time.Time
}

// Manager drives an appointment through booking, edits and status changes.
// Storage and overlap rules belong to the ledger.
type Manager struct {
	ledger   *ledger.Ledger
	services ServiceReader
	calendar Fitter
	validate *validator.Validate
	audit    *audit.Dispatcher

	loc         *time.Location
	minAdvance  time.Duration
	phoneRegion string
	now         func() time.Time
}

func NewManager(
	l *ledger.Ledger,
	services ServiceReader,
	calendar Fitter,
	audit *audit.Dispatcher,
	opts Options,
) *Manager {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		ledger:      l,
		services:    services,
		calendar:    calendar,
		validate:    validators.New(),
		audit:       audit,
		loc:         opts.Location,
		minAdvance:  opts.MinAdvance,
		phoneRegion: opts.PhoneRegion,
		now:         opts.Now,
	}
}
