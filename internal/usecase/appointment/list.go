package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func (m *Manager) Get(ctx context.Context, actor access.Actor, appointmentID uint) (dto.AppointmentDTO, error) {
	if err := actor.RequireAdmin(); err != nil {
		return dto.AppointmentDTO{}, err
	}

	ap, err := m.ledger.Get(ctx, appointmentID)
	if err != nil {
		return dto.AppointmentDTO{}, err
	}
	return dto.FromAppointment(*ap), nil
}

// List returns appointments ordered by date and start time, optionally for
// a single date.
func (m *Manager) List(ctx context.Context, actor access.Actor, date string) ([]dto.AppointmentDTO, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	var f domain.Filter
	if date != "" {
		d, err := clock.ParseDate(date, m.loc)
		if err != nil {
			return nil, httperr.Validation("invalid_date", "date", "date must be YYYY-MM-DD")
		}
		f.Date = clock.FormatDate(d)
	}

	apps, err := m.ledger.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, dto.FromAppointment(ap))
	}
	return out, nil
}
