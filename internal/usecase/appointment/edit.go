package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// EditInput is an administrative partial update. Nil fields are unchanged.
type EditInput struct {
	Name           *string  `json:"name"`
	Phone          *string  `json:"phone"`
	Message        *string  `json:"message"`
	BarberNotes    *string  `json:"barber_notes"`
	ServiceID      *uint    `json:"service_id"`
	Date           *string  `json:"date"`
	StartTime      *string  `json:"start_time"`
	Status         *string  `json:"status"`
	Price          *float64 `json:"price"`
	ClientRating   *int     `json:"client_rating"`
	ClientFeedback *string  `json:"client_feedback"`
}

// Edit overwrites fields without the status state machine. Schedule
// changes are still checked against business hours and the ledger.
func (m *Manager) Edit(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
	in EditInput,
) (*models.Appointment, error) {

	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	patch, err := m.patchFrom(in)
	if err != nil {
		return nil, err
	}

	ap, err := m.ledger.ForceSet(ctx, appointmentID, patch)
	if err != nil {
		return nil, err
	}

	m.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: in,
	})

	return ap, nil
}

// Reschedule moves an appointment to a new date and start time.
func (m *Manager) Reschedule(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
	date string,
	startTime string,
) (*models.Appointment, error) {
	return m.Edit(ctx, actor, appointmentID, EditInput{Date: &date, StartTime: &startTime})
}

func (m *Manager) Delete(ctx context.Context, actor access.Actor, appointmentID uint) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	if err := m.ledger.Delete(ctx, appointmentID); err != nil {
		return err
	}

	m.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})
	return nil
}

func (m *Manager) patchFrom(in EditInput) (ledger.Patch, error) {
	p := ledger.Patch{
		Message:        in.Message,
		BarberNotes:    in.BarberNotes,
		ServiceID:      in.ServiceID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		ClientRating:   in.ClientRating,
		ClientFeedback: in.ClientFeedback,
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return p, httperr.Validation("missing_name", "name", "name is required")
		}
		p.Name = &name
	}

	if in.Phone != nil {
		if !validators.IsPhone(*in.Phone) {
			return p, httperr.Validation("invalid_phone", "phone", "phone must contain 10 to 15 digits")
		}
		phone := validators.NormalizePhone(*in.Phone, m.phoneRegion)
		p.Phone = &phone
	}

	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}

	if in.Price != nil {
		if *in.Price < 0 {
			return p, httperr.Validation("invalid_price", "price", "price must not be negative")
		}
		p.Price = in.Price
	}

	return p, nil
}
