package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Transition moves an appointment along the status state machine.
func (m *Manager) Transition(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
	status string,
) (*models.Appointment, error) {

	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	ap, err := m.ledger.UpdateStatus(ctx, appointmentID, to)
	if err != nil {
		return nil, err
	}

	m.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "appointment_" + string(to),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"status": string(to)},
	})

	return ap, nil
}

func (m *Manager) Confirm(ctx context.Context, actor access.Actor, appointmentID uint) (*models.Appointment, error) {
	return m.Transition(ctx, actor, appointmentID, string(domain.StatusConfirmed))
}

func (m *Manager) Complete(ctx context.Context, actor access.Actor, appointmentID uint) (*models.Appointment, error) {
	return m.Transition(ctx, actor, appointmentID, string(domain.StatusCompleted))
}

func (m *Manager) Cancel(ctx context.Context, actor access.Actor, appointmentID uint) (*models.Appointment, error) {
	return m.Transition(ctx, actor, appointmentID, string(domain.StatusCancelled))
}
