package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,phone"`
	ServiceID uint   `json:"service_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	Message   string `json:"message" validate:"max=1000"`
}

func (in *BookInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.Message = strings.TrimSpace(in.Message)
}

// ======================================================
// EXECUTE
// ======================================================

// Book creates a pending appointment for a client. The price of the
// service at booking time is kept on the appointment.
func (m *Manager) Book(ctx context.Context, in BookInput) (*models.Appointment, error) {
	in.trim()

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	if err := m.validate.Struct(in); err != nil {
		return nil, validators.ToBusiness(err)
	}

	day, err := clock.ParseDate(in.Date, m.loc)
	if err != nil {
		return nil, httperr.Validation("invalid_date", "date", "date must be YYYY-MM-DD")
	}
	start, err := clock.Parse(in.StartTime)
	if err != nil {
		return nil, httperr.Validation("invalid_start_time", "start_time", "start_time must be HH:MM")
	}

	// --------------------------------------------------
	// Service
	// --------------------------------------------------
	svc, err := m.services.Get(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Minimum advance
	// --------------------------------------------------
	if start.On(day).Before(m.now().In(m.loc).Add(m.minAdvance)) {
		return nil, httperr.Validation("too_soon", "start_time", "the selected time is too soon or in the past")
	}

	// --------------------------------------------------
	// Business hours
	// --------------------------------------------------
	end := start.Add(svc.Duration)
	if end > clock.EndOfDay {
		return nil, httperr.Closed("outside_business_hours", "the selected time is outside business hours")
	}

	date := clock.FormatDate(day)
	if err := m.calendar.Fits(ctx, date, start, end); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Ledger
	// --------------------------------------------------
	price := svc.Price
	ap := &models.Appointment{
		ServiceID: svc.ID,
		Name:      in.Name,
		Phone:     validators.NormalizePhone(in.Phone, m.phoneRegion),
		Message:   in.Message,
		Date:      date,
		StartTime: start.String(),
		EndTime:   end.String(),
		Price:     &price,
	}

	if err := m.ledger.Create(ctx, ap); err != nil {
		return nil, err
	}
	ap.Service = *svc

	m.audit.Dispatch(audit.Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"date":       ap.Date,
			"start_time": ap.StartTime,
			"service_id": ap.ServiceID,
		},
	})

	return ap, nil
}
