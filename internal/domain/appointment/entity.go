package appointment

import (
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to status to when the state machine allows it.
func Transition(ap *models.Appointment, to Status) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}
	ap.Status = string(to)
	return nil
}

// Interval is the [Start, End) occupation of an appointment.
func Interval(ap models.Appointment) (clock.Time, clock.Time, error) {
	start, err := clock.Parse(ap.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := clock.Parse(ap.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
