package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Filter narrows List. Empty fields are ignored; From and To are inclusive
// "YYYY-MM-DD" bounds.
type Filter struct {
	Date   string
	From   string
	To     string
	Status Status
}

type Repository interface {
	// -------- Appointment (read) --------
	Get(ctx context.Context, id uint) (*models.Appointment, error)

	// List orders by date, start_time.
	List(ctx context.Context, f Filter) ([]models.Appointment, error)

	// FindOverlapping returns the non-cancelled appointments on date that
	// intersect [start, end), excluding excludeID when non-zero.
	FindOverlapping(
		ctx context.Context,
		date string,
		start string,
		end string,
		excludeID uint,
	) ([]models.Appointment, error)

	CountByService(ctx context.Context, serviceID uint) (int64, error)

	// -------- Appointment (write) --------
	Create(ctx context.Context, ap *models.Appointment) error
	Update(ctx context.Context, ap *models.Appointment) error
	Delete(ctx context.Context, id uint) error

	// Atomic runs fn inside one transaction serialized with every other
	// Atomic call for the same date.
	Atomic(ctx context.Context, date string, fn func(tx Repository) error) error
}
