package slots

import (
	"context"
	"iter"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/slots"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/calendar"
)

type ServiceReader interface {
	Get(ctx context.Context, id uint) (*models.Service, error)
}

type DayReader interface {
	Day(ctx context.Context, date string) (calendar.Day, error)
}

// Plan is the lazily generated candidate list for a date and service.
type Plan struct {
	Date     string
	Duration int
	Slots    iter.Seq[clock.Time]
}

func empty(func(clock.Time) bool) {}

type Generator struct {
	services ServiceReader
	days     DayReader
	step     int
}

func NewGenerator(services ServiceReader, days DayReader, step int) *Generator {
	if step <= 0 {
		step = domain.DefaultStep
	}
	return &Generator{services: services, days: days, step: step}
}

// Generate yields candidate start times for serviceID on date. serviceID 0
// means "no service chosen yet" and uses a 30 minute duration. An unknown
// service, a closed day and a blocked date all produce an empty sequence.
func (g *Generator) Generate(ctx context.Context, date string, serviceID uint) (Plan, error) {
	day, err := g.days.Day(ctx, date)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Date:     clock.FormatDate(day.Date),
		Duration: domain.DefaultDuration,
		Slots:    empty,
	}

	if serviceID != 0 {
		svc, err := g.services.Get(ctx, serviceID)
		if httperr.IsKind(err, httperr.KindNotFound) {
			return plan, nil
		}
		if err != nil {
			return Plan{}, err
		}
		plan.Duration = svc.Duration
	}

	plan.Slots = domain.Candidates(day.Effective(), plan.Duration, g.step)
	return plan, nil
}
