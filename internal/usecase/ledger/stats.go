package ledger

import (
	"context"
	"math"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type Stats struct {
	TotalAppointments int              `json:"total_appointments"`
	StatusCounts      map[string]int64 `json:"status_counts"`
	TotalRevenue      float64          `json:"total_revenue"`
	AverageRating     float64          `json:"average_rating"`
}

// Stats summarizes appointments whose date lies in [from, to]. Empty bounds
// are open. Revenue only counts completed appointments.
func (l *Ledger) Stats(ctx context.Context, from, to string) (Stats, error) {
	for field, v := range map[string]string{"start_date": from, "end_date": to} {
		if v == "" {
			continue
		}
		if _, err := clock.ParseDate(v, nil); err != nil {
			return Stats{}, httperr.Validation("invalid_"+field, field, field+" must be YYYY-MM-DD")
		}
	}

	apps, err := l.repo.List(ctx, domain.Filter{From: from, To: to})
	if err != nil {
		return Stats{}, err
	}

	out := Stats{
		TotalAppointments: len(apps),
		StatusCounts: map[string]int64{
			string(domain.StatusPending):   0,
			string(domain.StatusConfirmed): 0,
			string(domain.StatusCompleted): 0,
			string(domain.StatusCancelled): 0,
		},
	}

	var ratingSum, rated int
	for _, ap := range apps {
		out.StatusCounts[ap.Status]++
		if domain.Status(ap.Status) == domain.StatusCompleted && ap.Price != nil {
			out.TotalRevenue += *ap.Price
		}
		if ap.ClientRating != nil {
			ratingSum += *ap.ClientRating
			rated++
		}
	}

	out.TotalRevenue = math.Round(out.TotalRevenue*100) / 100
	if rated > 0 {
		out.AverageRating = math.Round(float64(ratingSum)/float64(rated)*100) / 100
	}
	return out, nil
}
