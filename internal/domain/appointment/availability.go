package appointment

import (
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Availability is the answer to a slot query for one date and service.
type Availability struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
	BookedSlots    []string `json:"booked_slots"`
	AllSlots       []string `json:"all_slots"`
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd clock.Time) bool {
	return aStart < bEnd && bStart < aEnd
}

// FilterByDate keeps the appointments on date that still occupy time.
func FilterByDate(apps []models.Appointment, date string) []models.Appointment {
	out := make([]models.Appointment, 0, len(apps))
	for _, ap := range apps {
		if ap.Date == date && Status(ap.Status).Blocks() {
			out = append(out, ap)
		}
	}
	return out
}

// Conflicts returns the appointments among apps that overlap [start, end),
// skipping excludeID (0 excludes nothing). Rows with unparseable times are
// treated as conflicting.
func Conflicts(apps []models.Appointment, start, end clock.Time, excludeID uint) []models.Appointment {
	var out []models.Appointment
	for _, ap := range apps {
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if !Status(ap.Status).Blocks() {
			continue
		}
		s, e, err := Interval(ap)
		if err != nil || Overlaps(start, end, s, e) {
			out = append(out, ap)
		}
	}
	return out
}
