package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

type Lister interface {
	List(ctx context.Context, f domain.Filter) ([]models.Appointment, error)
}

type Result struct {
	Key   string `json:"key"`
	Rows  int    `json:"rows"`
	Bytes int    `json:"bytes"`
}

var header = []string{
	"id", "date", "start_time", "end_time", "status",
	"name", "phone", "service_id", "service_name", "price",
	"client_rating", "message", "barber_notes", "created_at",
}

// Exporter writes CSV snapshots of the ledger to object storage.
type Exporter struct {
	ledger Lister
	store  ObjectStore
	audit  *audit.Dispatcher
	now    func() time.Time
}

// New returns an exporter. A nil store disables exports.
func New(ledger Lister, store ObjectStore, audit *audit.Dispatcher) *Exporter {
	return &Exporter{ledger: ledger, store: store, audit: audit, now: time.Now}
}

func (e *Exporter) Export(ctx context.Context, actor access.Actor, from, to string) (Result, error) {
	if err := actor.RequireAdmin(); err != nil {
		return Result{}, err
	}
	if e.store == nil {
		return Result{}, ErrNotConfigured
	}
	for field, v := range map[string]string{"start_date": from, "end_date": to} {
		if v == "" {
			continue
		}
		if _, err := clock.ParseDate(v, nil); err != nil {
			return Result{}, httperr.Validation("invalid_"+field, field, field+" must be YYYY-MM-DD")
		}
	}

	apps, err := e.ledger.List(ctx, domain.Filter{From: from, To: to})
	if err != nil {
		return Result{}, err
	}

	body, err := Encode(apps)
	if err != nil {
		return Result{}, err
	}

	key := fmt.Sprintf("exports/appointments/%s-%s.csv",
		e.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	if err := e.store.Put(ctx, key, "text/csv", body); err != nil {
		return Result{}, err
	}

	e.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "ledger_exported",
		Entity:   "appointment",
		Metadata: map[string]any{"key": key, "rows": len(apps), "from": from, "to": to},
	})

	return Result{Key: key, Rows: len(apps), Bytes: len(body)}, nil
}

// ErrNotConfigured is returned when no object store is set up.
var ErrNotConfigured = fmt.Errorf("export: object storage is not configured")

func Encode(apps []models.Appointment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, ap := range apps {
		if err := w.Write(row(ap)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func row(ap models.Appointment) []string {
	price := ""
	if ap.Price != nil {
		price = strconv.FormatFloat(*ap.Price, 'f', 2, 64)
	}
	rating := ""
	if ap.ClientRating != nil {
		rating = strconv.Itoa(*ap.ClientRating)
	}

	return []string{
		strconv.FormatUint(uint64(ap.ID), 10),
		ap.Date,
		ap.StartTime,
		ap.EndTime,
		ap.Status,
		ap.Name,
		ap.Phone,
		strconv.FormatUint(uint64(ap.ServiceID), 10),
		ap.Service.Name,
		price,
		rating,
		ap.Message,
		ap.BarberNotes,
		ap.CreatedAt.UTC().Format(time.RFC3339),
	}
}
