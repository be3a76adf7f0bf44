package export

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type fakeLister struct {
	apps []models.Appointment
	got  domain.Filter
}

func (f *fakeLister) List(_ context.Context, filter domain.Filter) ([]models.Appointment, error) {
	f.got = filter
	return f.apps, nil
}

type memStore struct {
	key, contentType string
	body             []byte
	err              error
}

func (m *memStore) Put(_ context.Context, key, contentType string, body []byte) error {
	m.key, m.contentType, m.body = key, contentType, body
	return m.err
}

func sample() []models.Appointment {
	price := 25.5
	rating := 5
	return []models.Appointment{
		{
			ID: 7, Date: "2030-01-07", StartTime: "10:00", EndTime: "10:30",
			Status: "completed", Name: "Ivan, Jr.", Phone: "+359888123456",
			ServiceID: 1, Service: models.Service{Name: "Cut"},
			Price: &price, ClientRating: &rating,
			CreatedAt: time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC),
		},
		{ID: 8, Date: "2030-01-08", StartTime: "11:00", EndTime: "11:30", Status: "pending", Name: "Maria"},
	}
}

func TestEncode(t *testing.T) {
	body, err := Encode(sample())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2", len(records))
	}
	if records[0][0] != "id" || len(records[0]) != len(header) {
		t.Fatalf("header = %v", records[0])
	}

	first := records[1]
	if first[5] != "Ivan, Jr." || first[9] != "25.50" || first[10] != "5" || first[8] != "Cut" {
		t.Fatalf("first row = %v", first)
	}
	if records[2][9] != "" || records[2][10] != "" {
		t.Fatalf("nil price and rating must be blank: %v", records[2])
	}
}

func TestExport(t *testing.T) {
	lister := &fakeLister{apps: sample()}
	store := &memStore{}
	e := New(lister, store, nil)
	e.now = func() time.Time { return time.Date(2030, 2, 1, 9, 30, 0, 0, time.UTC) }

	res, err := e.Export(context.Background(), access.Admin(1), "2030-01-01", "2030-01-31")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if !strings.HasPrefix(res.Key, "exports/appointments/20300201T093000Z-") || !strings.HasSuffix(res.Key, ".csv") {
		t.Fatalf("key = %q", res.Key)
	}
	if res.Rows != 2 || res.Bytes != len(store.body) || store.key != res.Key || store.contentType != "text/csv" {
		t.Fatalf("result = %+v, store = %q %q", res, store.key, store.contentType)
	}
	if lister.got.From != "2030-01-01" || lister.got.To != "2030-01-31" {
		t.Fatalf("filter = %+v", lister.got)
	}
}

func TestExport_Errors(t *testing.T) {
	ctx := context.Background()
	admin := access.Admin(1)

	if _, err := New(&fakeLister{}, nil, nil).Export(ctx, admin, "", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("no store err = %v", err)
	}

	e := New(&fakeLister{}, &memStore{}, nil)
	if _, err := e.Export(ctx, access.Public, "", ""); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("public err = %v", err)
	}
	if _, err := e.Export(ctx, admin, "2030-13-01", ""); !httperr.IsBusiness(err, "invalid_start_date") {
		t.Fatalf("bad date err = %v", err)
	}

	failing := New(&fakeLister{}, &memStore{err: errors.New("s3 down")}, nil)
	if _, err := failing.Export(ctx, admin, "", ""); err == nil {
		t.Fatalf("store failure must surface")
	}
}
