package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domaincal "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/slots"
)

const monday = "2030-01-07"

var admin = access.Admin(1)

type fixture struct {
	manager  *appointment.Manager
	calendar *calendar.Calendar
	service  models.Service
}

func setup(t *testing.T, now time.Time) *fixture {
	t.Helper()

	gdb, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	ctx := context.Background()

	services := repository.NewServiceGormRepository(gdb)
	cal := calendar.New(repository.NewCalendarGormRepository(gdb), nil, time.UTC)

	entries := make([]domaincal.Entry, 0, 7)
	for d := 0; d < 7; d++ {
		entries = append(entries, domaincal.Entry{DayOfWeek: d, IsOpen: d < 6, OpenTime: "10:00", CloseTime: "19:00"})
	}
	if _, err := cal.SetHours(ctx, admin, entries); err != nil {
		t.Fatalf("SetHours: %v", err)
	}

	svc := models.Service{Name: "Cut", Duration: 30, Price: 20}
	if err := services.Create(ctx, &svc); err != nil {
		t.Fatalf("create service: %v", err)
	}

	l := ledger.New(
		repository.NewAppointmentGormRepository(gdb),
		services,
		cal,
		slots.NewGenerator(services, cal, 30),
		lock.NewMemory(),
	)

	m := appointment.NewManager(l, services, cal, nil, appointment.Options{
		Location:    time.UTC,
		PhoneRegion: "BG",
		Now:         func() time.Time { return now },
	})

	return &fixture{manager: m, calendar: cal, service: svc}
}

func (f *fixture) input(start string) appointment.BookInput {
	return appointment.BookInput{
		Name:      "  Georgi  ",
		Phone:     "0888 123 456",
		ServiceID: f.service.ID,
		Date:      monday,
		StartTime: start,
		Message:   "first visit",
	}
}

var beforeMonday = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func TestBook_Success(t *testing.T) {
	f := setup(t, beforeMonday)

	ap, err := f.manager.Book(context.Background(), f.input("10:00"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if ap.Status != "pending" || ap.EndTime != "10:30" || ap.Name != "Georgi" {
		t.Fatalf("ap = %+v", ap)
	}
	if ap.Price == nil || *ap.Price != 20 {
		t.Fatalf("price snapshot = %v", ap.Price)
	}
	if ap.Phone != "+359888123456" {
		t.Fatalf("phone = %q, want E.164", ap.Phone)
	}
}

func TestBook_Rejections(t *testing.T) {
	f := setup(t, beforeMonday)
	ctx := context.Background()

	if _, err := f.manager.Book(ctx, f.input("12:00")); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if _, err := f.calendar.BlockDate(ctx, admin, "2030-01-08", "training"); err != nil {
		t.Fatalf("BlockDate: %v", err)
	}

	tests := []struct {
		name     string
		mutate   func(*appointment.BookInput)
		wantKind httperr.Kind
		wantCode string
	}{
		{"missing name", func(in *appointment.BookInput) { in.Name = " " }, httperr.KindValidation, "missing_name"},
		{"bad phone", func(in *appointment.BookInput) { in.Phone = "12-34" }, httperr.KindValidation, "invalid_phone"},
		{"missing service", func(in *appointment.BookInput) { in.ServiceID = 0 }, httperr.KindValidation, "missing_service_id"},
		{"bad date", func(in *appointment.BookInput) { in.Date = "07.01.2030" }, httperr.KindValidation, "invalid_date"},
		{"bad time", func(in *appointment.BookInput) { in.StartTime = "25:00" }, httperr.KindValidation, "invalid_start_time"},
		{"unknown service", func(in *appointment.BookInput) { in.ServiceID = 99 }, httperr.KindNotFound, "service_not_found"},
		{"past", func(in *appointment.BookInput) { in.Date = "2029-12-31" }, httperr.KindValidation, "too_soon"},
		{"before open", func(in *appointment.BookInput) { in.StartTime = "09:30" }, httperr.KindClosed, "outside_business_hours"},
		{"runs past close", func(in *appointment.BookInput) { in.StartTime = "18:45" }, httperr.KindClosed, "outside_business_hours"},
		{"sunday", func(in *appointment.BookInput) { in.Date = "2030-01-13" }, httperr.KindClosed, "day_closed"},
		{"blocked", func(in *appointment.BookInput) { in.Date = "2030-01-08" }, httperr.KindClosed, "date_blocked"},
		{"taken", func(in *appointment.BookInput) { in.StartTime = "12:15" }, httperr.KindConflict, "time_conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("15:00")
			tt.mutate(&in)

			_, err := f.manager.Book(ctx, in)
			if !httperr.IsKind(err, tt.wantKind) || !httperr.IsBusiness(err, tt.wantCode) {
				t.Fatalf("err = %v, want %s/%s", err, tt.wantKind, tt.wantCode)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	f := setup(t, beforeMonday)
	ctx := context.Background()

	ap, err := f.manager.Book(ctx, f.input("10:00"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if _, err := f.manager.Confirm(ctx, access.Public, ap.ID); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("public confirm err = %v", err)
	}

	if _, err := f.manager.Confirm(ctx, admin, ap.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, err := f.manager.Transition(ctx, admin, ap.ID, "pending"); !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("back to pending err = %v", err)
	}
	if _, err := f.manager.Transition(ctx, admin, ap.ID, "archived"); !httperr.IsBusiness(err, "invalid_status") {
		t.Fatalf("unknown status err = %v", err)
	}
	done, err := f.manager.Complete(ctx, admin, ap.ID)
	if err != nil || done.Status != "completed" {
		t.Fatalf("Complete: %v, %+v", err, done)
	}
	if _, err := f.manager.Cancel(ctx, admin, ap.ID); !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("cancel completed err = %v", err)
	}
}

func TestEditAndReschedule(t *testing.T) {
	f := setup(t, beforeMonday)
	ctx := context.Background()

	first, _ := f.manager.Book(ctx, f.input("10:00"))
	second, _ := f.manager.Book(ctx, f.input("11:00"))

	if _, err := f.manager.Reschedule(ctx, admin, second.ID, monday, "10:00"); !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("reschedule onto first err = %v", err)
	}

	moved, err := f.manager.Reschedule(ctx, admin, second.ID, "2030-01-09", "16:30")
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.Date != "2030-01-09" || moved.StartTime != "16:30" || moved.EndTime != "17:00" {
		t.Fatalf("moved = %+v", moved)
	}

	bad := "123"
	if _, err := f.manager.Edit(ctx, admin, first.ID, appointment.EditInput{Phone: &bad}); !httperr.IsBusiness(err, "invalid_phone") {
		t.Fatalf("bad phone err = %v", err)
	}

	notes := "prefers scissors"
	edited, err := f.manager.Edit(ctx, admin, first.ID, appointment.EditInput{BarberNotes: &notes})
	if err != nil || edited.BarberNotes != notes {
		t.Fatalf("Edit: %v, %+v", err, edited)
	}

	got, err := f.manager.Get(ctx, admin, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ServiceName != "Cut" || got.ServiceDuration != 30 {
		t.Fatalf("dto = %+v", got)
	}
}

func TestListAndDelete(t *testing.T) {
	f := setup(t, beforeMonday)
	ctx := context.Background()

	late, _ := f.manager.Book(ctx, f.input("15:00"))
	_, _ = f.manager.Book(ctx, f.input("10:00"))

	list, err := f.manager.List(ctx, admin, monday)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].StartTime != "10:00" {
		t.Fatalf("list = %+v", list)
	}

	if _, err := f.manager.List(ctx, access.Public, ""); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("public list err = %v", err)
	}

	if err := f.manager.Delete(ctx, admin, late.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = f.manager.List(ctx, admin, "")
	if len(list) != 1 {
		t.Fatalf("after delete len = %d", len(list))
	}
}
