package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domaincal "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/lock"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
)

const monday = "2030-01-07"

type server struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTTTL:          time.Hour,
		Timezone:        "UTC",
		SlotStepMinutes: 30,
		PhoneRegion:     "BG",
	}
	services := routes.NewServices(gdb, cfg, routes.Infra{Locker: lock.NewMemory()})

	ctx := context.Background()
	if _, err := services.Accounts.EnsureAdmin(ctx, "admin", "barber-pass"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	entries := make([]domaincal.Entry, 0, 7)
	for d := 0; d < 7; d++ {
		entries = append(entries, domaincal.Entry{DayOfWeek: d, IsOpen: d < 6, OpenTime: "10:00", CloseTime: "19:00"})
	}
	if _, err := services.Calendar.SetHours(ctx, access.Admin(1), entries); err != nil {
		t.Fatalf("SetHours: %v", err)
	}

	r := gin.New()
	routes.RegisterRoutes(r, gdb, services)

	s := &server{t: t, router: r}

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "barber-pass"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body)
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &login)
	s.token = login.AccessToken
	return s
}

func (s *server) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) admin(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(method, path, body, s.token)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

type errorBody struct {
	Code    string         `json:"error_code"`
	Details map[string]any `json:"details"`
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body)
	}
	var body errorBody
	decode(t, w, &body)
	if body.Code != code {
		t.Fatalf("error_code = %q, want %q", body.Code, code)
	}
	return body
}

func (s *server) createService(name string, duration int, price float64) uint {
	s.t.Helper()
	w := s.admin(http.MethodPost, "/api/services", map[string]any{
		"name": name, "duration": duration, "price": price,
	})
	if w.Code != http.StatusCreated {
		s.t.Fatalf("create service status = %d: %s", w.Code, w.Body)
	}
	var out struct {
		Service struct {
			ID uint `json:"id"`
		} `json:"service"`
	}
	decode(s.t, w, &out)
	return out.Service.ID
}

type appointmentBody struct {
	Appointment struct {
		ID          uint     `json:"id"`
		Status      string   `json:"status"`
		EndTime     string   `json:"end_time"`
		Phone       string   `json:"phone"`
		Price       *float64 `json:"price"`
		ServiceName string   `json:"service_name"`
	} `json:"appointment"`
}

func (s *server) book(serviceID uint, date, start string) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(http.MethodPost, "/api/appointments", map[string]any{
		"name":       "Georgi",
		"phone":      "0888123456",
		"service_id": serviceID,
		"date":       date,
		"start_time": start,
	}, "")
}

// ======================================================
// AUTH
// ======================================================

func TestAuth(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "nope"}, "")
	expectError(t, w, http.StatusUnauthorized, "invalid_credentials")

	expectError(t, s.do(http.MethodGet, "/api/auth/me", nil, ""), http.StatusUnauthorized, "missing_authorization_header")
	expectError(t, s.do(http.MethodGet, "/api/auth/me", nil, "garbage"), http.StatusUnauthorized, "invalid_token")

	w = s.admin(http.MethodGet, "/api/auth/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d: %s", w.Code, w.Body)
	}
	var me struct {
		User struct {
			Username string `json:"username"`
			Password string `json:"password_hash"`
		} `json:"user"`
	}
	decode(t, w, &me)
	if me.User.Username != "admin" || me.User.Password != "" {
		t.Fatalf("me = %+v", me)
	}
}

// ======================================================
// BOOKING FLOW
// ======================================================

func TestAvailableSlots(t *testing.T) {
	s := newServer(t)
	cut := s.createService("Cut", 30, 20)

	expectError(t, s.do(http.MethodGet, "/api/appointments/available-slots", nil, ""), http.StatusBadRequest, "missing_date")

	if w := s.book(cut, monday, "10:00"); w.Code != http.StatusCreated {
		t.Fatalf("book status = %d: %s", w.Code, w.Body)
	}

	w := s.do(http.MethodGet, "/api/appointments/available-slots?date="+monday+"&service_id=1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var av struct {
		Available []string `json:"available_slots"`
		Booked    []string `json:"booked_slots"`
	}
	decode(t, w, &av)
	if len(av.Available) != 17 || len(av.Booked) != 1 || av.Booked[0] != "10:00" {
		t.Fatalf("availability = %+v", av)
	}
}

func TestBookAndManage(t *testing.T) {
	s := newServer(t)
	cut := s.createService("Cut", 30, 20)

	w := s.book(cut, monday, "10:00")
	if w.Code != http.StatusCreated {
		t.Fatalf("book status = %d: %s", w.Code, w.Body)
	}
	var created appointmentBody
	decode(t, w, &created)
	ap := created.Appointment
	if ap.Status != "pending" || ap.EndTime != "10:30" || ap.Phone != "+359888123456" || ap.ServiceName != "Cut" {
		t.Fatalf("created = %+v", ap)
	}
	if ap.Price == nil || *ap.Price != 20 {
		t.Fatalf("price = %v", ap.Price)
	}

	expectError(t, s.book(cut, monday, "10:15"), http.StatusConflict, "time_conflict")
	expectError(t, s.book(cut, "2030-01-13", "10:00"), http.StatusUnprocessableEntity, "day_closed")
	expectError(t, s.book(cut, "2020-01-06", "10:00"), http.StatusBadRequest, "too_soon")
	expectError(t, s.book(99, monday, "12:00"), http.StatusNotFound, "service_not_found")

	statusPath := "/api/appointments/1/status"
	expectError(t, s.do(http.MethodPatch, statusPath, map[string]string{"status": "confirmed"}, ""), http.StatusUnauthorized, "missing_authorization_header")

	w = s.admin(http.MethodPatch, statusPath, map[string]string{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %s", w.Code, w.Body)
	}
	expectError(t, s.admin(http.MethodPatch, statusPath, map[string]string{"status": "pending"}), http.StatusConflict, "invalid_transition")
	expectError(t, s.admin(http.MethodPatch, statusPath, map[string]string{"status": "done"}), http.StatusBadRequest, "invalid_status")

	w = s.admin(http.MethodGet, "/api/appointments?date="+monday, nil)
	var list struct {
		Appointments []json.RawMessage `json:"appointments"`
	}
	decode(t, w, &list)
	if len(list.Appointments) != 1 {
		t.Fatalf("list = %s", w.Body)
	}

	w = s.admin(http.MethodPut, "/api/appointments/1", map[string]any{"start_time": "18:45"})
	expectError(t, w, http.StatusUnprocessableEntity, "outside_business_hours")

	w = s.admin(http.MethodPut, "/api/appointments/1", map[string]any{"status": "completed", "client_rating": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("edit status = %d: %s", w.Code, w.Body)
	}

	w = s.admin(http.MethodGet, "/api/appointments/admin/stats?start_date="+monday+"&end_date="+monday, nil)
	var stats struct {
		Total   int     `json:"total_appointments"`
		Revenue float64 `json:"total_revenue"`
		Rating  float64 `json:"average_rating"`
	}
	decode(t, w, &stats)
	if stats.Total != 1 || stats.Revenue != 20 || stats.Rating != 5 {
		t.Fatalf("stats = %+v", stats)
	}

	body := expectError(t, s.admin(http.MethodDelete, "/api/services/1", nil), http.StatusConflict, "service_in_use")
	if body.Details["appointments_count"] != float64(1) {
		t.Fatalf("details = %v", body.Details)
	}

	if w := s.admin(http.MethodDelete, "/api/appointments/1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	expectError(t, s.admin(http.MethodGet, "/api/appointments/1", nil), http.StatusNotFound, "appointment_not_found")
	if w := s.admin(http.MethodDelete, "/api/services/1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete service status = %d: %s", w.Code, w.Body)
	}
}

// ======================================================
// CALENDAR
// ======================================================

func TestCalendarEndpoints(t *testing.T) {
	s := newServer(t)
	cut := s.createService("Cut", 30, 20)

	w := s.do(http.MethodGet, "/api/appointments/business-hours", nil, "")
	var hours struct {
		BusinessHours []domaincal.Entry `json:"business_hours"`
	}
	decode(t, w, &hours)
	if len(hours.BusinessHours) != 7 || hours.BusinessHours[0].OpenTime != "10:00" {
		t.Fatalf("hours = %+v", hours)
	}

	short := hours.BusinessHours[:6]
	expectError(t, s.admin(http.MethodPut, "/api/appointments/business-hours", short), http.StatusBadRequest, "invalid_business_hours")

	w = s.admin(http.MethodPost, "/api/appointments/blocked-dates", map[string]string{"date": monday, "reason": "holiday"})
	if w.Code != http.StatusCreated {
		t.Fatalf("block status = %d: %s", w.Code, w.Body)
	}
	expectError(t, s.admin(http.MethodPost, "/api/appointments/blocked-dates", map[string]string{"date": monday}), http.StatusConflict, "date_already_blocked")

	body := expectError(t, s.book(cut, monday, "10:00"), http.StatusUnprocessableEntity, "date_blocked")
	if body.Details["reason"] != "holiday" {
		t.Fatalf("details = %v", body.Details)
	}

	w = s.do(http.MethodGet, "/api/appointments/available-slots?date="+monday, nil, "")
	var av struct {
		Available []string `json:"available_slots"`
	}
	decode(t, w, &av)
	if len(av.Available) != 0 {
		t.Fatalf("blocked day slots = %v", av.Available)
	}

	if w := s.admin(http.MethodDelete, "/api/appointments/blocked-dates/1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("unblock status = %d", w.Code)
	}
	if w := s.book(cut, monday, "10:00"); w.Code != http.StatusCreated {
		t.Fatalf("book after unblock = %d: %s", w.Code, w.Body)
	}
}

// ======================================================
// REVIEWS / EXPORT / AUDIT
// ======================================================

func TestReviewsEndpoints(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/reviews", map[string]any{"client_name": "Ivan", "rating": 5, "text": "Great"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body)
	}
	expectError(t, s.do(http.MethodPost, "/api/reviews", map[string]any{"client_name": "Ivan", "rating": 9, "text": "x"}, ""), http.StatusBadRequest, "invalid_rating")

	var public struct {
		Reviews []json.RawMessage `json:"reviews"`
	}
	decode(t, s.do(http.MethodGet, "/api/reviews", nil, ""), &public)
	if public.Reviews == nil || len(public.Reviews) != 0 {
		t.Fatalf("public before approval = %v", public.Reviews)
	}

	if w := s.admin(http.MethodPost, "/api/reviews/admin/1/approve", nil); w.Code != http.StatusOK {
		t.Fatalf("approve status = %d: %s", w.Code, w.Body)
	}
	decode(t, s.do(http.MethodGet, "/api/reviews", nil, ""), &public)
	if len(public.Reviews) != 1 {
		t.Fatalf("public after approval = %d", len(public.Reviews))
	}
	expectError(t, s.admin(http.MethodDelete, "/api/reviews/admin/abc", nil), http.StatusBadRequest, "invalid_id")
}

func TestExportNotConfigured(t *testing.T) {
	s := newServer(t)
	expectError(t, s.admin(http.MethodPost, "/api/appointments/admin/export", nil), http.StatusServiceUnavailable, "export_not_configured")
}

func TestAuditLogs(t *testing.T) {
	s := newServer(t)

	expectError(t, s.do(http.MethodGet, "/api/admin/audit-logs", nil, ""), http.StatusUnauthorized, "missing_authorization_header")
	expectError(t, s.admin(http.MethodGet, "/api/admin/audit-logs?from=yesterday", nil), http.StatusBadRequest, "invalid_from")

	w := s.admin(http.MethodGet, "/api/admin/audit-logs?limit=500", nil)
	var page struct {
		Limit int               `json:"limit"`
		Total int64             `json:"total"`
		Logs  []json.RawMessage `json:"logs"`
	}
	decode(t, w, &page)
	if page.Limit != 50 || page.Logs == nil {
		t.Fatalf("page = %+v", page)
	}
}
