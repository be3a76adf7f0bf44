package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestRespond_MapsKindsToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("invalid_phone", "phone", "bad phone"), http.StatusBadRequest, "invalid_phone"},
		{"conflict", Conflict("time_conflict", "taken"), http.StatusConflict, "time_conflict"},
		{"closed", Closed("closed", "closed"), http.StatusUnprocessableEntity, "closed"},
		{"not found", NotFoundErr("service"), http.StatusNotFound, "service_not_found"},
		{"transition", InvalidTransition("completed", "pending"), http.StatusConflict, "invalid_transition"},
		{"forbidden", Forbidden(), http.StatusForbidden, "forbidden"},
		{"unauthorized", Unauthenticated("invalid_credentials", "bad password"), http.StatusUnauthorized, "invalid_credentials"},
		{"wrapped", fmt.Errorf("booking: %w", Conflict("time_conflict", "taken")), http.StatusConflict, "time_conflict"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body HTTPError
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestConflictDetailsSurvive(t *testing.T) {
	err := Conflict("service_in_use", "in use").WithDetail("appointments_count", int64(3))

	be, ok := As(fmt.Errorf("delete: %w", err))
	if !ok {
		t.Fatalf("expected BusinessError")
	}
	if be.Details["appointments_count"] != int64(3) {
		t.Fatalf("details = %v", be.Details)
	}
	if !IsKind(err, KindConflict) || !IsBusiness(err, "service_in_use") {
		t.Fatalf("kind/code helpers mismatch")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected postgres unique violation")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: blocked_dates.date")) {
		t.Fatalf("expected sqlite unique violation")
	}
	if IsUniqueViolation(errors.New("connection refused")) || IsUniqueViolation(nil) {
		t.Fatalf("unexpected unique violation")
	}
	if !IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")) || !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("expected foreign key violation")
	}
	if !IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})) {
		t.Fatalf("expected exclusion conflict")
	}
}
