package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/calendar"
)

// CalendarHandler serves business hours and blocked dates.
type CalendarHandler struct {
	calendar *calendar.Calendar
}

func NewCalendarHandler(calendar *calendar.Calendar) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

type BlockDateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// ======================================================
// BUSINESS HOURS
// ======================================================

func (h *CalendarHandler) GetHours(c *gin.Context) {
	rows, err := h.calendar.Hours(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, "business_hours", rows)
}

// SetHours accepts either a bare array of seven entries or
// {"business_hours": [...]}.
func (h *CalendarHandler) SetHours(c *gin.Context) {
	entries, err := decodeEntries(c.Request.Body)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "expected a list of business hours")
		return
	}

	rows, err := h.calendar.SetHours(c.Request.Context(), middleware.ActorFrom(c), entries)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, "business_hours", rows)
}

func decodeEntries(r io.Reader) ([]domain.Entry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	var entries []domain.Entry
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &entries)
		return entries, err
	}

	var wrapped struct {
		BusinessHours []domain.Entry `json:"business_hours"`
	}
	err = json.Unmarshal(raw, &wrapped)
	return wrapped.BusinessHours, err
}

// ======================================================
// BLOCKED DATES
// ======================================================

func (h *CalendarHandler) ListBlocked(c *gin.Context) {
	blocked, err := h.calendar.ListBlocked(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, "blocked_dates", blocked)
}

func (h *CalendarHandler) Block(c *gin.Context) {
	var req BlockDateRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Date == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}

	b, err := h.calendar.BlockDate(c.Request.Context(), middleware.ActorFrom(c), req.Date, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "blocked_date", b)
}

func (h *CalendarHandler) Unblock(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.calendar.UnblockDate(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
