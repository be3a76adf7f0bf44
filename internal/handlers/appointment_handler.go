package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/export"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	manager  *appointment.Manager
	ledger   *ledger.Ledger
	exporter *export.Exporter
}

func NewAppointmentHandler(
	manager *appointment.Manager,
	ledger *ledger.Ledger,
	exporter *export.Exporter,
) *AppointmentHandler {
	return &AppointmentHandler{
		manager:  manager,
		ledger:   ledger,
		exporter: exporter,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date parameter is required")
		return
	}

	var serviceID uint
	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "service_id must be a positive integer")
			return
		}
		serviceID = uint(id)
	}

	av, err := h.ledger.AvailableSlots(c.Request.Context(), date, serviceID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req appointment.BookInput
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.manager.Book(c.Request.Context(), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "appointment", dto.FromAppointment(*ap))
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.manager.List(c.Request.Context(), middleware.ActorFrom(c), c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, "appointments", list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.manager.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, "appointment", ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req appointment.EditInput
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.manager.Edit(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, "appointment", dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == "" {
		httperr.BadRequest(c, "missing_status", "status is required")
		return
	}

	ap, err := h.manager.Transition(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, "appointment", dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.manager.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}

func (h *AppointmentHandler) Stats(c *gin.Context) {
	if err := middleware.ActorFrom(c).RequireAdmin(); err != nil {
		httperr.Respond(c, err)
		return
	}

	stats, err := h.ledger.Stats(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AppointmentHandler) Export(c *gin.Context) {
	res, err := h.exporter.Export(
		c.Request.Context(),
		middleware.ActorFrom(c),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if errors.Is(err, export.ErrNotConfigured) {
		httperr.Write(c, http.StatusServiceUnavailable, "export_not_configured", "ledger export is not configured")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "export", res)
}
