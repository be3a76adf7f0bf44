package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
)

type ServiceHandler struct {
	catalog *catalog.Catalog
}

func NewServiceHandler(catalog *catalog.Catalog) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.catalog.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, "services", services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, "service", svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req catalog.Input
	if !bindJSON(c, &req) {
		return
	}

	svc, err := h.catalog.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "service", svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req catalog.Input
	if !bindJSON(c, &req) {
		return
	}

	svc, err := h.catalog.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, "service", svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
