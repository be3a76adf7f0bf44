package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/review"
)

type ReviewHandler struct {
	reviews *review.Reviews
}

func NewReviewHandler(reviews *review.Reviews) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	var req review.SubmitInput
	if !bindJSON(c, &req) {
		return
	}

	rv, err := h.reviews.Submit(c.Request.Context(), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "review", rv)
}

func (h *ReviewHandler) ListApproved(c *gin.Context) {
	list, err := h.reviews.ListApproved(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, "reviews", list)
}

func (h *ReviewHandler) ListAll(c *gin.Context) {
	list, err := h.reviews.ListAll(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, "reviews", list)
}

func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	rv, err := h.reviews.Approve(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, "review", rv)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
