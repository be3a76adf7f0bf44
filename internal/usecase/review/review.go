package review

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/review"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type SubmitInput struct {
	ClientName string `json:"client_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
}

// Reviews are public testimonials that stay hidden until approved.
type Reviews struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func New(repo domain.Repository, audit *audit.Dispatcher) *Reviews {
	return &Reviews{repo: repo, audit: audit}
}

func (r *Reviews) Submit(ctx context.Context, in SubmitInput) (*models.Review, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.Text = strings.TrimSpace(in.Text)

	switch {
	case in.ClientName == "":
		return nil, httperr.Validation("missing_client_name", "client_name", "client_name is required")
	case len(in.ClientName) > 100:
		return nil, httperr.Validation("invalid_client_name", "client_name", "client_name must be at most 100 characters")
	case in.Text == "":
		return nil, httperr.Validation("missing_text", "text", "text is required")
	case in.Rating < 1 || in.Rating > 5:
		return nil, httperr.Validation("invalid_rating", "rating", "rating must be between 1 and 5")
	}

	rv := &models.Review{
		ClientName: in.ClientName,
		Rating:     in.Rating,
		Text:       in.Text,
	}
	if err := r.repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	r.audit.Dispatch(audit.Event{
		Action:   "review_submitted",
		Entity:   "review",
		EntityID: &rv.ID,
	})
	return rv, nil
}

func (r *Reviews) ListApproved(ctx context.Context) ([]models.Review, error) {
	return r.repo.List(ctx, true)
}

func (r *Reviews) ListAll(ctx context.Context, actor access.Actor) ([]models.Review, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	return r.repo.List(ctx, false)
}

func (r *Reviews) Approve(ctx context.Context, actor access.Actor, id uint) (*models.Review, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	rv, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.IsApproved {
		return rv, nil
	}

	rv.IsApproved = true
	if err := r.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	r.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "review_approved",
		Entity:   "review",
		EntityID: &rv.ID,
	})
	return rv, nil
}

func (r *Reviews) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "review_deleted",
		Entity:   "review",
		EntityID: &id,
	})
	return nil
}
