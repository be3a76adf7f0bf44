package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/access"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// UsageCounter counts the appointments that reference a service.
type UsageCounter interface {
	CountByService(ctx context.Context, serviceID uint) (int64, error)
}

// Input carries create and update fields. Nil fields are left untouched on
// update and are required on create (except description).
type Input struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Duration    *int     `json:"duration"`
	Price       *float64 `json:"price"`
}

type Catalog struct {
	repo  domain.Repository
	usage UsageCounter
	audit *audit.Dispatcher
}

func New(repo domain.Repository, usage UsageCounter, audit *audit.Dispatcher) *Catalog {
	return &Catalog{repo: repo, usage: usage, audit: audit}
}

func (c *Catalog) List(ctx context.Context) ([]models.Service, error) {
	return c.repo.List(ctx)
}

func (c *Catalog) Get(ctx context.Context, id uint) (*models.Service, error) {
	return c.repo.Get(ctx, id)
}

func (c *Catalog) Create(ctx context.Context, actor access.Actor, in Input) (*models.Service, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	switch {
	case in.Name == nil:
		return nil, httperr.Validation("missing_name", "name", "name is required")
	case in.Duration == nil:
		return nil, httperr.Validation("missing_duration", "duration", "duration is required")
	case in.Price == nil:
		return nil, httperr.Validation("missing_price", "price", "price is required")
	}

	s := &models.Service{}
	apply(s, in)
	if err := validate(s); err != nil {
		return nil, err
	}

	if err := c.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "service_created",
		Entity:   "service",
		EntityID: &s.ID,
		Metadata: s,
	})
	return s, nil
}

func (c *Catalog) Update(ctx context.Context, actor access.Actor, id uint, in Input) (*models.Service, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	s, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(s, in)
	if err := validate(s); err != nil {
		return nil, err
	}

	if err := c.repo.Update(ctx, s); err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &s.ID,
		Metadata: s,
	})
	return s, nil
}

// Delete refuses to remove a service that any appointment, in any status,
// still references.
func (c *Catalog) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	s, err := c.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := c.usage.CountByService(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return inUse(n)
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		// an appointment slipped in between the count and the delete
		if httperr.IsForeignKeyViolation(err) {
			recount, err := c.usage.CountByService(ctx, id)
			if err != nil {
				return fmt.Errorf("recount appointments for service %d: %w", id, err)
			}
			return inUse(recount)
		}
		return err
	}

	c.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: &id,
		Metadata: map[string]string{"name": s.Name},
	})
	return nil
}

func inUse(n int64) error {
	return httperr.Conflict(
		"service_in_use",
		fmt.Sprintf("service is used by %d appointment(s)", n),
	).WithDetail("appointments_count", n)
}

func apply(s *models.Service, in Input) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.Duration != nil {
		s.Duration = *in.Duration
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
}

func validate(s *models.Service) error {
	switch {
	case s.Name == "":
		return httperr.Validation("missing_name", "name", "name is required")
	case len(s.Name) > 100:
		return httperr.Validation("invalid_name", "name", "name must be at most 100 characters")
	case s.Duration < 1:
		return httperr.Validation("invalid_duration", "duration", "duration must be at least 1 minute")
	case s.Duration > 24*60:
		return httperr.Validation("invalid_duration", "duration", "duration must fit in one day")
	case s.Price < 0:
		return httperr.Validation("invalid_price", "price", "price must not be negative")
	}
	return nil
}
