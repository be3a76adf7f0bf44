package review

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Repository interface {
	// List returns newest first. approvedOnly hides reviews awaiting moderation.
	List(ctx context.Context, approvedOnly bool) ([]models.Review, error)
	Get(ctx context.Context, id uint) (*models.Review, error)
	Create(ctx context.Context, r *models.Review) error
	Update(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id uint) error
}
