package calendar

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Repository interface {
	// -------- Business hours --------
	ListHours(ctx context.Context) ([]models.BusinessHours, error)
	GetHours(ctx context.Context, weekday int) (*models.BusinessHours, error)

	// ReplaceHours deletes every stored row and inserts rows in one transaction.
	ReplaceHours(ctx context.Context, rows []models.BusinessHours) error

	// -------- Blocked dates --------
	ListBlocked(ctx context.Context) ([]models.BlockedDate, error)

	// FindBlocked returns nil, nil when date is not blocked.
	FindBlocked(ctx context.Context, date string) (*models.BlockedDate, error)

	CreateBlocked(ctx context.Context, b *models.BlockedDate) error
	DeleteBlocked(ctx context.Context, id uint) error
}
