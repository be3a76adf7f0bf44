package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/review"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) List(ctx context.Context, approvedOnly bool) ([]models.Review, error) {
	q := r.db.WithContext(ctx)
	if approvedOnly {
		q = q.Where("is_approved = ?", true)
	}

	var reviews []models.Review
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewGormRepository) Get(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).First(&rv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundErr("review")
		}
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewGormRepository) Update(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *ReviewGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundErr("review")
	}
	return nil
}

var _ review.Repository = (*ReviewGormRepository)(nil)
