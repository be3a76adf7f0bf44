package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CalendarGormRepository struct {
	db *gorm.DB
}

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

// --------------------------------------------------
// Business hours
// --------------------------------------------------

func (r *CalendarGormRepository) ListHours(ctx context.Context) ([]models.BusinessHours, error) {
	var rows []models.BusinessHours
	if err := r.db.WithContext(ctx).
		Order("day_of_week ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetHours returns nil, nil when the weekday has no row.
func (r *CalendarGormRepository) GetHours(ctx context.Context, weekday int) (*models.BusinessHours, error) {
	var row models.BusinessHours
	err := r.db.WithContext(ctx).
		Where("day_of_week = ?", weekday).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CalendarGormRepository) ReplaceHours(ctx context.Context, rows []models.BusinessHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.BusinessHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// --------------------------------------------------
// Blocked dates
// --------------------------------------------------

func (r *CalendarGormRepository) ListBlocked(ctx context.Context) ([]models.BlockedDate, error) {
	var rows []models.BlockedDate
	if err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CalendarGormRepository) FindBlocked(ctx context.Context, date string) (*models.BlockedDate, error) {
	var row models.BlockedDate
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CalendarGormRepository) CreateBlocked(ctx context.Context, b *models.BlockedDate) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.Conflict("date_already_blocked", "date "+b.Date+" is already blocked")
		}
		return err
	}
	return nil
}

func (r *CalendarGormRepository) DeleteBlocked(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.BlockedDate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundErr("blocked_date")
	}
	return nil
}

var _ calendar.Repository = (*CalendarGormRepository)(nil)
