package models

import "time"

// BusinessHours holds the opening hours of one weekday (0 = Monday).
type BusinessHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DayOfWeek int    `gorm:"uniqueIndex;not null" json:"day_of_week"`
	IsOpen    bool   `gorm:"not null" json:"is_open"`
	OpenTime  string `gorm:"size:5;not null" json:"open_time"`
	CloseTime string `gorm:"size:5;not null" json:"close_time"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (BusinessHours) TableName() string {
	return "business_hours"
}
