package models

import "time"

type BlockedDate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date   string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
