package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientName string `gorm:"size:100;not null" json:"client_name"`
	Rating     int    `gorm:"not null" json:"rating"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsApproved bool   `gorm:"default:false;not null" json:"is_approved"`

	CreatedAt time.Time `json:"created_at"`
}
