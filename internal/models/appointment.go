package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Phone   string `gorm:"size:20;not null" json:"phone"`
	Message string `gorm:"type:text" json:"message"`

	// Date is YYYY-MM-DD, StartTime and EndTime are zero-padded HH:MM so
	// that string comparison orders them.
	Date      string `gorm:"size:10;index:idx_appointments_date_start;not null" json:"date"`
	StartTime string `gorm:"size:5;index:idx_appointments_date_start;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	Status      string   `gorm:"size:20;default:'pending';not null" json:"status"`
	Price       *float64 `json:"price"`
	BarberNotes string   `gorm:"type:text" json:"barber_notes"`

	ClientRating   *int   `json:"client_rating"`
	ClientFeedback string `gorm:"type:text" json:"client_feedback"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
