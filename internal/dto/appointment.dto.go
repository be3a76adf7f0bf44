package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentDTO struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	ServiceID       uint      `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	ServiceDuration int       `json:"service_duration"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Message         string    `json:"message"`
	BarberNotes     string    `json:"barber_notes"`
	Status          string    `json:"status"`
	Price           *float64  `json:"price"`
	ClientRating    *int      `json:"client_rating"`
	ClientFeedback  string    `json:"client_feedback"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromAppointment(ap models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:              ap.ID,
		Name:            ap.Name,
		Phone:           ap.Phone,
		ServiceID:       ap.ServiceID,
		ServiceName:     ap.Service.Name,
		ServiceDuration: ap.Service.Duration,
		Date:            ap.Date,
		StartTime:       ap.StartTime,
		EndTime:         ap.EndTime,
		Message:         ap.Message,
		BarberNotes:     ap.BarberNotes,
		Status:          ap.Status,
		Price:           ap.Price,
		ClientRating:    ap.ClientRating,
		ClientFeedback:  ap.ClientFeedback,
		CreatedAt:       ap.CreatedAt,
		UpdatedAt:       ap.UpdatedAt,
	}
}
