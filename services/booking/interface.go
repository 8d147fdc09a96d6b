package booking

import (
	"context"

	"turnos/models"
)

// Service runs the appointment lifecycle on top of the availability engine.
type Service interface {
	CreateAppointment(ctx context.Context, req models.CreateAppointmentRequest) (*models.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID, reason string) error
	GetAppointmentDetails(ctx context.Context, appointmentID string) (*models.AppointmentDetails, error)
}
