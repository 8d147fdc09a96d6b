package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"turnos/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotTaken is returned by Create when another slot-holding appointment
// already starts at the same time for that professional and date.
var ErrSlotTaken = errors.New("appointment slot already taken")

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListHoldingByProfessionalAndDate(ctx context.Context, professionalID, date string) ([]models.Appointment, error)
	Cancel(ctx context.Context, id, reason string, at time.Time) error
	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a MongoDB AppointmentRepository.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
