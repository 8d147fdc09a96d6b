package professionalRepo

import (
	"context"
	"errors"

	"turnos/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = errors.New("professional email already registered")

type ProfessionalRepository interface {
	Create(ctx context.Context, p *models.Professional) error
	GetByID(ctx context.Context, id string) (*models.Professional, error)
	ListActiveByBranch(ctx context.Context, branchID string) ([]models.Professional, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoProfessionalRepo struct {
	coll *mongo.Collection
}

// NewMongoProfessionalRepo constructs a MongoDB ProfessionalRepository.
func NewMongoProfessionalRepo(db *mongo.Database) ProfessionalRepository {
	return &mongoProfessionalRepo{
		coll: db.Collection("professionals"),
	}
}
