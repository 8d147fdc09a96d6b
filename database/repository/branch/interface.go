package branchRepo

import (
	"context"

	"turnos/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BranchRepository interface {
	Create(ctx context.Context, b *models.Branch) error
	GetByID(ctx context.Context, id string) (*models.Branch, error)
	ListActiveByProvince(ctx context.Context, provinceID string) ([]models.Branch, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoBranchRepo struct {
	coll *mongo.Collection
}

// NewMongoBranchRepo constructs a MongoDB BranchRepository.
func NewMongoBranchRepo(db *mongo.Database) BranchRepository {
	return &mongoBranchRepo{
		coll: db.Collection("branches"),
	}
}
