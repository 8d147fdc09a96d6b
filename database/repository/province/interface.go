package provinceRepo

import (
	"context"
	"errors"

	"turnos/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNameTaken is returned by Create when a province with that name exists.
var ErrNameTaken = errors.New("province name already exists")

type ProvinceRepository interface {
	Create(ctx context.Context, p *models.Province) error
	GetByID(ctx context.Context, id string) (*models.Province, error)
	ListActive(ctx context.Context) ([]models.Province, error)
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoProvinceRepo struct {
	coll *mongo.Collection
}

// NewMongoProvinceRepo constructs a MongoDB ProvinceRepository.
func NewMongoProvinceRepo(db *mongo.Database) ProvinceRepository {
	return &mongoProvinceRepo{
		coll: db.Collection("provinces"),
	}
}
