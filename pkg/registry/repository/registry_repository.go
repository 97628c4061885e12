package repository

import (
	"context"

	"agro/entities"
)

// Repository is the persistence collaborator for producers, farms and crops.
// Find* methods return an apperr NotFound error when the row is missing.
// Writes never cascade into associations; children are saved explicitly.
type Repository interface {
	// Transaction runs fn against a Repository bound to one database
	// transaction. fn returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	FindProducer(ctx context.Context, id uint) (*entities.Producer, error)
	FindProducerByTaxID(ctx context.Context, taxID string) (*entities.Producer, error)
	ListProducers(ctx context.Context, offset, limit int) ([]entities.Producer, error)
	CountProducers(ctx context.Context) (int64, error)
	SaveProducer(ctx context.Context, p *entities.Producer) error
	DeleteProducer(ctx context.Context, id uint) error

	FindFarm(ctx context.Context, id uint) (*entities.Farm, error)
	ListFarms(ctx context.Context, offset, limit int) ([]entities.Farm, error)
	FarmsByProducer(ctx context.Context, producerID uint) ([]entities.Farm, error)
	SaveFarm(ctx context.Context, f *entities.Farm) error
	DeleteFarm(ctx context.Context, id uint) error

	FindCrop(ctx context.Context, id uint) (*entities.Crop, error)
	CropsByFarm(ctx context.Context, farmID uint) ([]entities.Crop, error)
	SaveCrop(ctx context.Context, c *entities.Crop) error
	DeleteCrop(ctx context.Context, id uint) error

	AllFarms(ctx context.Context) ([]entities.Farm, error)
	AllCrops(ctx context.Context) ([]entities.Crop, error)
}
