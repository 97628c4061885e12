package service

import (
	"context"

	"agro/entities"
	"agro/pkg/area"
	"agro/pkg/registry"
)

// FarmPatch is a partial farm update; nil fields keep the current value.
type FarmPatch struct {
	Name           *string  `json:"name"`
	City           *string  `json:"city"`
	State          *string  `json:"state"`
	TotalArea      *float64 `json:"total_area"`
	ArableArea     *float64 `json:"arable_area"`
	VegetationArea *float64 `json:"vegetation_area"`
}

func (p FarmPatch) Areas() area.Patch {
	return area.Patch{Total: p.TotalArea, Arable: p.ArableArea, Vegetation: p.VegetationArea}
}

type FarmService interface {
	Create(ctx context.Context, producerID uint, in registry.FarmInput) (*entities.Farm, error)
	Get(ctx context.Context, id uint) (*entities.Farm, error)
	List(ctx context.Context, skip, limit int) ([]entities.Farm, error)
	ListByProducer(ctx context.Context, producerID uint) ([]entities.Farm, error)
	// Update applies p and validates the merged area triple before saving.
	Update(ctx context.Context, id uint, p FarmPatch) (*entities.Farm, error)
	Delete(ctx context.Context, id uint) error

	AddCrop(ctx context.Context, farmID uint, in registry.CropInput) (*entities.Crop, error)
	ListCrops(ctx context.Context, farmID uint) ([]entities.Crop, error)
	// ReplaceCrops reconciles the farm's crops against in.
	ReplaceCrops(ctx context.Context, farmID uint, in []registry.CropInput) (*entities.Farm, error)
	DeleteCrop(ctx context.Context, id uint) error
}
