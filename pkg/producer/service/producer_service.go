package service

import (
	"context"

	"agro/entities"
	"agro/pkg/registry"
)

// ProducerPatch changes scalar fields only; nil keeps the current value.
type ProducerPatch struct {
	TaxID *string `json:"tax_id"`
	Name  *string `json:"name"`
}

type ProducerService interface {
	// Create stores the producer with its farms and crops in one transaction.
	Create(ctx context.Context, in registry.ProducerInput) (*entities.Producer, error)
	Get(ctx context.Context, id uint) (*entities.Producer, error)
	List(ctx context.Context, skip, limit int) ([]entities.Producer, error)
	// Update replaces the producer's fields and reconciles its farms and
	// their crops against in. Farms and crops absent from in are deleted.
	Update(ctx context.Context, id uint, in registry.ProducerInput) (*entities.Producer, error)
	Patch(ctx context.Context, id uint, p ProducerPatch) (*entities.Producer, error)
	Delete(ctx context.Context, id uint) error
}
