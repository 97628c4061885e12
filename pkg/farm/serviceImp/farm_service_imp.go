package serviceImp

import (
	"context"

	"go.uber.org/zap"

	"agro/entities"
	"agro/pkg/area"
	dsvc "agro/pkg/dashboard/service"
	"agro/pkg/farm/service"
	"agro/pkg/registry"
	"agro/pkg/registry/repository"
)

const maxPage = 1000

type farmSvc struct {
	repo repository.Repository
	dash dsvc.Invalidator
	log  *zap.Logger
}

func New(r repository.Repository, dash dsvc.Invalidator, log *zap.Logger) service.FarmService {
	return &farmSvc{repo: r, dash: dash, log: log}
}

func (s *farmSvc) Create(ctx context.Context, producerID uint, in registry.FarmInput) (*entities.Farm, error) {
	in.ID = 0
	desired, err := registry.PrepareFarms([]registry.FarmInput{in})
	if err != nil {
		return nil, err
	}

	var farmID uint
	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.FindProducer(ctx, producerID); err != nil {
			return err
		}
		farmID, err = registry.InsertFarm(ctx, tx, producerID, desired[0])
		return err
	})
	if err != nil {
		return nil, err
	}
	s.dash.Invalidate(ctx)
	s.log.Info("farm created", zap.Uint("producer_id", producerID), zap.Uint("farm_id", farmID))
	return s.repo.FindFarm(ctx, farmID)
}

func (s *farmSvc) Get(ctx context.Context, id uint) (*entities.Farm, error) {
	return s.repo.FindFarm(ctx, id)
}

func (s *farmSvc) List(ctx context.Context, skip, limit int) ([]entities.Farm, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPage {
		limit = maxPage
	}
	return s.repo.ListFarms(ctx, skip, limit)
}

func (s *farmSvc) ListByProducer(ctx context.Context, producerID uint) ([]entities.Farm, error) {
	if _, err := s.repo.FindProducer(ctx, producerID); err != nil {
		return nil, err
	}
	return s.repo.FarmsByProducer(ctx, producerID)
}

func (s *farmSvc) Update(ctx context.Context, id uint, p service.FarmPatch) (*entities.Farm, error) {
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		f, err := tx.FindFarm(ctx, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			if f.Name, err = registry.Required("name", *p.Name); err != nil {
				return err
			}
		}
		if p.City != nil {
			if f.City, err = registry.Required("city", *p.City); err != nil {
				return err
			}
		}
		if p.State != nil {
			if f.State, err = registry.State(*p.State); err != nil {
				return err
			}
		}
		merged := area.Merge(f.Areas(), p.Areas())
		if err := merged.Validate(); err != nil {
			return err
		}
		f.TotalArea, f.ArableArea, f.VegetationArea = merged.Total, merged.Arable, merged.Vegetation
		f.Crops = nil
		return tx.SaveFarm(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	s.dash.Invalidate(ctx)
	return s.repo.FindFarm(ctx, id)
}

func (s *farmSvc) Delete(ctx context.Context, id uint) error {
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		return tx.DeleteFarm(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dash.Invalidate(ctx)
	s.log.Info("farm deleted", zap.Uint("farm_id", id))
	return nil
}

func (s *farmSvc) AddCrop(ctx context.Context, farmID uint, in registry.CropInput) (*entities.Crop, error) {
	fields, err := in.Fields()
	if err != nil {
		return nil, err
	}
	c := &entities.Crop{FarmID: farmID, Name: fields.Name, Season: fields.Season}
	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.FindFarm(ctx, farmID); err != nil {
			return err
		}
		return tx.SaveCrop(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.dash.Invalidate(ctx)
	return c, nil
}

func (s *farmSvc) ListCrops(ctx context.Context, farmID uint) ([]entities.Crop, error) {
	if _, err := s.repo.FindFarm(ctx, farmID); err != nil {
		return nil, err
	}
	return s.repo.CropsByFarm(ctx, farmID)
}

func (s *farmSvc) ReplaceCrops(ctx context.Context, farmID uint, in []registry.CropInput) (*entities.Farm, error) {
	desired, err := registry.PrepareCrops(in)
	if err != nil {
		return nil, err
	}
	var sum registry.Summary
	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		f, err := tx.FindFarm(ctx, farmID)
		if err != nil {
			return err
		}
		sum, err = registry.SyncCrops(ctx, tx, farmID, f.Crops, desired)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.dash.Invalidate(ctx)
	s.log.Info("crops reconciled",
		zap.Uint("farm_id", farmID),
		zap.Int("inserted", sum.CropsInserted),
		zap.Int("updated", sum.CropsUpdated),
		zap.Int("deleted", sum.CropsDeleted))
	return s.repo.FindFarm(ctx, farmID)
}

func (s *farmSvc) DeleteCrop(ctx context.Context, id uint) error {
	if err := s.repo.DeleteCrop(ctx, id); err != nil {
		return err
	}
	s.dash.Invalidate(ctx)
	return nil
}
