package registry

import (
	"context"

	"agro/entities"
	"agro/pkg/apperr"
	"agro/pkg/reconcile"
	"agro/pkg/registry/repository"
)

// Summary counts the writes performed by one reconciliation.
type Summary struct {
	FarmsInserted, FarmsUpdated, FarmsDeleted int
	CropsInserted, CropsUpdated, CropsDeleted int
}

func (s *Summary) addFarms(p reconcile.Plan[FarmFields]) {
	i, u, d := p.Counts()
	s.FarmsInserted += i
	s.FarmsUpdated += u
	s.FarmsDeleted += d
}

func (s *Summary) addCrops(p reconcile.Plan[CropFields]) {
	i, u, d := p.Counts()
	s.CropsInserted += i
	s.CropsUpdated += u
	s.CropsDeleted += d
}

func farmFields(f entities.Farm) FarmFields {
	return FarmFields{Name: f.Name, City: f.City, State: f.State, Areas: f.Areas()}
}

func cropFields(c entities.Crop) CropFields {
	return CropFields{Name: c.Name, Season: c.Season}
}

// farmStore writes farms of one producer through tx. Updates start from the
// loaded row so untouched columns (created_at) survive.
func farmStore(tx repository.Repository, producerID uint, current map[uint]entities.Farm) reconcile.Store[FarmFields] {
	apply := func(f *entities.Farm, v FarmFields) {
		f.Name, f.City, f.State = v.Name, v.City, v.State
		f.TotalArea, f.ArableArea, f.VegetationArea = v.Total, v.Arable, v.Vegetation
		f.Crops = nil
	}
	return reconcile.Funcs[FarmFields]{
		InsertFn: func(ctx context.Context, v FarmFields) (uint, error) {
			f := entities.Farm{ProducerID: producerID}
			apply(&f, v)
			if err := tx.SaveFarm(ctx, &f); err != nil {
				return 0, err
			}
			return f.ID, nil
		},
		UpdateFn: func(ctx context.Context, id uint, v FarmFields) error {
			f := current[id]
			apply(&f, v)
			return tx.SaveFarm(ctx, &f)
		},
		DeleteFn: tx.DeleteFarm,
	}
}

func cropStore(tx repository.Repository, farmID uint, current map[uint]entities.Crop) reconcile.Store[CropFields] {
	return reconcile.Funcs[CropFields]{
		InsertFn: func(ctx context.Context, v CropFields) (uint, error) {
			c := entities.Crop{FarmID: farmID, Name: v.Name, Season: v.Season}
			if err := tx.SaveCrop(ctx, &c); err != nil {
				return 0, err
			}
			return c.ID, nil
		},
		UpdateFn: func(ctx context.Context, id uint, v CropFields) error {
			c := current[id]
			c.Name, c.Season = v.Name, v.Season
			return tx.SaveCrop(ctx, &c)
		},
		DeleteFn: tx.DeleteCrop,
	}
}

// SyncFarms reconciles a producer's farms, then each desired farm's crops.
// current must be the producer's farms with crops loaded, read through tx.
// Storage failures come back as ReconciliationFailed.
func SyncFarms(ctx context.Context, tx repository.Repository, producerID uint, current []entities.Farm, desired []DesiredFarm) (Summary, error) {
	var sum Summary

	byID := make(map[uint]entities.Farm, len(current))
	records := make([]reconcile.Record[FarmFields], 0, len(current))
	for _, f := range current {
		byID[f.ID] = f
		records = append(records, reconcile.Record[FarmFields]{ID: f.ID, Fields: farmFields(f)})
	}
	items := make([]reconcile.Item[FarmFields], len(desired))
	for i, d := range desired {
		items[i] = d.Item
	}

	plan, ids, err := reconcile.Sync(ctx, farmStore(tx, producerID, byID), records, items)
	if err != nil {
		return sum, failed(err)
	}
	sum.addFarms(plan)

	for i, step := range plan.Steps {
		var crops []entities.Crop
		if step.Op != reconcile.OpInsert {
			crops = byID[ids[i]].Crops
		}
		cp, err := syncCrops(ctx, tx, ids[i], crops, desired[i].Crops)
		if err != nil {
			return sum, err
		}
		sum.addCrops(cp)
	}
	return sum, nil
}

// InsertFarm stores one new farm of producerID with its crops.
func InsertFarm(ctx context.Context, tx repository.Repository, producerID uint, d DesiredFarm) (uint, error) {
	id, err := farmStore(tx, producerID, nil).Insert(ctx, d.Item.Fields)
	if err != nil {
		return 0, failed(err)
	}
	if _, err := syncCrops(ctx, tx, id, nil, d.Crops); err != nil {
		return 0, err
	}
	return id, nil
}

// SyncCrops reconciles the crops of one farm.
func SyncCrops(ctx context.Context, tx repository.Repository, farmID uint, current []entities.Crop, desired []reconcile.Item[CropFields]) (Summary, error) {
	var sum Summary
	plan, err := syncCrops(ctx, tx, farmID, current, desired)
	if err != nil {
		return sum, err
	}
	sum.addCrops(plan)
	return sum, nil
}

func syncCrops(ctx context.Context, tx repository.Repository, farmID uint, current []entities.Crop, desired []reconcile.Item[CropFields]) (reconcile.Plan[CropFields], error) {
	byID := make(map[uint]entities.Crop, len(current))
	records := make([]reconcile.Record[CropFields], 0, len(current))
	for _, c := range current {
		byID[c.ID] = c
		records = append(records, reconcile.Record[CropFields]{ID: c.ID, Fields: cropFields(c)})
	}
	plan, _, err := reconcile.Sync(ctx, cropStore(tx, farmID, byID), records, desired)
	if err != nil {
		return plan, failed(err)
	}
	return plan, nil
}

// failed keeps classified errors and wraps raw storage errors.
func failed(err error) error {
	if _, ok := apperr.KindOf(err); ok {
		return err
	}
	return apperr.ReconciliationFailed(err)
}
