package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agro/entities"
	"agro/pkg/apperr"
	"agro/pkg/registry/repository"
)

type registryRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.Repository { return &registryRepo{db} }

func (r *registryRepo) Transaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&registryRepo{tx})
	})
}

func byID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// isUniqueViolation recognizes duplicate-key failures from gorm's error
// translation, from postgres (SQLSTATE 23505) and from sqlite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ---- producers ----

func (r *registryRepo) FindProducer(ctx context.Context, id uint) (*entities.Producer, error) {
	var p entities.Producer
	err := r.db.WithContext(ctx).
		Preload("Farms", byID).
		Preload("Farms.Crops", byID).
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err, "producer", id)
	}
	return &p, nil
}

func (r *registryRepo) FindProducerByTaxID(ctx context.Context, taxID string) (*entities.Producer, error) {
	// Find, not First: a free tax id is the usual answer and is not an error
	var p entities.Producer
	res := r.db.WithContext(ctx).Where("tax_id = ?", taxID).Limit(1).Find(&p)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.KindNotFound, "tax_id", "no producer with tax id %s", taxID)
	}
	return &p, nil
}

func (r *registryRepo) ListProducers(ctx context.Context, offset, limit int) ([]entities.Producer, error) {
	var ps []entities.Producer
	err := r.db.WithContext(ctx).
		Preload("Farms", byID).
		Preload("Farms.Crops", byID).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&ps).Error
	return ps, err
}

func (r *registryRepo) CountProducers(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&entities.Producer{}).Count(&n).Error
}

func (r *registryRepo) SaveProducer(ctx context.Context, p *entities.Producer) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		if isUniqueViolation(err) {
			return &apperr.Error{Kind: apperr.KindDuplicateTaxID, Field: "tax_id",
				Message: fmt.Sprintf("tax id %s is already registered", p.TaxID), Err: err}
		}
		return err
	}
	return nil
}

func (r *registryRepo) DeleteProducer(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	farmIDs := db.Model(&entities.Farm{}).Select("id").Where("producer_id = ?", id)
	if err := db.Where("farm_id IN (?)", farmIDs).Delete(&entities.Crop{}).Error; err != nil {
		return err
	}
	if err := db.Where("producer_id = ?", id).Delete(&entities.Farm{}).Error; err != nil {
		return err
	}
	res := db.Delete(&entities.Producer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("producer", id)
	}
	return nil
}

// ---- farms ----

func (r *registryRepo) FindFarm(ctx context.Context, id uint) (*entities.Farm, error) {
	var f entities.Farm
	if err := r.db.WithContext(ctx).Preload("Crops", byID).First(&f, id).Error; err != nil {
		return nil, notFound(err, "farm", id)
	}
	return &f, nil
}

func (r *registryRepo) ListFarms(ctx context.Context, offset, limit int) ([]entities.Farm, error) {
	var fs []entities.Farm
	err := r.db.WithContext(ctx).Preload("Crops", byID).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&fs).Error
	return fs, err
}

func (r *registryRepo) FarmsByProducer(ctx context.Context, producerID uint) ([]entities.Farm, error) {
	var fs []entities.Farm
	err := r.db.WithContext(ctx).Preload("Crops", byID).
		Where("producer_id = ?", producerID).Order("id ASC").
		Find(&fs).Error
	return fs, err
}

func (r *registryRepo) SaveFarm(ctx context.Context, f *entities.Farm) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(f).Error
}

func (r *registryRepo) DeleteFarm(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("farm_id = ?", id).Delete(&entities.Crop{}).Error; err != nil {
		return err
	}
	res := db.Delete(&entities.Farm{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("farm", id)
	}
	return nil
}

// ---- crops ----

func (r *registryRepo) FindCrop(ctx context.Context, id uint) (*entities.Crop, error) {
	var c entities.Crop
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "crop", id)
	}
	return &c, nil
}

func (r *registryRepo) CropsByFarm(ctx context.Context, farmID uint) ([]entities.Crop, error) {
	var cs []entities.Crop
	return cs, r.db.WithContext(ctx).Where("farm_id = ?", farmID).Order("id ASC").Find(&cs).Error
}

func (r *registryRepo) SaveCrop(ctx context.Context, c *entities.Crop) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *registryRepo) DeleteCrop(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entities.Crop{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("crop", id)
	}
	return nil
}

// ---- snapshot for aggregation ----

func (r *registryRepo) AllFarms(ctx context.Context) ([]entities.Farm, error) {
	var fs []entities.Farm
	return fs, r.db.WithContext(ctx).Order("id ASC").Find(&fs).Error
}

func (r *registryRepo) AllCrops(ctx context.Context) ([]entities.Crop, error) {
	var cs []entities.Crop
	return cs, r.db.WithContext(ctx).Order("id ASC").Find(&cs).Error
}
