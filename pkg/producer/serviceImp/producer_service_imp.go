package serviceImp

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"agro/entities"
	"agro/pkg/apperr"
	dsvc "agro/pkg/dashboard/service"
	"agro/pkg/producer/service"
	"agro/pkg/registry"
	"agro/pkg/registry/repository"
	"agro/pkg/taxid"
)

const maxPage = 1000

type producerSvc struct {
	repo repository.Repository
	dash dsvc.Invalidator
	log  *zap.Logger
}

func New(r repository.Repository, dash dsvc.Invalidator, log *zap.Logger) service.ProducerService {
	return &producerSvc{repo: r, dash: dash, log: log}
}

func (s *producerSvc) Create(ctx context.Context, in registry.ProducerInput) (*entities.Producer, error) {
	h, err := in.Validate()
	if err != nil {
		return nil, err
	}
	farms, err := registry.PrepareFarms(in.Farms)
	if err != nil {
		return nil, err
	}

	var (
		p   = &entities.Producer{TaxID: h.TaxID, Name: h.Name}
		sum registry.Summary
	)
	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if err := ensureTaxIDFree(ctx, tx, h.TaxID, 0); err != nil {
			return err
		}
		if err := tx.SaveProducer(ctx, p); err != nil {
			return err
		}
		sum, err = registry.SyncFarms(ctx, tx, p.ID, nil, farms)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.dash.Invalidate(ctx)
	s.log.Info("producer created",
		zap.Uint("producer_id", p.ID),
		zap.String("tax_kind", kindLabel(h.TaxID)),
		zap.Int("farms", sum.FarmsInserted),
		zap.Int("crops", sum.CropsInserted))
	return s.repo.FindProducer(ctx, p.ID)
}

func (s *producerSvc) Get(ctx context.Context, id uint) (*entities.Producer, error) {
	return s.repo.FindProducer(ctx, id)
}

func (s *producerSvc) List(ctx context.Context, skip, limit int) ([]entities.Producer, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPage {
		limit = maxPage
	}
	return s.repo.ListProducers(ctx, skip, limit)
}

func (s *producerSvc) Update(ctx context.Context, id uint, in registry.ProducerInput) (*entities.Producer, error) {
	// everything is validated before the transaction opens
	h, err := in.Validate()
	if err != nil {
		return nil, err
	}
	farms, err := registry.PrepareFarms(in.Farms)
	if err != nil {
		return nil, err
	}

	var sum registry.Summary
	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		cur, err := tx.FindProducer(ctx, id)
		if err != nil {
			return err
		}
		if cur.TaxID != h.TaxID {
			if err := ensureTaxIDFree(ctx, tx, h.TaxID, id); err != nil {
				return err
			}
		}
		if cur.TaxID != h.TaxID || cur.Name != h.Name {
			cur.TaxID, cur.Name = h.TaxID, h.Name
			if err := tx.SaveProducer(ctx, cur); err != nil {
				return failed(err)
			}
		}
		sum, err = registry.SyncFarms(ctx, tx, id, cur.Farms, farms)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.dash.Invalidate(ctx)
	s.log.Info("producer reconciled",
		zap.Uint("producer_id", id),
		zap.Int("farms_inserted", sum.FarmsInserted),
		zap.Int("farms_updated", sum.FarmsUpdated),
		zap.Int("farms_deleted", sum.FarmsDeleted),
		zap.Int("crops_inserted", sum.CropsInserted),
		zap.Int("crops_updated", sum.CropsUpdated),
		zap.Int("crops_deleted", sum.CropsDeleted))
	return s.repo.FindProducer(ctx, id)
}

func (s *producerSvc) Patch(ctx context.Context, id uint, p service.ProducerPatch) (*entities.Producer, error) {
	var tax, name string
	if p.TaxID != nil {
		v, err := taxid.Validate(*p.TaxID)
		if err != nil {
			return nil, err
		}
		tax = v
	}
	if p.Name != nil {
		v, err := registry.Required("name", *p.Name)
		if err != nil {
			return nil, err
		}
		name = v
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		cur, err := tx.FindProducer(ctx, id)
		if err != nil {
			return err
		}
		if p.TaxID != nil && tax != cur.TaxID {
			if err := ensureTaxIDFree(ctx, tx, tax, id); err != nil {
				return err
			}
			cur.TaxID = tax
		}
		if p.Name != nil {
			cur.Name = name
		}
		return tx.SaveProducer(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindProducer(ctx, id)
}

func (s *producerSvc) Delete(ctx context.Context, id uint) error {
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		return tx.DeleteProducer(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dash.Invalidate(ctx)
	s.log.Info("producer deleted", zap.Uint("producer_id", id))
	return nil
}

// ensureTaxIDFree fails with DuplicateTaxId when another producer than self
// already holds tax.
func ensureTaxIDFree(ctx context.Context, tx repository.Repository, tax string, self uint) error {
	other, err := tx.FindProducerByTaxID(ctx, tax)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID == self:
		return nil
	}
	return apperr.New(apperr.KindDuplicateTaxID, "tax_id", "tax id %s is already registered", tax)
}

func failed(err error) error {
	if _, ok := apperr.KindOf(err); ok {
		return err
	}
	return apperr.ReconciliationFailed(err)
}

func kindLabel(tax string) string {
	k, _ := taxid.KindOf(tax)
	return string(k)
}
