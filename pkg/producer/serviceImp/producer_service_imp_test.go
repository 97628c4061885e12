package serviceImp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"agro/database/dbtest"
	"agro/entities"
	"agro/pkg/apperr"
	"agro/pkg/producer/service"
	"agro/pkg/registry"
	"agro/pkg/registry/repositoryImp"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func newSvc(t *testing.T) (service.ProducerService, *countingInvalidator) {
	t.Helper()
	inv := &countingInvalidator{}
	return New(repositoryImp.New(dbtest.New(t)), inv, zap.NewNop()), inv
}

func strp(s string) *string { return &s }

func santaMaria() registry.FarmInput {
	return registry.FarmInput{
		Name: "Fazenda Santa Maria", City: "Ribeirão Preto", State: "SP",
		TotalArea: 1500, ArableArea: 1200, VegetationArea: 300,
		Crops: []registry.CropInput{{Name: "Soja", Season: "2023"}, {Name: "Milho", Season: "2023"}},
	}
}

func boaVista() registry.FarmInput {
	return registry.FarmInput{
		Name: "Fazenda Boa Vista", City: "Uberlândia", State: "MG",
		TotalArea: 800, ArableArea: 600, VegetationArea: 200,
		Crops: []registry.CropInput{{Name: "Café", Season: "2023"}},
	}
}

// echo turns a stored producer back into an update payload.
func echo(p *entities.Producer) registry.ProducerInput {
	in := registry.ProducerInput{TaxID: p.TaxID, Name: p.Name, Farms: []registry.FarmInput{}}
	for _, f := range p.Farms {
		fi := registry.FarmInput{ID: f.ID, Name: f.Name, City: f.City, State: f.State,
			TotalArea: f.TotalArea, ArableArea: f.ArableArea, VegetationArea: f.VegetationArea}
		for _, c := range f.Crops {
			fi.Crops = append(fi.Crops, registry.CropInput{ID: c.ID, Name: c.Name, Season: c.Season})
		}
		in.Farms = append(in.Farms, fi)
	}
	return in
}

func TestCreate_Nested(t *testing.T) {
	s, inv := newSvc(t)

	p, err := s.Create(context.Background(), registry.ProducerInput{
		TaxID: "123.456.789-09", Name: "João Silva Santos",
		Farms: []registry.FarmInput{santaMaria(), boaVista()},
	})
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, "12345678909", p.TaxID)
	require.Len(t, p.Farms, 2)
	assert.Len(t, p.Farms[0].Crops, 2)
	assert.Len(t, p.Farms[1].Crops, 1)
	assert.Equal(t, 1, inv.n)
}

func TestCreate_ValidationWritesNothing(t *testing.T) {
	ctx := context.Background()
	s, inv := newSvc(t)
	bad := boaVista()
	bad.TotalArea = 700

	_, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João",
		Farms: []registry.FarmInput{santaMaria(), bad}})
	require.ErrorIs(t, err, apperr.ErrAreaSumExceedsTotal)
	assert.Equal(t, "farms[1].arable_area", apperr.FieldOf(err))

	list, err := s.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, inv.n)
}

func TestCreate_TaxIDErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)

	_, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678900", Name: "João"})
	assert.ErrorIs(t, err, apperr.ErrInvalidChecksum)

	_, err = s.Create(ctx, registry.ProducerInput{TaxID: "1234", Name: "João"})
	assert.ErrorIs(t, err, apperr.ErrInvalidFormat)

	_, err = s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João"})
	require.NoError(t, err)
	_, err = s.Create(ctx, registry.ProducerInput{TaxID: "123.456.789-09", Name: "Outro"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateTaxID)
}

func TestUpdate_SamePayloadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)
	p, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João",
		Farms: []registry.FarmInput{santaMaria(), boaVista()}})
	require.NoError(t, err)

	once, err := s.Update(ctx, p.ID, echo(p))
	require.NoError(t, err)
	twice, err := s.Update(ctx, p.ID, echo(once))
	require.NoError(t, err)

	assert.Equal(t, echo(p), echo(once))
	assert.Equal(t, echo(once), echo(twice))
}

func TestUpdate_ReconcilesBothLevels(t *testing.T) {
	ctx := context.Background()
	s, inv := newSvc(t)
	p, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João",
		Farms: []registry.FarmInput{santaMaria(), boaVista()}})
	require.NoError(t, err)

	in := echo(p)
	in.Name = "João S. Santos"
	// keep Santa Maria with only Milho plus a new Trigo, drop Boa Vista, add a new farm
	in.Farms[0].Crops = []registry.CropInput{in.Farms[0].Crops[1], {Name: "Trigo", Season: "2024"}}
	in.Farms[0].ArableArea = 1100
	in.Farms = []registry.FarmInput{in.Farms[0], {
		Name: "Fazenda Nova", City: "Londrina", State: "pr",
		TotalArea: 100, ArableArea: 50, VegetationArea: 50,
		Crops: []registry.CropInput{{Name: "Soja", Season: "2024"}},
	}}

	got, err := s.Update(ctx, p.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "João S. Santos", got.Name)
	require.Len(t, got.Farms, 2)
	assert.Equal(t, p.Farms[0].ID, got.Farms[0].ID)
	assert.Equal(t, 1100.0, got.Farms[0].ArableArea)
	require.Len(t, got.Farms[0].Crops, 2)
	assert.Equal(t, p.Farms[0].Crops[1].ID, got.Farms[0].Crops[0].ID)
	assert.Equal(t, "Trigo", got.Farms[0].Crops[1].Name)
	assert.Equal(t, "PR", got.Farms[1].State)
	assert.Len(t, got.Farms[1].Crops, 1)
	assert.Equal(t, 2, inv.n)
}

func TestUpdate_AreaViolationAbortsEverything(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)
	p, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João",
		Farms: []registry.FarmInput{santaMaria(), boaVista()}})
	require.NoError(t, err)

	in := echo(p)
	in.Name = "Changed"
	in.Farms = in.Farms[:1]
	in.Farms = append(in.Farms, registry.FarmInput{Name: "X", City: "Y", State: "GO",
		TotalArea: 1000, ArableArea: 800, VegetationArea: 300})

	_, err = s.Update(ctx, p.ID, in)
	require.ErrorIs(t, err, apperr.ErrAreaSumExceedsTotal)

	after, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, echo(p), echo(after))
}

func TestUpdate_StorageFailureRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	s := New(repositoryImp.New(db), &countingInvalidator{}, zap.NewNop())
	p, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João",
		Farms: []registry.FarmInput{santaMaria(), boaVista()}})
	require.NoError(t, err)

	failCrops := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_crop_insert", func(tx *gorm.DB) {
		if failCrops && tx.Statement.Schema != nil && tx.Statement.Schema.Table == "crops" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))
	failCrops = true

	// drop Boa Vista, rename Santa Maria and give it a new crop whose insert fails
	in := echo(p)
	in.Name = "Changed"
	in.Farms = in.Farms[:1]
	in.Farms[0].Name = "Fazenda Santa Maria II"
	in.Farms[0].Crops = append(in.Farms[0].Crops, registry.CropInput{Name: "Trigo", Season: "2024"})

	_, err = s.Update(ctx, p.ID, in)
	require.ErrorIs(t, err, apperr.ErrReconciliationFailed)
	assert.ErrorContains(t, err, "disk full")

	failCrops = false
	after, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "João", after.Name)
	require.Len(t, after.Farms, 2)
	assert.Equal(t, "Fazenda Santa Maria", after.Farms[0].Name)
	assert.Equal(t, "Fazenda Boa Vista", after.Farms[1].Name)
	assert.Equal(t, echo(p), echo(after))

	var crops int64
	require.NoError(t, db.Model(&entities.Crop{}).Count(&crops).Error)
	assert.EqualValues(t, 3, crops)
}

func TestUpdate_EmptyFarmsDeletesAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)
	p, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João",
		Farms: []registry.FarmInput{santaMaria()}})
	require.NoError(t, err)

	got, err := s.Update(ctx, p.ID, registry.ProducerInput{TaxID: p.TaxID, Name: p.Name})
	require.NoError(t, err)
	assert.Empty(t, got.Farms)
}

func TestUpdate_Errors(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)
	a, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "A"})
	require.NoError(t, err)
	_, err = s.Create(ctx, registry.ProducerInput{TaxID: "98765432100", Name: "B"})
	require.NoError(t, err)

	_, err = s.Update(ctx, 999, registry.ProducerInput{TaxID: "11222333000181", Name: "Z"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.Update(ctx, a.ID, registry.ProducerInput{TaxID: "98765432100", Name: "A"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateTaxID)

	got, err := s.Update(ctx, a.ID, registry.ProducerInput{TaxID: "11.222.333/0001-81", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", got.TaxID)
}

func TestPatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)
	p, err := s.Create(ctx, registry.ProducerInput{TaxID: "12345678909", Name: "João",
		Farms: []registry.FarmInput{santaMaria()}})
	require.NoError(t, err)

	got, err := s.Patch(ctx, p.ID, service.ProducerPatch{Name: strp("  Maria  ")})
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
	assert.Equal(t, "12345678909", got.TaxID)
	assert.Len(t, got.Farms, 1, "patch leaves farms alone")

	_, err = s.Patch(ctx, p.ID, service.ProducerPatch{Name: strp(" ")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = s.Patch(ctx, p.ID, service.ProducerPatch{TaxID: strp("00000000000")})
	assert.ErrorIs(t, err, apperr.ErrInvalidChecksum)

	got, err = s.Patch(ctx, p.ID, service.ProducerPatch{TaxID: strp("98765432100")})
	require.NoError(t, err)
	assert.Equal(t, "98765432100", got.TaxID)

	_, err = s.Patch(ctx, 999, service.ProducerPatch{Name: strp("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, inv := newSvc(t)
	for _, tax := range []string{"12345678909", "98765432100", "11222333000181"} {
		_, err := s.Create(ctx, registry.ProducerInput{TaxID: tax, Name: "P " + tax,
			Farms: []registry.FarmInput{santaMaria()}})
		require.NoError(t, err)
	}

	page, err := s.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "98765432100", page[0].TaxID)

	all, err := s.List(ctx, -5, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, s.Delete(ctx, all[0].ID))
	_, err = s.Get(ctx, all[0].ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, all[0].ID), apperr.ErrNotFound)
	assert.Equal(t, 4, inv.n)
}
