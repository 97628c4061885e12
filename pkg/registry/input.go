// Package registry holds the payload types shared by the producer and farm
// services, their validation, and the farm/crop reconciliation stores.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"agro/pkg/apperr"
	"agro/pkg/area"
	"agro/pkg/reconcile"
	"agro/pkg/taxid"
)

type CropInput struct {
	ID     uint   `json:"id,omitempty"`
	Name   string `json:"name"`
	Season string `json:"season"`
}

// CropFields is the reconciled part of a crop.
type CropFields struct {
	Name   string
	Season string
}

type FarmInput struct {
	ID             uint        `json:"id,omitempty"`
	Name           string      `json:"name"`
	City           string      `json:"city"`
	State          string      `json:"state"`
	TotalArea      float64     `json:"total_area"`
	ArableArea     float64     `json:"arable_area"`
	VegetationArea float64     `json:"vegetation_area"`
	Crops          []CropInput `json:"crops"`
}

// FarmFields is the reconciled part of a farm. Crops reconcile separately.
type FarmFields struct {
	Name  string
	City  string
	State string
	area.Areas
}

type ProducerInput struct {
	TaxID string      `json:"tax_id"`
	Name  string      `json:"name"`
	Farms []FarmInput `json:"farms"`
}

// DesiredFarm is a validated farm payload with its validated crops.
type DesiredFarm struct {
	Item  reconcile.Item[FarmFields]
	Crops []reconcile.Item[CropFields]
}

// Header is a validated producer tax id and name.
type Header struct {
	TaxID string
	Name  string
}

// Required trims s and rejects it when empty.
func Required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.New(apperr.KindInvalidInput, field, "must not be empty")
	}
	return s, nil
}

func State(s string) (string, error) {
	s, err := Required("state", s)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}

func (in CropInput) Fields() (CropFields, error) {
	name, err := Required("name", in.Name)
	if err != nil {
		return CropFields{}, err
	}
	season, err := Required("season", in.Season)
	if err != nil {
		return CropFields{}, err
	}
	return CropFields{Name: name, Season: season}, nil
}

func (in FarmInput) Fields() (FarmFields, error) {
	var (
		f   FarmFields
		err error
	)
	if f.Name, err = Required("name", in.Name); err != nil {
		return FarmFields{}, err
	}
	if f.City, err = Required("city", in.City); err != nil {
		return FarmFields{}, err
	}
	if f.State, err = State(in.State); err != nil {
		return FarmFields{}, err
	}
	f.Areas = area.Areas{Total: in.TotalArea, Arable: in.ArableArea, Vegetation: in.VegetationArea}
	if err := f.Areas.Validate(); err != nil {
		return FarmFields{}, err
	}
	return f, nil
}

// Validate checks the producer's tax id and name. The tax id is returned
// in normalized form.
func (in ProducerInput) Validate() (Header, error) {
	tax, err := taxid.Validate(in.TaxID)
	if err != nil {
		return Header{}, err
	}
	name, err := Required("name", in.Name)
	if err != nil {
		return Header{}, err
	}
	return Header{TaxID: tax, Name: name}, nil
}

// PrepareCrops validates every crop before anything is written.
func PrepareCrops(in []CropInput) ([]reconcile.Item[CropFields], error) {
	return prepareCrops("crops", in)
}

func prepareCrops(path string, in []CropInput) ([]reconcile.Item[CropFields], error) {
	out := make([]reconcile.Item[CropFields], 0, len(in))
	seen := make(map[uint]bool, len(in))
	for i, c := range in {
		at := fmt.Sprintf("%s[%d]", path, i)
		if err := claim(seen, c.ID, at); err != nil {
			return nil, err
		}
		f, err := c.Fields()
		if err != nil {
			return nil, under(at, err)
		}
		out = append(out, reconcile.FromID(c.ID, f))
	}
	return out, nil
}

// PrepareFarms validates every farm and every crop before anything is
// written. Error fields carry the payload path, e.g. farms[1].arable_area.
func PrepareFarms(in []FarmInput) ([]DesiredFarm, error) {
	out := make([]DesiredFarm, 0, len(in))
	seen := make(map[uint]bool, len(in))
	for i, f := range in {
		at := fmt.Sprintf("farms[%d]", i)
		if err := claim(seen, f.ID, at); err != nil {
			return nil, err
		}
		fields, err := f.Fields()
		if err != nil {
			return nil, under(at, err)
		}
		crops, err := prepareCrops(at+".crops", f.Crops)
		if err != nil {
			return nil, err
		}
		out = append(out, DesiredFarm{Item: reconcile.FromID(f.ID, fields), Crops: crops})
	}
	return out, nil
}

func claim(seen map[uint]bool, id uint, at string) error {
	if id == 0 {
		return nil
	}
	if seen[id] {
		return apperr.New(apperr.KindInvalidInput, at+".id", "id %d appears more than once", id)
	}
	seen[id] = true
	return nil
}

// under prefixes the field of an apperr.Error with path.
func under(path string, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return err
	}
	cp := *ae
	if cp.Field == "" {
		cp.Field = path
	} else {
		cp.Field = path + "." + cp.Field
	}
	return &cp
}
