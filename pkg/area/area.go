// Package area enforces the farm land-area invariant: every area is
// positive and arable plus vegetation never exceeds the total.
package area

import "agro/pkg/apperr"

// Areas is the (total, arable, vegetation) triple in hectares.
type Areas struct {
	Total      float64 `json:"total_area"`
	Arable     float64 `json:"arable_area"`
	Vegetation float64 `json:"vegetation_area"`
}

// Patch carries a partial area update; nil fields keep the current value.
type Patch struct {
	Total      *float64
	Arable     *float64
	Vegetation *float64
}

func (p Patch) Empty() bool {
	return p.Total == nil && p.Arable == nil && p.Vegetation == nil
}

// Validate checks the invariant for one farm.
func Validate(total, arable, vegetation float64) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"total_area", total},
		{"arable_area", arable},
		{"vegetation_area", vegetation},
	} {
		// !(v > 0) also rejects NaN.
		if !(f.v > 0) {
			return apperr.New(apperr.KindNonPositiveArea, f.name, "must be greater than zero, got %g", f.v)
		}
	}
	if arable+vegetation > total {
		return apperr.New(apperr.KindAreaSumExceedsTotal, "arable_area",
			"arable (%g) plus vegetation (%g) exceeds total area (%g)", arable, vegetation, total)
	}
	return nil
}

func (a Areas) Validate() error { return Validate(a.Total, a.Arable, a.Vegetation) }

// Merge applies p over current. The result is what must be validated
// before a partial update is persisted.
func Merge(current Areas, p Patch) Areas {
	out := current
	if p.Total != nil {
		out.Total = *p.Total
	}
	if p.Arable != nil {
		out.Arable = *p.Arable
	}
	if p.Vegetation != nil {
		out.Vegetation = *p.Vegetation
	}
	return out
}
