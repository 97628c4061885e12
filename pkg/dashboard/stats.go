// Package dashboard projects the persisted farms and crops into the
// aggregate statistics shown on the dashboard.
package dashboard

import "agro/entities"

const (
	LandUseArable     = "arable"
	LandUseVegetation = "vegetation"
)

type Stats struct {
	FarmCount     int                `json:"farm_count"`
	TotalHectares float64            `json:"total_hectares"`
	ByState       map[string]int     `json:"by_state"`
	ByCrop        map[string]int     `json:"by_crop"`
	ByLandUse     map[string]float64 `json:"by_land_use"`
}

// Compute builds Stats from a full snapshot. ByCrop counts crop records,
// not distinct farms. It never fails; empty input yields zeros.
func Compute(farms []entities.Farm, crops []entities.Crop) Stats {
	s := Stats{
		ByState:   make(map[string]int),
		ByCrop:    make(map[string]int),
		ByLandUse: map[string]float64{LandUseArable: 0, LandUseVegetation: 0},
	}

	for _, f := range farms {
		s.FarmCount++
		s.TotalHectares += f.TotalArea
		s.ByState[f.State]++
		s.ByLandUse[LandUseArable] += f.ArableArea
		s.ByLandUse[LandUseVegetation] += f.VegetationArea
	}
	for _, c := range crops {
		s.ByCrop[c.Name]++
	}
	return s
}
