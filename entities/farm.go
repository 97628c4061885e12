package entities

import (
	"time"

	"agro/pkg/area"
)

type Farm struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProducerID     uint      `gorm:"index;not null" json:"producer_id"`
	Name           string    `gorm:"not null" json:"name"`
	City           string    `gorm:"not null" json:"city"`
	State          string    `gorm:"index;not null" json:"state"` // two-letter UF code
	TotalArea      float64   `gorm:"not null" json:"total_area"`
	ArableArea     float64   `gorm:"not null" json:"arable_area"`
	VegetationArea float64   `gorm:"not null" json:"vegetation_area"`
	Crops          []Crop    `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"crops"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (f Farm) Areas() area.Areas {
	return area.Areas{Total: f.TotalArea, Arable: f.ArableArea, Vegetation: f.VegetationArea}
}
