package entities

import "time"

type Producer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaxID     string    `gorm:"uniqueIndex;not null" json:"tax_id"`
	Name      string    `gorm:"not null" json:"name"`
	Farms     []Farm    `gorm:"foreignKey:ProducerID;constraint:OnDelete:CASCADE" json:"farms"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
