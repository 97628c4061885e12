package entities

import "time"

type Crop struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FarmID    uint      `gorm:"index;not null" json:"farm_id"`
	Name      string    `gorm:"index;not null" json:"name"`
	Season    string    `gorm:"not null" json:"season"` // harvest label, e.g. "2023" or "Safra 2023/24"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
