package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agro/entities"
)

// DemoProducers is the sample registry loaded by Seed.
func DemoProducers() []entities.Producer {
	return []entities.Producer{
		{
			TaxID: "12345678909",
			Name:  "João Silva Santos",
			Farms: []entities.Farm{
				{
					Name: "Fazenda Santa Maria", City: "Ribeirão Preto", State: "SP",
					TotalArea: 1500, ArableArea: 1200, VegetationArea: 300,
					Crops: []entities.Crop{{Name: "Soja", Season: "2023"}, {Name: "Milho", Season: "2023"}},
				},
				{
					Name: "Fazenda Boa Vista", City: "Uberlândia", State: "MG",
					TotalArea: 800, ArableArea: 600, VegetationArea: 200,
					Crops: []entities.Crop{{Name: "Café", Season: "2023"}},
				},
			},
		},
		{
			TaxID: "98765432100",
			Name:  "Maria Oliveira Costa",
			Farms: []entities.Farm{
				{
					Name: "Fazenda São João", City: "Goiânia", State: "GO",
					TotalArea: 2000, ArableArea: 1600, VegetationArea: 400,
					Crops: []entities.Crop{{Name: "Soja", Season: "2023"}, {Name: "Algodão", Season: "2023"}},
				},
			},
		},
		{
			TaxID: "11222333000181",
			Name:  "Agropecuária Brasil Ltda",
			Farms: []entities.Farm{
				{
					Name: "Fazenda Industrial", City: "Londrina", State: "PR",
					TotalArea: 3000, ArableArea: 2400, VegetationArea: 600,
					Crops: []entities.Crop{
						{Name: "Soja", Season: "2023"},
						{Name: "Trigo", Season: "2023"},
						{Name: "Milho", Season: "2023"},
					},
				},
			},
		},
	}
}

// Seed inserts DemoProducers in one transaction when the registry is empty.
// It reports whether anything was written.
func Seed(ctx context.Context, db *gorm.DB) (bool, error) {
	seeded := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entities.Producer{}).Count(&n).Error; err != nil {
			return fmt.Errorf("count producers: %w", err)
		}
		if n > 0 {
			return nil
		}
		demo := DemoProducers()
		// Create cascades into Farms and Crops.
		if err := tx.Create(&demo).Error; err != nil {
			return fmt.Errorf("insert demo data: %w", err)
		}
		seeded = true
		return nil
	})
	return seeded, err
}
