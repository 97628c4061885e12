// Package report renders the registry as an xlsx workbook with Farms, Crops
// and Summary sheets.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"agro/entities"
	"agro/pkg/dashboard"
	"agro/pkg/taxid"
)

const (
	SheetFarms   = "Farms"
	SheetCrops   = "Crops"
	SheetSummary = "Summary"
)

var (
	farmHeader = []any{"Farm ID", "Producer", "Tax ID", "Farm", "City", "State",
		"Total (ha)", "Arable (ha)", "Vegetation (ha)", "Crops"}
	cropHeader = []any{"Crop ID", "Farm ID", "Farm", "Crop", "Season"}
)

// Build lays out producers (with farms and crops loaded) as a workbook.
// The caller closes the returned file.
func Build(producers []entities.Producer) (*excelize.File, error) {
	x := excelize.NewFile()
	if err := x.SetSheetName("Sheet1", SheetFarms); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetCrops, SheetSummary} {
		if _, err := x.NewSheet(name); err != nil {
			return nil, err
		}
	}
	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	var (
		farms []entities.Farm
		crops []entities.Crop
	)
	farmRows := [][]any{farmHeader}
	cropRows := [][]any{cropHeader}
	for _, p := range producers {
		for _, f := range p.Farms {
			farms = append(farms, f)
			farmRows = append(farmRows, []any{f.ID, p.Name, taxid.Format(p.TaxID), f.Name, f.City, f.State,
				f.TotalArea, f.ArableArea, f.VegetationArea, len(f.Crops)})
			for _, c := range f.Crops {
				crops = append(crops, c)
				cropRows = append(cropRows, []any{c.ID, f.ID, f.Name, c.Name, c.Season})
			}
		}
	}

	if err := writeRows(x, SheetFarms, farmRows, bold); err != nil {
		return nil, err
	}
	if err := writeRows(x, SheetCrops, cropRows, bold); err != nil {
		return nil, err
	}
	if err := writeRows(x, SheetSummary, summaryRows(dashboard.Compute(farms, crops)), bold); err != nil {
		return nil, err
	}
	if err := x.SetColWidth(SheetFarms, "B", "E", 24); err != nil {
		return nil, err
	}
	return x, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, producers []entities.Producer) error {
	x, err := Build(producers)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer x.Close()
	return x.Write(w)
}

func summaryRows(st dashboard.Stats) [][]any {
	rows := [][]any{
		{"Metric", "Value"},
		{"Farms", st.FarmCount},
		{"Total hectares", st.TotalHectares},
		{"Arable hectares", st.ByLandUse[dashboard.LandUseArable]},
		{"Vegetation hectares", st.ByLandUse[dashboard.LandUseVegetation]},
		{},
		{"State", "Farms"},
	}
	for _, k := range sortedKeys(st.ByState) {
		rows = append(rows, []any{k, st.ByState[k]})
	}
	rows = append(rows, []any{}, []any{"Crop", "Records"})
	for _, k := range sortedKeys(st.ByCrop) {
		rows = append(rows, []any{k, st.ByCrop[k]})
	}
	return rows
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeRows(x *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := x.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return x.SetRowStyle(sheet, 1, 1, headerStyle)
}
