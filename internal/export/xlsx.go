// Package export writes price tables to spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mswatii/cs2-craftcalc/internal/models"
	"github.com/mswatii/cs2-craftcalc/internal/profit"
)

const (
	OutputsSheet = "Outputs"
	WeaponsSheet = "Weapons"
)

// Resolver maps a display name onto its market hash name
type Resolver func(display string) (string, error)

// WriteXLSX writes one sheet per item list plus a summary block on the weapons sheet
func WriteXLSX(path string, state models.ItemState, summary profit.Summary, resolve Resolver) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OutputsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(WeaponsSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	if err := writeItems(f, OutputsSheet, state.Primary, resolve, headerStyle, priceStyle); err != nil {
		return err
	}
	if err := writeItems(f, WeaponsSheet, state.Weapons, resolve, headerStyle, priceStyle); err != nil {
		return err
	}

	// Margins next to the weapon list
	if err := f.SetSheetRow(WeaponsSheet, "E1", &[]any{"Threshold", "Average output", "Craft size"}); err != nil {
		return err
	}
	if err := f.SetSheetRow(WeaponsSheet, "E2", &[]any{summary.Threshold, summary.AveragePrice, summary.CraftSize}); err != nil {
		return err
	}
	if err := f.SetCellStyle(WeaponsSheet, "E1", "G1", headerStyle); err != nil {
		return err
	}
	if err := f.SetSheetRow(WeaponsSheet, "E4", &[]any{"Weapon", "Margin", "Profitable"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(WeaponsSheet, "E4", "G4", headerStyle); err != nil {
		return err
	}
	for i, w := range summary.Weapons {
		cell := fmt.Sprintf("E%d", i+5)
		if err := f.SetSheetRow(WeaponsSheet, cell, &[]any{w.Name, w.Margin, w.Profitable}); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeItems(f *excelize.File, sheet string, items []models.PriceableItem, resolve Resolver, headerStyle, priceStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Name", "Market name", "Lowest price"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", headerStyle); err != nil {
		return err
	}
	for i, it := range items {
		row := i + 2
		market := ""
		if resolve != nil {
			if name, err := resolve(it.Name); err == nil {
				market = name
			}
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{it.Name, market, it.MinPrice}); err != nil {
			return err
		}
	}
	if len(items) > 0 {
		if err := f.SetCellStyle(sheet, "C2", fmt.Sprintf("C%d", len(items)+1), priceStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 36); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 14)
}
