package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

var placementHeaders = []interface{}{
	"Kind", "Image ID", "Alt", "Source", "Service", "Node", "Placeholder", "X", "Y", "Width", "Height", "Score",
}

// ExportXLSX writes one row per placed image plus a summary sheet.
func ExportXLSX(path string, layout Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(placementsSheet, "A1", &placementHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(placementHeaders))
	if err := f.SetCellStyle(placementsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range layout.Entries() {
		row := []interface{}{
			e.Kind, e.Image.ID, e.Image.Alt, e.Image.Source, e.Image.Service,
			string(e.Node), e.Placeholder,
			e.Bounds.X, e.Bounds.Y, e.Bounds.Width, e.Bounds.Height,
		}
		if e.Kind == KindMatched {
			row = append(row, e.Score)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(placementsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	r := layout.Report
	summary := [][]interface{}{
		{"Frame", layout.Title},
		{"Width", layout.Width},
		{"Height", layout.Height},
		{"Placeholders", len(r.Placeholders)},
		{"Matched", len(r.Pairs)},
		{"Packed", len(r.Packed)},
		{"Match rate %", r.MatchRate()},
		{"Updated", len(r.Updated)},
		{"Created", len(r.Created)},
		{"Dropped", r.Dropped},
		{"Fallback", r.Fallback},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
