package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/framefill/internal/model"
)

// entryColor represents an RGB color for a drawn rectangle.
type entryColor struct {
	R, G, B int
}

// entryColors cycles across placed images.
var entryColors = []entryColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a two-page report: a scaled diagram of the frame with
// every destination drawn in, and a summary page with match statistics.
func ExportPDF(path string, layout Layout) error {
	if layout.Width <= 0 || layout.Height <= 0 {
		return fmt.Errorf("frame %q has no size", layout.Title)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, layout)

	pdf.AddPage()
	renderSummaryPage(pdf, layout)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the frame diagram on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, layout Layout) {
	report := layout.Report

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%.0f x %.0f px)", layout.Title, layout.Width, layout.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Placeholders: %d | Matched: %d | Packed: %d | Match rate: %.1f%%",
		len(report.Placeholders), len(report.Pairs), len(report.Packed), report.MatchRate())
	if report.Fallback {
		stats += " | No placeholders, frame grid packed"
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/layout.Width, drawHeight/layout.Height)

	canvasW := layout.Width * scale
	canvasH := layout.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Frame background
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Padding guide
	if pad := layout.Settings.Padding * scale; pad > 0 && 2*pad < canvasW && 2*pad < canvasH {
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetLineWidth(0.1)
		pdf.SetDashPattern([]float64{1, 1}, 0)
		pdf.Rect(offsetX+pad, offsetY+pad, canvasW-2*pad, canvasH-2*pad, "D")
		pdf.SetDashPattern([]float64{}, 0)
	}

	// Unused placeholders as dashed outlines
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.3)
	pdf.SetDashPattern([]float64{2, 1}, 0)
	for _, ph := range layout.freePlaceholders() {
		b := ph.Bounds()
		pdf.Rect(offsetX+b.X*scale, offsetY+b.Y*scale, b.Width*scale, b.Height*scale, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)

	for i, e := range layout.Entries() {
		col := entryColors[i%len(entryColors)]
		b := e.Bounds
		px, py := offsetX+b.X*scale, offsetY+b.Y*scale
		pw, ph := b.Width*scale, b.Height*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := e.Image.Label()
			if w := pdf.GetStringWidth(label); w < pw-2 {
				pdf.SetXY(px+(pw-w)/2, py+ph/2-4)
				pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
			}
			dims := fmt.Sprintf("%.0fx%.0f", e.Image.Width, e.Image.Height)
			if w := pdf.GetStringWidth(dims); ph > 14 && w < pw-2 {
				pdf.SetXY(px+(pw-w)/2, py+ph/2)
				pdf.CellFormat(w, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, layout, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, layout, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and height labels outside the frame.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, layout Layout, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f px", layout.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f px", layout.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact color legend below the diagram.
func drawLegend(pdf *fpdf.Fpdf, layout Layout, startY float64) {
	entries := layout.Entries()
	if len(entries) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Images placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, e := range entries {
		col := entryColors[i%len(entryColors)]
		label := fmt.Sprintf("%s (%.0fx%.0f)", e.Image.Label(), e.Image.Width, e.Image.Height)
		if e.Kind == KindPacked {
			label += " P"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws match statistics, the pair table and settings.
func renderSummaryPage(pdf *fpdf.Fpdf, layout Layout) {
	report := layout.Report

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Placement Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Images", fmt.Sprintf("%d", len(report.Pairs)+len(report.Unmatched))},
		{"Matched to placeholders", fmt.Sprintf("%d", len(report.Pairs))},
		{"Grid packed", fmt.Sprintf("%d", len(report.Packed))},
		{"Match rate", fmt.Sprintf("%.1f%%", report.MatchRate())},
		{"Nodes updated", fmt.Sprintf("%d", len(report.Updated))},
		{"Nodes created", fmt.Sprintf("%d", len(report.Created))},
		{"Writes dropped", fmt.Sprintf("%d", report.Dropped)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	if len(report.Pairs) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Matches", "", 0, "L", false, 0, "")
		y += 9

		colWidths := []float64{60, 35, 60, 45, 30}
		headers := []string{"Image", "Size", "Placeholder", "Slot", "Score"}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6

		pdf.SetFont("Helvetica", "", 9)
		for i, p := range report.Pairs {
			if y > pageHeight-marginBottom-20 {
				break
			}
			xPos = marginLeft
			rowData := []string{
				p.Image.Label(),
				fmt.Sprintf("%.0f x %.0f", p.Image.Width, p.Image.Height),
				p.Placeholder.Name,
				fmt.Sprintf("%.0f x %.0f", p.Placeholder.Width, p.Placeholder.Height),
				fmt.Sprintf("%.3f", p.Score),
			}

			if i%2 == 0 {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}

			for j, cell := range rowData {
				pdf.SetXY(xPos, y)
				pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
				xPos += colWidths[j]
			}
			y += 6
		}
		y += 8
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Settings", "", 0, "L", false, 0, "")
	y += 9

	s := layout.Settings
	settingsItems := []struct {
		label string
		value string
	}{
		{"Max aspect difference", fmt.Sprintf("%.2f", s.MaxAspectDiff)},
		{"Size ratio", fmt.Sprintf("%.1f - %.1f", s.MinSizeRatio, s.MaxSizeRatio)},
		{"Padding / gap", fmt.Sprintf("%.0f / %.0f px", s.Padding, s.Gap)},
		{"Scale mode", string(s.ScaleMode)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by framefill", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// NewLayout bundles a report with its frame geometry.
func NewLayout(title string, frame model.Rect, report model.PlacementReport, settings model.Settings) Layout {
	return Layout{
		Title:    title,
		Width:    frame.Width,
		Height:   frame.Height,
		Report:   report,
		Settings: settings,
	}
}
