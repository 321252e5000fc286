package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/framefill/internal/model"
)

// DXF layer names.
const (
	LayerFrame        = "FRAME"
	LayerPlaceholders = "PLACEHOLDERS"
	LayerMatched      = "MATCHED"
	LayerPacked       = "PACKED"
)

// ExportDXF writes the layout as a wireframe drawing with one layer per
// destination kind. Canvas y-down coordinates are flipped to DXF y-up.
func ExportDXF(path string, layout Layout) error {
	if layout.Width <= 0 || layout.Height <= 0 {
		return fmt.Errorf("frame %q has no size", layout.Title)
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerFrame, color.White},
		{LayerPlaceholders, color.Cyan},
		{LayerMatched, color.Green},
		{LayerPacked, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	if err := drawRects(d, LayerFrame, layout.Height, model.NewRect(0, 0, layout.Width, layout.Height)); err != nil {
		return err
	}

	var free []model.Rect
	for _, ph := range layout.freePlaceholders() {
		free = append(free, ph.Bounds())
	}
	if err := drawRects(d, LayerPlaceholders, layout.Height, free...); err != nil {
		return err
	}

	var matched, packed []model.Rect
	for _, e := range layout.Entries() {
		if e.Kind == KindMatched {
			matched = append(matched, e.Bounds)
		} else {
			packed = append(packed, e.Bounds)
		}
	}
	if err := drawRects(d, LayerMatched, layout.Height, matched...); err != nil {
		return err
	}
	if err := drawRects(d, LayerPacked, layout.Height, packed...); err != nil {
		return err
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRects outlines each rect with four lines on layer.
func drawRects(d *drawing.Drawing, layer string, frameHeight float64, rects ...model.Rect) error {
	if len(rects) == 0 {
		return nil
	}
	if err := d.ChangeLayer(layer); err != nil {
		return fmt.Errorf("failed to select layer %s: %w", layer, err)
	}
	for _, r := range rects {
		x0, x1 := r.X, r.Right()
		y0, y1 := frameHeight-r.Bottom(), frameHeight-r.Y
		corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
		for i := range corners {
			a, b := corners[i], corners[(i+1)%len(corners)]
			if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
				return fmt.Errorf("failed to draw on layer %s: %w", layer, err)
			}
		}
	}
	return nil
}
