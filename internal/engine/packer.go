package engine

import (
	"math"

	"github.com/piwi3910/framefill/internal/model"
)

// grid holds the cell layout computed for one packing call.
type grid struct {
	columns    int
	rows       int
	cellWidth  float64
	cellHeight float64
}

// newGrid sizes a grid so that average-sized images fill the available width.
func newGrid(images []model.ImageItem, availW, availH, gap float64) grid {
	var sumW float64
	for _, img := range images {
		sumW += img.Width
	}
	n := float64(len(images))
	avgW := sumW / n

	columns := int(math.Floor((availW + gap) / (avgW + gap)))
	if columns < 1 {
		columns = 1
	}
	rows := int(math.Ceil(n / float64(columns)))

	return grid{
		columns:    columns,
		rows:       rows,
		cellWidth:  (availW - gap*float64(columns-1)) / float64(columns),
		cellHeight: (availH - gap*float64(rows-1)) / float64(rows),
	}
}

// Pack lays images out on a grid inside a container of the given size and
// returns one rectangle per image, in input order, in container coordinates.
//
// Each image is scaled to its cell with the aspect ratio kept and centred in
// it. A rectangle that overlaps an occupied area, or an image packed earlier
// in the same call, is shifted once: right by its width plus the gap, or to
// the start of the next row when that would cross the right padding. The
// shifted position is not re-tested, so dense inputs can still overlap.
// The occupied slice is never modified.
func Pack(images []model.ImageItem, width, height float64, occupied []model.Rect, s model.Settings) []model.PackedPlacement {
	if len(images) == 0 {
		return nil
	}

	availW := math.Max(width-2*s.Padding, 1)
	availH := math.Max(height-2*s.Padding, 1)
	g := newGrid(images, availW, availH, s.Gap)

	taken := make([]model.Rect, len(occupied), len(occupied)+len(images))
	copy(taken, occupied)

	placements := make([]model.PackedPlacement, 0, len(images))
	for i, img := range images {
		row := i / g.columns
		col := i % g.columns

		w, h := fitToCell(img, g.cellWidth, g.cellHeight)
		cellX := s.Padding + float64(col)*(g.cellWidth+s.Gap)
		cellY := s.Padding + float64(row)*(g.cellHeight+s.Gap)
		candidate := model.Rect{
			X:      cellX + (g.cellWidth-w)/2,
			Y:      cellY + (g.cellHeight-h)/2,
			Width:  w,
			Height: h,
		}

		candidate = avoidCollision(candidate, taken, width, s)
		taken = append(taken, candidate)
		placements = append(placements, model.PackedPlacement{
			ImageIndex: i,
			Image:      img,
			Bounds:     candidate,
		})
	}
	return placements
}

// fitToCell scales an image to the cell width, falling back to the cell
// height when that is the tighter constraint.
func fitToCell(img model.ImageItem, cellW, cellH float64) (float64, float64) {
	aspect := img.Aspect()
	if aspect <= 0 || math.IsInf(aspect, 0) || math.IsNaN(aspect) {
		aspect = 1
	}
	w := cellW
	h := w / aspect
	if h > cellH {
		h = cellH
		w = h * aspect
	}
	return w, h
}

// avoidCollision applies the single shift-and-wrap step for the first
// occupied area that r overlaps.
func avoidCollision(r model.Rect, taken []model.Rect, containerWidth float64, s model.Settings) model.Rect {
	for _, o := range taken {
		if !r.Overlaps(o) {
			continue
		}
		r.X += r.Width + s.Gap
		if r.Right() > containerWidth-s.Padding {
			r.X = s.Padding
			r.Y += r.Height + s.Gap
		}
		break
	}
	return r
}
