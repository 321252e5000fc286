package engine

import (
	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/model"
)

// ApplyToSelection fills every selected node that accepts an image with
// content, cropping to fill. Returns how many nodes took the image.
func ApplyToSelection(host Host, selection []model.NodeID, content model.ContentHandle) (int, error) {
	if len(selection) == 0 {
		return 0, ffErrors.New(ffErrors.ErrCodeNoSelection, "select at least one node")
	}
	applied := 0
	for _, id := range selection {
		if err := host.SetImageFill(id, content, model.ScaleFill); err == nil {
			applied++
		}
	}
	if applied == 0 {
		return 0, ffErrors.New(ffErrors.ErrCodeFillRejected, "none of the %d selected nodes can take an image", len(selection))
	}
	return applied, nil
}

// ClampSize scales w, h down so that neither side exceeds maxSize, keeping
// the aspect ratio. Sizes already within bounds are returned unchanged.
func ClampSize(w, h, maxSize float64) (float64, float64) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	ratio := w / h
	if w > h {
		return maxSize, maxSize / ratio
	}
	return maxSize * ratio, maxSize
}

// DropAtCenter creates a rectangle holding the image, centred on viewport
// and clamped to maxSize, under parent (empty for the top level).
func DropAtCenter(host Host, parent model.NodeID, viewport model.Rect, img model.ImageItem, maxSize float64) (model.NodeID, error) {
	if !img.Valid() {
		return "", ffErrors.New(ffErrors.ErrCodeInvalidInput, "image %s has non-positive size", img.Label())
	}
	w, h := ClampSize(img.Width, img.Height, maxSize)
	cx := viewport.X + viewport.Width/2
	cy := viewport.Y + viewport.Height/2

	id, err := host.CreateRectangle(parent, model.NewRect(cx-w/2, cy-h/2, w, h), "Image "+img.Label())
	if err != nil {
		return "", err
	}
	if err := host.SetImageFill(id, img.Content, model.ScaleFill); err != nil {
		return "", err
	}
	return id, nil
}
