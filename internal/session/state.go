// Package session holds the interactive state around placement: which
// library images are selected, the size filter, a pending drag, and the
// document undo history. State transitions are pure and return a new value.
package session

import (
	"sort"

	"github.com/piwi3910/framefill/internal/model"
)

// DragPayload is an image picked up for dropping onto the canvas.
type DragPayload struct {
	Image model.ImageItem
}

// State is the session state. The zero value is not ready for use; call
// NewState.
type State struct {
	Selected    []int           // Library indices in the order they were picked
	SizeFilter  map[string]bool // Size keys, or AllSizes alone
	PendingDrag *DragPayload
}

// NewState returns a state with nothing selected and the size filter off.
func NewState() State {
	return State{SizeFilter: map[string]bool{model.AllSizes: true}}
}

// clone copies the state so transitions never alias the receiver.
func (s State) clone() State {
	out := State{
		Selected:    append([]int(nil), s.Selected...),
		SizeFilter:  make(map[string]bool, len(s.SizeFilter)),
		PendingDrag: s.PendingDrag,
	}
	for k, v := range s.SizeFilter {
		out.SizeFilter[k] = v
	}
	return out
}

// IsSelected reports whether library index i is selected.
func (s State) IsSelected(i int) bool {
	for _, idx := range s.Selected {
		if idx == i {
			return true
		}
	}
	return false
}

// ToggleImage selects library index i, or deselects it if already selected.
func (s State) ToggleImage(i int) State {
	out := s.clone()
	for pos, idx := range out.Selected {
		if idx == i {
			out.Selected = append(out.Selected[:pos], out.Selected[pos+1:]...)
			return out
		}
	}
	out.Selected = append(out.Selected, i)
	return out
}

// ClearSelection deselects every image.
func (s State) ClearSelection() State {
	out := s.clone()
	out.Selected = nil
	return out
}

// Primary returns the first image picked, used by single-image operations.
func (s State) Primary() (int, bool) {
	if len(s.Selected) == 0 {
		return 0, false
	}
	return s.Selected[0], true
}

// SelectedImages resolves the selection against lib, in pick order.
// Indices no longer in the library are skipped.
func (s State) SelectedImages(lib model.Library) []model.ImageItem {
	var out []model.ImageItem
	for _, i := range s.Selected {
		if i >= 0 && i < len(lib.Images) {
			out = append(out, lib.Images[i])
		}
	}
	return out
}

// ToggleSize updates the size filter. AllSizes is exclusive: choosing it
// clears every individual size, and it cannot be switched off directly.
// Picking an individual size switches AllSizes off; removing the last one
// switches it back on.
func (s State) ToggleSize(key string) State {
	out := s.clone()
	if key == model.AllSizes {
		out.SizeFilter = map[string]bool{model.AllSizes: true}
		return out
	}

	if out.SizeFilter[key] {
		delete(out.SizeFilter, key)
	} else {
		out.SizeFilter[key] = true
		delete(out.SizeFilter, model.AllSizes)
	}

	if len(out.SizeFilter) == 0 {
		out.SizeFilter[model.AllSizes] = true
	}
	return out
}

// ActiveSizes returns the selected size keys in sorted order.
func (s State) ActiveSizes() []string {
	keys := make([]string, 0, len(s.SizeFilter))
	for k := range s.SizeFilter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Visible returns the library images that pass the size filter.
func (s State) Visible(lib model.Library) []model.ImageItem {
	return lib.FilterBySizes(s.SizeFilter)
}

// BeginDrag records img as the pending drag, replacing any earlier one.
func (s State) BeginDrag(img model.ImageItem) State {
	out := s.clone()
	out.PendingDrag = &DragPayload{Image: img}
	return out
}

// Drop consumes the pending drag. It returns false when nothing was being
// dragged; a drag is delivered at most once.
func (s State) Drop() (State, DragPayload, bool) {
	if s.PendingDrag == nil {
		return s, DragPayload{}, false
	}
	out := s.clone()
	payload := *out.PendingDrag
	out.PendingDrag = nil
	return out, payload, true
}
