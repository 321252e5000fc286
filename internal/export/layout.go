// Package export writes placement results to PDF reports, QR-coded
// placement labels, Excel sheets and DXF drawings.
package export

import (
	"github.com/piwi3910/framefill/internal/model"
)

// Entry kinds.
const (
	KindMatched = "matched"
	KindPacked  = "packed"
)

// Layout is one placement report together with the frame it ran in.
type Layout struct {
	Title    string
	Width    float64
	Height   float64
	Report   model.PlacementReport
	Settings model.Settings
}

// Entry is one image destination in a layout, in frame coordinates.
type Entry struct {
	Kind        string
	Image       model.ImageItem
	Node        model.NodeID // Empty for packed images not yet created
	Placeholder string
	Bounds      model.Rect
	Score       float64
}

// Entries lists matched placements followed by packed ones. Created node IDs
// are attached to packed entries only when every creation succeeded, since
// otherwise the positions no longer line up.
func (l Layout) Entries() []Entry {
	r := l.Report
	entries := make([]Entry, 0, len(r.Pairs)+len(r.Packed))
	for _, p := range r.Pairs {
		entries = append(entries, Entry{
			Kind:        KindMatched,
			Image:       p.Image,
			Node:        p.Placeholder.Node,
			Placeholder: p.Placeholder.Name,
			Bounds:      p.Placeholder.Bounds(),
			Score:       p.Score,
		})
	}
	aligned := len(r.Created) == len(r.Packed)
	for i, p := range r.Packed {
		e := Entry{Kind: KindPacked, Image: p.Image, Bounds: p.Bounds}
		if aligned {
			e.Node = r.Created[i]
		}
		entries = append(entries, e)
	}
	return entries
}

// freePlaceholders returns the placeholders no image was matched to.
func (l Layout) freePlaceholders() []model.Placeholder {
	used := make(map[model.NodeID]bool, len(l.Report.Pairs))
	for _, p := range l.Report.Pairs {
		used[p.Placeholder.Node] = true
	}
	var free []model.Placeholder
	for _, ph := range l.Report.Placeholders {
		if !used[ph.Node] {
			free = append(free, ph)
		}
	}
	return free
}
