package model

import (
	"math"

	"github.com/google/uuid"
)

// NodeID is an opaque handle to a node owned by the host document.
// It is only ever resolved through the host at read or write time.
type NodeID string

// ContentHandle is an opaque reference to already fetched and decoded image
// bytes. Nothing in this module inspects what it points at.
type ContentHandle string

// ScaleMode controls how image content is scaled inside its node.
type ScaleMode string

const (
	ScaleFit  ScaleMode = "FIT"  // Whole image visible, letterboxed if needed
	ScaleFill ScaleMode = "FILL" // Node fully covered, image cropped if needed
)

// Rect is an axis-aligned rectangle. Used both for node bounds and for the
// occupied areas the packer avoids.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns width times height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Aspect returns width divided by height, or 0 for a zero-height rect.
func (r Rect) Aspect() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// Overlaps reports whether the interiors of r and o intersect.
// Rectangles that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Translate shifts the rect by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Union returns the smallest rect covering both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.Right(), o.Right())
	maxY := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// BoundingBox returns the union of all rects, or a zero Rect for none.
func BoundingBox(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	box := rects[0]
	for _, r := range rects[1:] {
		box = box.Union(r)
	}
	return box
}

// ImageItem is one fetched image ready for placement. Only Content, Width and
// Height matter to the engine; the rest is record metadata carried through
// for reporting.
type ImageItem struct {
	ID      string        `json:"id"`
	Source  string        `json:"src"`
	Alt     string        `json:"alt"`
	Service string        `json:"service,omitempty"`
	Content ContentHandle `json:"content"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
}

func NewImageItem(src string, w, h float64) ImageItem {
	return ImageItem{
		ID:      uuid.New().String()[:8],
		Source:  src,
		Content: ContentHandle(src),
		Width:   w,
		Height:  h,
	}
}

// Aspect returns width divided by height.
func (i ImageItem) Aspect() float64 {
	if i.Height == 0 {
		return 0
	}
	return i.Width / i.Height
}

// Area returns width times height.
func (i ImageItem) Area() float64 { return i.Width * i.Height }

// Valid reports whether both dimensions are positive.
func (i ImageItem) Valid() bool { return i.Width > 0 && i.Height > 0 }

// Label returns a short human-readable name for the image.
func (i ImageItem) Label() string {
	switch {
	case i.Alt != "":
		return i.Alt
	case i.ID != "":
		return i.ID
	default:
		return i.Source
	}
}

// Placeholder is an existing node judged suitable to receive an image.
// Coordinates are relative to the container that was scanned.
type Placeholder struct {
	Node   NodeID  `json:"node"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the placeholder rectangle.
func (p Placeholder) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Aspect returns width divided by height.
func (p Placeholder) Aspect() float64 { return p.Bounds().Aspect() }

// Area returns width times height.
func (p Placeholder) Area() float64 { return p.Width * p.Height }

// MatchedPair is an image assigned to a placeholder with its match score.
type MatchedPair struct {
	Image       ImageItem   `json:"image"`
	Placeholder Placeholder `json:"placeholder"`
	Score       float64     `json:"score"`
}

// PackedPlacement is the grid position chosen for an image that had no
// placeholder. ImageIndex points back into the slice that was packed.
type PackedPlacement struct {
	ImageIndex int       `json:"image_index"`
	Image      ImageItem `json:"image"`
	Bounds     Rect      `json:"bounds"`
}

// ContentWrite replaces the content of an existing node.
type ContentWrite struct {
	Node    NodeID        `json:"node"`
	Content ContentHandle `json:"content"`
}

// NodeSpec describes a rectangle node to be created inside the container.
type NodeSpec struct {
	Name    string        `json:"name"`
	Bounds  Rect          `json:"bounds"`
	Content ContentHandle `json:"content"`
}

// PlacementResult is the full write plan for one placement operation.
type PlacementResult struct {
	Writes  []ContentWrite `json:"writes"`
	Creates []NodeSpec     `json:"creates"`
}

// PlacementReport describes what one placement operation decided and did.
type PlacementReport struct {
	Container    NodeID            `json:"container"`
	Placeholders []Placeholder     `json:"placeholders"`
	Pairs        []MatchedPair     `json:"pairs"`
	Unmatched    []ImageItem       `json:"unmatched"`
	Packed       []PackedPlacement `json:"packed"`
	Updated      []NodeID          `json:"updated"`
	Created      []NodeID          `json:"created"`
	Dropped      int               `json:"dropped"`
	Fallback     bool              `json:"fallback"` // No destinations found, whole container was grid packed
}

// Affected returns updated nodes followed by created nodes.
func (r PlacementReport) Affected() []NodeID {
	out := make([]NodeID, 0, len(r.Updated)+len(r.Created))
	out = append(out, r.Updated...)
	return append(out, r.Created...)
}

// Placed returns how many images ended up in the document.
func (r PlacementReport) Placed() int {
	return len(r.Updated) + len(r.Created)
}

// MatchRate returns the share of images that found a placeholder, in percent.
func (r PlacementReport) MatchRate() float64 {
	total := len(r.Pairs) + len(r.Unmatched)
	if total == 0 {
		return 0
	}
	return float64(len(r.Pairs)) / float64(total) * 100.0
}
