// Package document models the host design document that images are placed
// into. Nodes are stored by opaque ID and every cross-reference (parent,
// children, selection) is an ID, so callers never hold on to host state.
package document

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/piwi3910/framefill/internal/model"
)

// Kind is the structural type of a node.
type Kind int

const (
	KindOther     Kind = iota // Text, vectors, groups and anything else
	KindRectangle             // Plain shape with a fill
	KindFrame                 // Container with its own geometry
	KindComponent             // Reusable master
	KindInstance              // Placed copy of a component
)

var kindNames = map[Kind]string{
	KindOther:     "other",
	KindRectangle: "rectangle",
	KindFrame:     "frame",
	KindComponent: "component",
	KindInstance:  "instance",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// ParseKind converts a kind name to a Kind. Unknown names map to KindOther.
func ParseKind(s string) Kind {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == normalized {
			return k
		}
	}
	return KindOther
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// IsSlot reports whether nodes of this kind can act as image placeholders.
func (k Kind) IsSlot() bool {
	switch k {
	case KindRectangle, KindFrame, KindComponent, KindInstance:
		return true
	default:
		return false
	}
}

// IsContainer reports whether nodes of this kind can hold children.
func (k Kind) IsContainer() bool {
	switch k {
	case KindFrame, KindComponent, KindInstance:
		return true
	default:
		return false
	}
}

// FillState describes what currently paints a node.
type FillState int

const (
	FillNone  FillState = iota
	FillSolid           // Colour or gradient
	FillImage           // Image content
	FillMixed           // Indeterminate, e.g. a multi-selection of differing fills
)

var fillNames = map[FillState]string{
	FillNone:  "none",
	FillSolid: "solid",
	FillImage: "image",
	FillMixed: "mixed",
}

func (f FillState) String() string {
	if name, ok := fillNames[f]; ok {
		return name
	}
	return "none"
}

func (f FillState) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FillState) UnmarshalText(b []byte) error {
	normalized := strings.ToLower(strings.TrimSpace(string(b)))
	for state, name := range fillNames {
		if name == normalized {
			*f = state
			return nil
		}
	}
	return fmt.Errorf("unknown fill state %q", string(b))
}

// Fill is the paint applied to a node.
type Fill struct {
	State     FillState           `json:"state"`
	Content   model.ContentHandle `json:"content,omitempty"`
	ScaleMode model.ScaleMode     `json:"scale_mode,omitempty"`
}

// Node is one element of the document tree. X and Y are relative to the parent.
type Node struct {
	ID                  model.NodeID   `json:"id"`
	Name                string         `json:"name"`
	Kind                Kind           `json:"kind"`
	X                   float64        `json:"x"`
	Y                   float64        `json:"y"`
	Width               float64        `json:"width"`
	Height              float64        `json:"height"`
	SupportsContentFill bool           `json:"supports_fill"`
	Fill                Fill           `json:"fill"`
	Children            []model.NodeID `json:"children,omitempty"`
	Parent              model.NodeID   `json:"-"`
}

// Bounds returns the node rectangle in parent coordinates.
func (n Node) Bounds() model.Rect {
	return model.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// HasImage reports whether the node already carries image content.
func (n Node) HasImage() bool {
	return n.Fill.State == FillImage
}

// NewNodeID returns a fresh node identifier.
func NewNodeID() model.NodeID {
	return model.NodeID(uuid.New().String()[:8])
}
