package engine

import (
	"github.com/piwi3910/framefill/internal/model"
)

// Host is the write boundary into the host document. Every node reference is
// resolved again at write time, so a node deleted since the scan simply fails.
type Host interface {
	NodeSource
	SetImageFill(id model.NodeID, content model.ContentHandle, mode model.ScaleMode) error
	CreateRectangle(parent model.NodeID, bounds model.Rect, name string) (model.NodeID, error)
}

// NodeRemover is implemented by hosts that can delete a node. Apply uses it
// to take back a rectangle it created when the fill for it is refused.
type NodeRemover interface {
	RemoveNode(id model.NodeID) error
}

// Failure records a write the host refused.
type Failure struct {
	Node model.NodeID // Empty when node creation itself failed
	Name string
	Err  error
}

// Outcome is what Apply did to the document.
type Outcome struct {
	Updated  []model.NodeID
	Created  []model.NodeID
	Failures []Failure
}

// Plan turns matched pairs and packed placements into a write plan.
func Plan(pairs []model.MatchedPair, packed []model.PackedPlacement) model.PlacementResult {
	var plan model.PlacementResult
	for _, p := range pairs {
		plan.Writes = append(plan.Writes, model.ContentWrite{
			Node:    p.Placeholder.Node,
			Content: p.Image.Content,
		})
	}
	for _, p := range packed {
		plan.Creates = append(plan.Creates, model.NodeSpec{
			Name:    "Image " + p.Image.Label(),
			Bounds:  p.Bounds,
			Content: p.Image.Content,
		})
	}
	return plan
}

// Apply commits a write plan inside container. Writes into existing nodes
// come first, then new rectangles are created and filled. A refused write is
// recorded as a failure and processing continues; nothing is retried.
// When the fill of a new rectangle is refused the rectangle is removed again
// if host is a NodeRemover; otherwise it stays behind empty and its ID is
// reported in the failure.
func Apply(host Host, container model.NodeID, plan model.PlacementResult, mode model.ScaleMode) Outcome {
	var out Outcome

	for _, w := range plan.Writes {
		if err := host.SetImageFill(w.Node, w.Content, mode); err != nil {
			out.Failures = append(out.Failures, Failure{Node: w.Node, Err: err})
			continue
		}
		out.Updated = append(out.Updated, w.Node)
	}

	for _, c := range plan.Creates {
		id, err := host.CreateRectangle(container, c.Bounds, c.Name)
		if err != nil {
			out.Failures = append(out.Failures, Failure{Name: c.Name, Err: err})
			continue
		}
		if err := host.SetImageFill(id, c.Content, mode); err != nil {
			f := Failure{Node: id, Name: c.Name, Err: err}
			if r, ok := host.(NodeRemover); ok && r.RemoveNode(id) == nil {
				f.Node = ""
			}
			out.Failures = append(out.Failures, f)
			continue
		}
		out.Created = append(out.Created, id)
	}

	return out
}
