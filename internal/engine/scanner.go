package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/piwi3910/framefill/internal/document"
	"github.com/piwi3910/framefill/internal/model"
)

// NodeSource resolves nodes for read-only traversal.
type NodeSource interface {
	Node(id model.NodeID) (document.Node, bool)
}

// Scan walks every descendant of container depth-first and returns the nodes
// that can receive an image, in reading order. A node qualifies when it is a
// slot kind with an image-fill capability, both sides exceed
// MinPlaceholderSize, and either its name contains a keyword or it already
// shows an image. Coordinates in the result are relative to container.
func Scan(src NodeSource, container model.NodeID, s model.Settings) []model.Placeholder {
	root, ok := src.Node(container)
	if !ok {
		return nil
	}

	keywords := lowerKeywords(s.Keywords)
	var found []model.Placeholder

	var visit func(parent document.Node, offX, offY float64)
	visit = func(parent document.Node, offX, offY float64) {
		for _, id := range parent.Children {
			child, ok := src.Node(id)
			if !ok {
				continue
			}
			x := offX + child.X
			y := offY + child.Y
			if isPlaceholder(child, keywords, s.MinPlaceholderSize) {
				found = append(found, model.Placeholder{
					Node:   child.ID,
					Name:   child.Name,
					X:      x,
					Y:      y,
					Width:  child.Width,
					Height: child.Height,
				})
			}
			visit(child, x, y)
		}
	}
	visit(root, 0, 0)

	sortReadingOrder(found, s.RowTolerance)
	return found
}

// CountImageNodes returns how many descendants of container already carry
// image content, regardless of size or kind.
func CountImageNodes(src NodeSource, container model.NodeID) int {
	root, ok := src.Node(container)
	if !ok {
		return 0
	}
	count := 0
	var visit func(n document.Node)
	visit = func(n document.Node) {
		for _, id := range n.Children {
			child, ok := src.Node(id)
			if !ok {
				continue
			}
			if child.HasImage() {
				count++
			}
			visit(child)
		}
	}
	visit(root)
	return count
}

// isPlaceholder applies the candidate and naming rules to a single node.
func isPlaceholder(n document.Node, keywords []string, minSize float64) bool {
	if !n.Kind.IsSlot() || !n.SupportsContentFill {
		return false
	}
	if n.Width <= minSize || n.Height <= minSize {
		return false
	}
	return n.HasImage() || nameMatches(n.Name, keywords)
}

func nameMatches(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func lowerKeywords(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = strings.ToLower(k)
	}
	return out
}

// sortReadingOrder orders top-to-bottom, then left-to-right within rows whose
// y differs by less than tolerance. Stable, so equal slots keep tree order.
func sortReadingOrder(ph []model.Placeholder, tolerance float64) {
	sort.SliceStable(ph, func(i, j int) bool {
		if math.Abs(ph[i].Y-ph[j].Y) < tolerance {
			return ph[i].X < ph[j].X
		}
		return ph[i].Y < ph[j].Y
	})
}
