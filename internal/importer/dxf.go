package importer

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/framefill/internal/document"
	"github.com/piwi3910/framefill/internal/model"
)

// DocumentResult holds a wireframe document built from a drawing.
type DocumentResult struct {
	Document *document.Document
	Root     model.NodeID
	Errors   []string
	Warnings []string
}

// point is a 2D drawing coordinate (y up).
type point struct {
	X, Y float64
}

// segment is a line between two points, used for chaining disconnected
// LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// shape is one closed outline reduced to its bounding box.
type shape struct {
	layer  string
	bounds model.Rect // Drawing coordinates, y up
}

// ImportDXF builds a host document from a wireframe drawing. Every closed
// shape (LWPOLYLINE, CIRCLE, or chain of connected LINEs) becomes a
// rectangle node named after its layer, inside one root frame that spans
// all shapes.
func ImportDXF(path string) DocumentResult {
	result := DocumentResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []shape
	var segments []segment
	skipped := 0

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pts := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = point{X: v[0], Y: v[1]}
			}
			shapes = append(shapes, shape{layer: layerName(e), bounds: boundsOf(pts)})

		case *entity.Circle:
			r := e.Radius
			shapes = append(shapes, shape{
				layer:  layerName(e),
				bounds: model.NewRect(e.Center[0]-r, e.Center[1]-r, 2*r, 2*r),
			})

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	for _, outline := range chainSegments(segments, 0.01) {
		shapes = append(shapes, shape{bounds: boundsOf(outline)})
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, root, warnings, err := buildDocument(name, shapes)
	result.Warnings = append(result.Warnings, warnings...)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Document = doc
	result.Root = root
	return result
}

// layerName returns the entity's layer, or "" for the default layer.
func layerName(e entity.Entity) string {
	l := e.Layer()
	if l == nil {
		return ""
	}
	if name := l.Name(); name != "0" {
		return name
	}
	return ""
}

// buildDocument lays shapes out under one root frame. A shape that spans the
// whole drawing is taken as the frame outline rather than a child.
func buildDocument(name string, shapes []shape) (*document.Document, model.NodeID, []string, error) {
	var warnings []string
	rects := make([]model.Rect, len(shapes))
	for i, s := range shapes {
		rects[i] = s.bounds
	}
	box := model.BoundingBox(rects)

	if name == "" {
		name = "Imported"
	}
	doc := document.New()
	root, err := doc.AddNode("", document.Node{
		Name:   name,
		Kind:   document.KindFrame,
		Width:  box.Width,
		Height: box.Height,
	})
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to create root frame: %w", err)
	}

	// Canvas order: top to bottom, then left to right
	sort.SliceStable(shapes, func(i, j int) bool {
		ti, tj := shapes[i].bounds.Bottom(), shapes[j].bounds.Bottom()
		if ti != tj {
			return ti > tj
		}
		return shapes[i].bounds.X < shapes[j].bounds.X
	})

	count := 0
	for _, s := range shapes {
		b := s.bounds
		if b.Width < 0.01 || b.Height < 0.01 {
			warnings = append(warnings, fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", b.Width, b.Height))
			continue
		}
		if sameRect(b, box, 0.01) {
			continue
		}
		count++
		nodeName := s.layer
		if nodeName == "" {
			nodeName = fmt.Sprintf("Shape %d", count)
		}
		_, err := doc.AddNode(root, document.Node{
			Name:                nodeName,
			Kind:                document.KindRectangle,
			X:                   b.X - box.X,
			Y:                   box.Bottom() - b.Bottom(),
			Width:               b.Width,
			Height:              b.Height,
			SupportsContentFill: true,
		})
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to add shape %d: %w", count, err)
		}
	}

	doc.Select([]model.NodeID{root})
	doc.SetViewport(model.NewRect(0, 0, box.Width, box.Height))
	return doc, root, warnings, nil
}

func sameRect(a, b model.Rect, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Width-b.Width) <= tolerance &&
		math.Abs(a.Height-b.Height) <= tolerance
}

// boundsOf returns the bounding box of a point list.
func boundsOf(pts []point) model.Rect {
	if len(pts) == 0 {
		return model.Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return model.NewRect(minX, minY, maxX-minX, maxY-minY)
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
// Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	// Largest first for consistent ordering
	sort.Slice(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []point) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}
