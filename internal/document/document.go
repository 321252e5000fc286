package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/model"
)

// Document is the host-owned node graph plus the selection and viewport
// that placement feedback updates.
type Document struct {
	nodes     map[model.NodeID]*Node
	order     []model.NodeID // insertion order, keeps snapshots stable
	roots     []model.NodeID
	selection []model.NodeID
	viewport  model.Rect
}

// New returns an empty document.
func New() *Document {
	return &Document{nodes: make(map[model.NodeID]*Node)}
}

// Len returns the number of nodes.
func (d *Document) Len() int { return len(d.nodes) }

// Node returns a copy of the node with the given ID.
func (d *Document) Node(id model.NodeID) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	cp := *n
	cp.Children = append([]model.NodeID(nil), n.Children...)
	return cp, true
}

// Roots returns the top-level node IDs.
func (d *Document) Roots() []model.NodeID {
	return append([]model.NodeID(nil), d.roots...)
}

// AddNode inserts n under parent, or at the top level when parent is empty.
// An empty n.ID gets a generated one. Returns the ID used.
func (d *Document) AddNode(parent model.NodeID, n Node) (model.NodeID, error) {
	if n.ID == "" {
		n.ID = NewNodeID()
	}
	if _, exists := d.nodes[n.ID]; exists {
		return "", ffErrors.New(ffErrors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
	}
	if parent != "" {
		p, ok := d.nodes[parent]
		if !ok {
			return "", ffErrors.New(ffErrors.ErrCodeNotFound, "parent node %q not found", parent)
		}
		if !p.Kind.IsContainer() {
			return "", ffErrors.New(ffErrors.ErrCodeInvalidContainer, "node %q (%s) cannot hold children", parent, p.Kind)
		}
		p.Children = append(p.Children, n.ID)
	} else {
		d.roots = append(d.roots, n.ID)
	}
	n.Parent = parent
	n.Children = nil
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return n.ID, nil
}

// AbsoluteBounds returns the node rectangle in canvas coordinates.
func (d *Document) AbsoluteBounds(id model.NodeID) (model.Rect, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return model.Rect{}, false
	}
	r := n.Bounds()
	for p := n.Parent; p != ""; {
		pn, ok := d.nodes[p]
		if !ok {
			break
		}
		r = r.Translate(pn.X, pn.Y)
		p = pn.Parent
	}
	return r, true
}

// SetImageFill replaces the node's paint with image content. It fails when
// the node is gone, cannot take an image fill, or its fill is mixed.
func (d *Document) SetImageFill(id model.NodeID, content model.ContentHandle, mode model.ScaleMode) error {
	n, ok := d.nodes[id]
	if !ok {
		return ffErrors.New(ffErrors.ErrCodeNotFound, "node %q not found", id)
	}
	if !n.SupportsContentFill {
		return ffErrors.New(ffErrors.ErrCodeFillRejected, "node %q does not support image fills", id)
	}
	if n.Fill.State == FillMixed {
		return ffErrors.New(ffErrors.ErrCodeFillRejected, "node %q has mixed fills", id)
	}
	n.Fill = Fill{State: FillImage, Content: content, ScaleMode: mode}
	return nil
}

// CreateRectangle adds an empty rectangle node under parent.
func (d *Document) CreateRectangle(parent model.NodeID, bounds model.Rect, name string) (model.NodeID, error) {
	return d.AddNode(parent, Node{
		Name:                name,
		Kind:                KindRectangle,
		X:                   bounds.X,
		Y:                   bounds.Y,
		Width:               bounds.Width,
		Height:              bounds.Height,
		SupportsContentFill: true,
	})
}

// RemoveNode deletes the node and its descendants, detaching it from its
// parent and dropping it from the selection.
func (d *Document) RemoveNode(id model.NodeID) error {
	n, ok := d.nodes[id]
	if !ok {
		return ffErrors.New(ffErrors.ErrCodeNotFound, "node %q not found", id)
	}
	if p, ok := d.nodes[n.Parent]; ok {
		p.Children = without(p.Children, map[model.NodeID]bool{id: true})
	} else {
		d.roots = without(d.roots, map[model.NodeID]bool{id: true})
	}

	gone := make(map[model.NodeID]bool)
	stack := []model.NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		gone[cur] = true
		if cn, ok := d.nodes[cur]; ok {
			stack = append(stack, cn.Children...)
		}
		delete(d.nodes, cur)
	}
	d.order = without(d.order, gone)
	d.selection = without(d.selection, gone)
	return nil
}

func without(ids []model.NodeID, drop map[model.NodeID]bool) []model.NodeID {
	kept := ids[:0]
	for _, id := range ids {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

// Selection returns the selected node IDs.
func (d *Document) Selection() []model.NodeID {
	return append([]model.NodeID(nil), d.selection...)
}

// Select replaces the selection. Unknown IDs are ignored.
func (d *Document) Select(ids []model.NodeID) {
	d.selection = d.selection[:0]
	for _, id := range ids {
		if _, ok := d.nodes[id]; ok {
			d.selection = append(d.selection, id)
		}
	}
}

// Viewport returns the visible canvas region.
func (d *Document) Viewport() model.Rect { return d.viewport }

// SetViewport sets the visible canvas region.
func (d *Document) SetViewport(r model.Rect) { d.viewport = r }

// ScrollAndZoomIntoView fits the viewport to the union of the given nodes.
// Returns false and leaves the viewport alone when none of them exist.
func (d *Document) ScrollAndZoomIntoView(ids []model.NodeID) bool {
	var rects []model.Rect
	for _, id := range ids {
		if r, ok := d.AbsoluteBounds(id); ok {
			rects = append(rects, r)
		}
	}
	if len(rects) == 0 {
		return false
	}
	d.viewport = model.BoundingBox(rects)
	return true
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	cp := &Document{
		nodes:     make(map[model.NodeID]*Node, len(d.nodes)),
		order:     append([]model.NodeID(nil), d.order...),
		roots:     append([]model.NodeID(nil), d.roots...),
		selection: append([]model.NodeID(nil), d.selection...),
		viewport:  d.viewport,
	}
	for id, n := range d.nodes {
		nc := *n
		nc.Children = append([]model.NodeID(nil), n.Children...)
		cp.nodes[id] = &nc
	}
	return cp
}

// snapshot is the on-disk shape of a document.
type snapshot struct {
	Nodes     []Node         `json:"nodes"`
	Roots     []model.NodeID `json:"roots"`
	Selection []model.NodeID `json:"selection"`
	Viewport  model.Rect     `json:"viewport"`
}

// MarshalJSON writes nodes in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	s := snapshot{
		Nodes:     make([]Node, 0, len(d.order)),
		Roots:     d.Roots(),
		Selection: d.Selection(),
		Viewport:  d.viewport,
	}
	if s.Roots == nil {
		s.Roots = []model.NodeID{}
	}
	if s.Selection == nil {
		s.Selection = []model.NodeID{}
	}
	for _, id := range d.order {
		s.Nodes = append(s.Nodes, *d.nodes[id])
	}
	return json.Marshal(s)
}

// UnmarshalJSON rebuilds the tree from a snapshot, validating references.
func (d *Document) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	byID := make(map[model.NodeID]Node, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, dup := byID[n.ID]; dup {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		byID[n.ID] = n
	}

	fresh := New()
	var insert func(parent model.NodeID, id model.NodeID) error
	insert = func(parent model.NodeID, id model.NodeID) error {
		n, ok := byID[id]
		if !ok {
			return fmt.Errorf("node %q referenced but not defined", id)
		}
		children := n.Children
		if _, err := fresh.AddNode(parent, n); err != nil {
			return err
		}
		for _, c := range children {
			if err := insert(id, c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range s.Roots {
		if err := insert("", r); err != nil {
			return err
		}
	}
	if fresh.Len() != len(byID) {
		return fmt.Errorf("%d nodes are not reachable from any root", len(byID)-fresh.Len())
	}
	fresh.Select(s.Selection)
	fresh.viewport = s.Viewport
	*d = *fresh
	return nil
}

// Decode reads a document snapshot from r.
func Decode(r io.Reader) (*Document, error) {
	d := New()
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return d, nil
}

// ReadFile loads a document snapshot from a JSON file.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile saves the document as indented JSON, creating parent directories.
func WriteFile(path string, d *Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
