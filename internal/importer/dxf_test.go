package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/framefill/internal/document"
	"github.com/piwi3910/framefill/internal/model"
)

func TestBuildDocument_FlipsToCanvasCoordinates(t *testing.T) {
	shapes := []shape{
		{layer: "frame", bounds: model.NewRect(0, 0, 1000, 600)}, // Outline of the whole drawing
		{layer: "hero img", bounds: model.NewRect(20, 280, 400, 300)},
		{bounds: model.NewRect(500, 20, 100, 100)},
	}

	doc, root, warnings, err := buildDocument("landing", shapes)

	require.NoError(t, err)
	assert.Empty(t, warnings)

	frame, ok := doc.Node(root)
	require.True(t, ok)
	assert.Equal(t, "landing", frame.Name)
	assert.Equal(t, document.KindFrame, frame.Kind)
	assert.Equal(t, model.NewRect(0, 0, 1000, 600), frame.Bounds())
	require.Len(t, frame.Children, 2, "the outline itself is not a child")

	hero, _ := doc.Node(frame.Children[0])
	assert.Equal(t, "hero img", hero.Name)
	assert.Equal(t, model.NewRect(20, 20, 400, 300), hero.Bounds())
	assert.True(t, hero.SupportsContentFill)

	other, _ := doc.Node(frame.Children[1])
	assert.Equal(t, "Shape 2", other.Name)
	assert.Equal(t, model.NewRect(500, 480, 100, 100), other.Bounds())

	assert.Equal(t, []model.NodeID{root}, doc.Selection())
}

func TestBuildDocument_OffsetDrawing(t *testing.T) {
	shapes := []shape{
		{bounds: model.NewRect(100, 100, 50, 50)},
		{bounds: model.NewRect(200, 300, 50, 50)},
		{bounds: model.NewRect(120, 120, 0, 10)},
	}

	doc, root, warnings, err := buildDocument("", shapes)

	require.NoError(t, err)
	assert.Len(t, warnings, 1, "degenerate shape is skipped")
	frame, _ := doc.Node(root)
	assert.Equal(t, "Imported", frame.Name)
	assert.Equal(t, 150.0, frame.Width)
	assert.Equal(t, 250.0, frame.Height)

	top, _ := doc.Node(frame.Children[0])
	assert.Equal(t, model.NewRect(100, 0, 50, 50), top.Bounds())
	bottom, _ := doc.Node(frame.Children[1])
	assert.Equal(t, model.NewRect(0, 200, 50, 50), bottom.Bounds())
}

func TestChainSegments_ClosedAndOpen(t *testing.T) {
	square := []segment{
		{start: point{0, 0}, end: point{10, 0}},
		{start: point{10, 10}, end: point{10, 0}}, // Reversed direction
		{start: point{10, 10}, end: point{0, 10}},
		{start: point{0, 10}, end: point{0, 0}},
	}
	open := []segment{
		{start: point{50, 50}, end: point{60, 50}},
		{start: point{60, 50}, end: point{60, 60}},
	}

	outlines := chainSegments(append(square, open...), 0.01)

	require.Len(t, outlines, 1)
	assert.Len(t, outlines[0], 4)
	assert.Equal(t, model.NewRect(0, 0, 10, 10), boundsOf(outlines[0]))
	assert.InDelta(t, 100.0, outlineArea(outlines[0]), 1e-9)
}

func TestImportDXF_MissingFile(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"))

	assert.Nil(t, result.Document)
	assert.NotEmpty(t, result.Errors)
}
