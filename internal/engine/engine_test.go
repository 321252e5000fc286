package engine

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/framefill/internal/document"
	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/model"
)

func TestPlace_MatchesThenPacksLeftovers(t *testing.T) {
	d := buildPage(t)
	e := New(model.DefaultSettings(), nil)
	images := []model.ImageItem{img("hero-shot", 400, 300), img("banner", 1000, 100)}

	report, err := e.Place(d, "page", images)

	require.NoError(t, err)
	assert.False(t, report.Fallback)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, model.NodeID("hero"), report.Pairs[0].Placeholder.Node)
	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, "banner", report.Unmatched[0].ID)

	assert.Equal(t, []model.NodeID{"hero"}, report.Updated)
	require.Len(t, report.Created, 1)
	assert.Equal(t, 0, report.Dropped)
	assert.Equal(t, 2, report.Placed())
	assert.InDelta(t, 50.0, report.MatchRate(), 1e-9)

	hero, _ := d.Node("hero")
	assert.Equal(t, model.ContentHandle("hero-shot"), hero.Fill.Content)

	created, ok := d.Node(report.Created[0])
	require.True(t, ok)
	assert.Equal(t, model.NodeID("page"), created.Parent)
	assert.Equal(t, model.ContentHandle("banner"), created.Fill.Content)
	assert.InDelta(t, 10.0, created.Bounds().Aspect(), 1e-9)
}

func TestPlace_ContestedSlotFallsThroughToPacker(t *testing.T) {
	d := document.New()
	addNodes(t, d, "", document.Node{ID: "f", Kind: document.KindFrame, Width: 1000, Height: 800})
	addNodes(t, d, "f", document.Node{ID: "slot", Name: "image", Kind: document.KindRectangle,
		X: 20, Y: 20, Width: 400, Height: 300, SupportsContentFill: true})
	e := New(model.DefaultSettings(), nil)

	report, err := e.Place(d, "f", []model.ImageItem{img("first", 400, 300), img("second", 400, 300)})

	require.NoError(t, err)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, "first", report.Pairs[0].Image.ID)
	require.Len(t, report.Packed, 1)
	assert.Equal(t, "second", report.Packed[0].Image.ID)
	assert.Len(t, report.Created, 1)
}

func TestPlace_FallbackPacksWholeFrame(t *testing.T) {
	d := document.New()
	addNodes(t, d, "", document.Node{ID: "f", Kind: document.KindFrame, Width: 320, Height: 320})
	e := New(model.DefaultSettings(), nil)

	report, err := e.Place(d, "f", []model.ImageItem{img("a", 200, 100), img("b", 200, 100)})

	require.NoError(t, err)
	assert.True(t, report.Fallback)
	assert.Empty(t, report.Pairs)
	assert.Empty(t, report.Updated)
	require.Len(t, report.Created, 2)

	first, _ := d.Node(report.Created[0])
	second, _ := d.Node(report.Created[1])
	assert.Greater(t, second.Y, first.Y+first.Height)
}

func TestPlace_ExistingSmallImagesDisableFallback(t *testing.T) {
	d := document.New()
	addNodes(t, d, "", document.Node{ID: "f", Kind: document.KindFrame, Width: 600, Height: 600})
	addNodes(t, d, "f", document.Node{ID: "icon", Name: "icon", Kind: document.KindRectangle,
		X: 10, Y: 10, Width: 24, Height: 24, SupportsContentFill: true,
		Fill: document.Fill{State: document.FillImage, Content: "icon.png"}})
	e := New(model.DefaultSettings(), nil)

	report, err := e.Place(d, "f", []model.ImageItem{img("a", 200, 100)})

	require.NoError(t, err)
	assert.False(t, report.Fallback)
	assert.Empty(t, report.Placeholders)
	assert.Len(t, report.Created, 1)
}

func TestPlace_DroppedWritesReported(t *testing.T) {
	host := &refusingHost{Document: buildPage(t), refuse: map[model.NodeID]bool{"hero": true}}
	e := New(model.DefaultSettings(), nil)

	report, err := e.Place(host, "page", []model.ImageItem{img("a", 400, 300)})

	require.NoError(t, err)
	require.Len(t, report.Pairs, 1)
	assert.Empty(t, report.Updated)
	assert.Equal(t, 1, report.Dropped)
}

func TestPlace_PreconditionErrors(t *testing.T) {
	d := buildPage(t)
	e := New(model.DefaultSettings(), nil)
	images := []model.ImageItem{img("a", 100, 100)}

	tests := []struct {
		name      string
		container model.NodeID
		images    []model.ImageItem
		code      ffErrors.Code
	}{
		{"empty container", "", images, ffErrors.ErrCodeNoContainer},
		{"missing container", "nope", images, ffErrors.ErrCodeNoContainer},
		{"rectangle container", "hero", images, ffErrors.ErrCodeInvalidContainer},
		{"zero height image", "page", []model.ImageItem{img("bad", 100, 0)}, ffErrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := d.MarshalJSON()
			_, err := e.Place(d, tt.container, tt.images)
			require.Error(t, err)
			assert.Equal(t, tt.code, ffErrors.GetCode(err))
			after, _ := d.MarshalJSON()
			assert.JSONEq(t, string(before), string(after), "document must be untouched")
		})
	}
}

func TestPreview_DoesNotMutate(t *testing.T) {
	d := buildPage(t)
	before := d.Len()
	e := New(model.DefaultSettings(), nil)

	report, plan, err := e.Preview(d, "page", []model.ImageItem{img("a", 400, 300), img("b", 100, 100)})

	require.NoError(t, err)
	assert.Equal(t, before, d.Len())
	assert.Empty(t, report.Updated)
	assert.Empty(t, report.Created)
	assert.Len(t, plan.Writes, len(report.Pairs))
	assert.Len(t, plan.Creates, len(report.Packed))

	hero, _ := d.Node("hero")
	assert.Equal(t, document.FillNone, hero.Fill.State)
}

func TestPreview_Deterministic(t *testing.T) {
	e := New(model.DefaultSettings(), nil)
	images := []model.ImageItem{img("a", 400, 300), img("b", 100, 100), img("c", 640, 480), img("d", 90, 160)}

	firstReport, firstPlan, err := e.Preview(buildPage(t), "page", images)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		report, plan, err := e.Preview(buildPage(t), "page", images)
		require.NoError(t, err)
		assert.Equal(t, firstReport.Pairs, report.Pairs)
		assert.Equal(t, firstReport.Packed, report.Packed)
		assert.Equal(t, firstPlan, plan)
	}
}

func TestPlace_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	e := New(model.DefaultSettings(), logger)

	_, err := e.Place(buildPage(t), "page", []model.ImageItem{img("a", 400, 300)})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "placed images")
	assert.Contains(t, buf.String(), "updated=1")
}
