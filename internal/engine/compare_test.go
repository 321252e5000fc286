package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/framefill/internal/document"
	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultSettings()
	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 5)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, base, scenarios[0].Settings)
	assert.InDelta(t, 0.45, scenarios[1].Settings.MaxAspectDiff, 1e-9)
	assert.InDelta(t, 0.15, scenarios[2].Settings.MaxAspectDiff, 1e-9)
	assert.InDelta(t, 0.15, scenarios[3].Settings.MinSizeRatio, 1e-9)
	assert.InDelta(t, 6.0, scenarios[3].Settings.MaxSizeRatio, 1e-9)
	assert.Equal(t, "Tight Grid", scenarios[4].Name)
	assert.Zero(t, scenarios[4].Settings.Gap)

	assert.InDelta(t, 0.3, base.MaxAspectDiff, 1e-9, "base settings are not modified")
}

func TestBuildDefaultScenarios_NoSpacing(t *testing.T) {
	base := model.DefaultSettings()
	base.Gap, base.Padding = 0, 0
	for _, s := range BuildDefaultScenarios(base) {
		assert.NotEqual(t, "Tight Grid", s.Name)
	}
}

func TestCompareScenarios(t *testing.T) {
	d := document.New()
	addNodes(t, d, "", document.Node{ID: "f", Kind: document.KindFrame, Width: 1000, Height: 800})
	addNodes(t, d, "f", document.Node{ID: "slot", Name: "image", Kind: document.KindRectangle,
		X: 20, Y: 20, Width: 400, Height: 300, SupportsContentFill: true})

	// 500x300 differs from the slot aspect by one third.
	images := []model.ImageItem{img("wide", 500, 300)}
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	results, err := CompareScenarios(d, "f", images, scenarios)
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))

	assert.Equal(t, 0, results[0].Matched)
	assert.Equal(t, 1, results[0].Packed)
	assert.Equal(t, 1, results[1].Matched, "looser aspect tolerance accepts the slot")
	assert.InDelta(t, 100.0, results[1].MatchRate, 1e-9)
	assert.Equal(t, 0, results[2].Matched)

	slot, _ := d.Node("slot")
	assert.False(t, slot.HasImage(), "comparison never writes")
	assert.Equal(t, 2, d.Len())
}

func TestCompareScenarios_PreconditionError(t *testing.T) {
	d := document.New()
	_, err := CompareScenarios(d, "missing", []model.ImageItem{img("a", 10, 10)}, BuildDefaultScenarios(model.DefaultSettings()))
	assert.True(t, ffErrors.Is(err, ffErrors.ErrCodeNoContainer))
}
