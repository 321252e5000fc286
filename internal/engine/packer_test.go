package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/framefill/internal/model"
)

const eps = 1e-9

func TestPack_SingleColumnStack(t *testing.T) {
	s := model.DefaultSettings()
	images := []model.ImageItem{img("a", 200, 100), img("b", 200, 100)}

	placed := Pack(images, 320, 320, nil, s)

	require.Len(t, placed, 2)
	first, second := placed[0].Bounds, placed[1].Bounds

	// One 280 wide column, two rows of 132; both images bound by cell height
	assert.InDelta(t, 264, first.Width, eps)
	assert.InDelta(t, 132, first.Height, eps)
	assert.InDelta(t, 28, first.X, eps)
	assert.InDelta(t, 20, first.Y, eps)
	assert.InDelta(t, 168, second.Y, eps)
	assert.Greater(t, second.Y, first.Bottom())
	assert.False(t, first.Overlaps(second))
}

func TestPack_KeepsInputOrderAndIndex(t *testing.T) {
	images := []model.ImageItem{img("a", 100, 100), img("b", 300, 200), img("c", 50, 80)}

	placed := Pack(images, 1000, 800, nil, model.DefaultSettings())

	require.Len(t, placed, 3)
	for i, p := range placed {
		assert.Equal(t, i, p.ImageIndex)
		assert.Equal(t, images[i].ID, p.Image.ID)
	}
}

func TestPack_ContainmentAndAspect(t *testing.T) {
	s := model.DefaultSettings()
	images := []model.ImageItem{
		img("a", 300, 200), img("b", 100, 100), img("c", 50, 400),
		img("d", 640, 480), img("e", 1000, 100),
	}
	const width, height = 1200.0, 800.0

	placed := Pack(images, width, height, nil, s)

	require.Len(t, placed, len(images))
	for i, p := range placed {
		r := p.Bounds
		assert.GreaterOrEqual(t, r.X, s.Padding-eps, "image %d left", i)
		assert.GreaterOrEqual(t, r.Y, s.Padding-eps, "image %d top", i)
		assert.LessOrEqual(t, r.Right(), width-s.Padding+eps, "image %d right", i)
		assert.LessOrEqual(t, r.Bottom(), height-s.Padding+eps, "image %d bottom", i)
		assert.InDelta(t, images[i].Aspect(), r.Aspect(), 1e-9, "image %d aspect", i)
		for j := 0; j < i; j++ {
			assert.False(t, r.Overlaps(placed[j].Bounds), "image %d overlaps %d", i, j)
		}
	}
}

func TestPack_ShiftsAwayFromObstacle(t *testing.T) {
	s := model.DefaultSettings()
	free := Pack([]model.ImageItem{img("a", 100, 100)}, 800, 400, nil, s)
	require.Len(t, free, 1)
	base := free[0].Bounds

	obstacle := model.NewRect(base.X, base.Y, 50, 50)
	placed := Pack([]model.ImageItem{img("a", 100, 100)}, 800, 400, []model.Rect{obstacle}, s)

	require.Len(t, placed, 1)
	got := placed[0].Bounds
	assert.InDelta(t, base.X+base.Width+s.Gap, got.X, eps)
	assert.InDelta(t, base.Y, got.Y, eps)
	assert.False(t, got.Overlaps(obstacle))
}

func TestPack_WrapsToNextRowAtRightEdge(t *testing.T) {
	s := model.DefaultSettings()
	obstacle := model.NewRect(0, 0, 400, 200)

	placed := Pack([]model.ImageItem{img("wide", 300, 100)}, 400, 400, []model.Rect{obstacle}, s)

	require.Len(t, placed, 1)
	got := placed[0].Bounds
	// Cell is 360x360, image scaled to 360x120 at y=140, pushed below itself
	assert.InDelta(t, s.Padding, got.X, eps)
	assert.InDelta(t, 140+120+s.Gap, got.Y, eps)
}

func TestPack_DoesNotModifyOccupied(t *testing.T) {
	occupied := []model.Rect{model.NewRect(0, 0, 100, 100)}
	before := append([]model.Rect(nil), occupied...)

	Pack([]model.ImageItem{img("a", 100, 100), img("b", 100, 100)}, 500, 500, occupied, model.DefaultSettings())

	assert.Equal(t, before, occupied)
	assert.Len(t, occupied, 1)
}

func TestPack_Deterministic(t *testing.T) {
	images := []model.ImageItem{img("a", 300, 200), img("b", 120, 90), img("c", 90, 120)}
	occupied := []model.Rect{model.NewRect(20, 20, 200, 200)}
	s := model.DefaultSettings()

	first := Pack(images, 900, 700, occupied, s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Pack(images, 900, 700, occupied, s))
	}
}

func TestPack_TinyContainerStillPlaces(t *testing.T) {
	// Padding eats the whole container; available space is clamped to 1
	placed := Pack([]model.ImageItem{img("a", 100, 50)}, 30, 30, nil, model.DefaultSettings())

	require.Len(t, placed, 1)
	assert.Greater(t, placed[0].Bounds.Width, 0.0)
	assert.Greater(t, placed[0].Bounds.Height, 0.0)
}

func TestPack_Empty(t *testing.T) {
	assert.Empty(t, Pack(nil, 500, 500, nil, model.DefaultSettings()))
}
