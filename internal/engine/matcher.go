package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/framefill/internal/model"
)

// Score weights. The aspect term dominates so a slot of the right shape wins
// over one of the right size.
const (
	aspectWeight    = 0.5
	areaWeight      = 0.3
	sizeWeight      = 0.2
	aspectSharpness = 10.0    // Higher values punish aspect differences harder
	areaScale       = 10000.0 // Area difference that halves the area term
	sizeBonusFits   = 1.2     // Placeholder at least as large as the image
	sizeBonusNone   = 1.0
)

// Compatible reports whether img may be assigned to ph at all. Candidates
// failing any gate are never scored.
func Compatible(img model.ImageItem, ph model.Placeholder, s model.Settings) bool {
	imgAspect := img.Aspect()
	phAspect := ph.Aspect()

	if math.Abs(imgAspect-phAspect) > s.MaxAspectDiff {
		return false
	}
	// Square content only goes into square slots and vice versa
	if s.IsSquareLike(imgAspect) != s.IsSquareLike(phAspect) {
		return false
	}

	widthRatio := img.Width / ph.Width
	heightRatio := img.Height / ph.Height
	if widthRatio < s.MinSizeRatio || widthRatio > s.MaxSizeRatio {
		return false
	}
	if heightRatio < s.MinSizeRatio || heightRatio > s.MaxSizeRatio {
		return false
	}
	return true
}

// Score rates how well img fits ph. Higher is better; the result is finite
// for any positive dimensions.
func Score(img model.ImageItem, ph model.Placeholder) float64 {
	aspectDiff := math.Abs(img.Aspect() - ph.Aspect())
	areaDiff := math.Abs(img.Area() - ph.Area())

	sizeBonus := sizeBonusNone
	if ph.Width >= img.Width && ph.Height >= img.Height {
		sizeBonus = sizeBonusFits
	}

	return aspectWeight*(1/(1+aspectSharpness*aspectDiff)) +
		areaWeight*(1/(1+areaDiff/areaScale)) +
		sizeWeight*(sizeBonus-1)
}

// Match assigns images to placeholders greedily, one image at a time in input
// order. Each image takes the compatible unconsumed placeholder with the
// highest score; the first one seen wins a tie. This is not a global optimum:
// an early image can take a slot a later image would have fitted better.
//
// Pairs are returned sorted by descending score. Unmatched images keep their
// input order.
func Match(images []model.ImageItem, placeholders []model.Placeholder, s model.Settings) ([]model.MatchedPair, []model.ImageItem) {
	consumed := make([]bool, len(placeholders))
	var pairs []model.MatchedPair
	var unmatched []model.ImageItem

	for _, img := range images {
		best := -1
		bestScore := math.Inf(-1)

		for i, ph := range placeholders {
			if consumed[i] || !Compatible(img, ph, s) {
				continue
			}
			if score := Score(img, ph); score > bestScore {
				best = i
				bestScore = score
			}
		}

		if best < 0 {
			unmatched = append(unmatched, img)
			continue
		}
		consumed[best] = true
		pairs = append(pairs, model.MatchedPair{
			Image:       img,
			Placeholder: placeholders[best],
			Score:       bestScore,
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	return pairs, unmatched
}
