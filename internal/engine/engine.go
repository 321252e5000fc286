// Package engine decides where fetched images go inside a frame.
//
// A placement runs in four steps: Scan finds placeholder nodes, Match pairs
// images with them, Pack grid-lays whatever is left over around existing
// content, and Apply writes the result into the host document. Scan, Match
// and Pack are pure functions of their inputs; only Apply mutates the host.
package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/framefill/internal/document"
	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/model"
)

// Engine runs placement operations with a fixed set of thresholds.
type Engine struct {
	Settings model.Settings
	logger   *log.Logger
}

// New creates an Engine. A nil logger discards all output.
func New(settings model.Settings, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{Settings: settings, logger: logger}
}

// Preview computes the full placement for images in container without
// touching the document. The returned report has no Updated/Created nodes.
func (e *Engine) Preview(src NodeSource, container model.NodeID, images []model.ImageItem) (model.PlacementReport, model.PlacementResult, error) {
	frame, err := e.resolveContainer(src, container)
	if err != nil {
		return model.PlacementReport{}, model.PlacementResult{}, err
	}
	for i, img := range images {
		if !img.Valid() {
			return model.PlacementReport{}, model.PlacementResult{}, ffErrors.New(ffErrors.ErrCodeInvalidInput,
				"image %d (%s) has non-positive size %.0fx%.0f", i, img.Label(), img.Width, img.Height)
		}
	}

	report := model.PlacementReport{Container: container}
	report.Placeholders = Scan(src, container, e.Settings)
	e.logger.Debug("scanned container", "container", container, "placeholders", len(report.Placeholders))

	if len(report.Placeholders) == 0 && CountImageNodes(src, container) == 0 {
		// Nothing to fill: grid-pack every image over the whole frame
		report.Fallback = true
		report.Unmatched = images
		e.logger.Debug("no destinations found, packing whole frame", "images", len(images))
	} else {
		report.Pairs, report.Unmatched = Match(images, report.Placeholders, e.Settings)
		e.logger.Debug("matched images", "pairs", len(report.Pairs), "unmatched", len(report.Unmatched))
	}

	if len(report.Unmatched) > 0 {
		obstacles := e.obstacles(src, frame, report.Pairs)
		report.Packed = Pack(report.Unmatched, frame.Width, frame.Height, obstacles, e.Settings)
		e.logger.Debug("packed residual images", "count", len(report.Packed), "obstacles", len(obstacles))
	}

	return report, Plan(report.Pairs, report.Packed), nil
}

// Place computes the placement and applies it to host. Precondition
// failures return an error before anything is written; refused node writes
// only show up in report.Dropped.
func (e *Engine) Place(host Host, container model.NodeID, images []model.ImageItem) (model.PlacementReport, error) {
	report, plan, err := e.Preview(host, container, images)
	if err != nil {
		return model.PlacementReport{}, err
	}

	out := Apply(host, container, plan, e.Settings.ScaleMode)
	report.Updated = out.Updated
	report.Created = out.Created
	report.Dropped = len(out.Failures)
	for _, f := range out.Failures {
		e.logger.Warn("image write skipped", "node", f.Node, "name", f.Name, "err", f.Err)
	}

	e.logger.Info("placed images",
		"container", container,
		"updated", len(report.Updated),
		"created", len(report.Created),
		"dropped", report.Dropped,
		"fallback", report.Fallback,
	)
	return report, nil
}

// resolveContainer checks the caller preconditions on the target frame.
func (e *Engine) resolveContainer(src NodeSource, container model.NodeID) (document.Node, error) {
	if container == "" {
		return document.Node{}, ffErrors.New(ffErrors.ErrCodeNoContainer, "no target frame selected")
	}
	frame, ok := src.Node(container)
	if !ok {
		return document.Node{}, ffErrors.New(ffErrors.ErrCodeNoContainer, "target frame %q not found", container)
	}
	if !frame.Kind.IsContainer() {
		return document.Node{}, ffErrors.New(ffErrors.ErrCodeInvalidContainer,
			"node %q is a %s, select a frame, component or instance", container, frame.Kind)
	}
	return frame, nil
}

// obstacles collects the areas the packer must avoid: every direct child of
// the frame plus every placeholder that was just matched.
func (e *Engine) obstacles(src NodeSource, frame document.Node, pairs []model.MatchedPair) []model.Rect {
	rects := make([]model.Rect, 0, len(frame.Children)+len(pairs))
	for _, id := range frame.Children {
		if child, ok := src.Node(id); ok {
			rects = append(rects, child.Bounds())
		}
	}
	for _, p := range pairs {
		rects = append(rects, p.Placeholder.Bounds())
	}
	return rects
}
