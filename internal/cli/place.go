package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/framefill/internal/document"
	"github.com/piwi3910/framefill/internal/engine"
	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/export"
	"github.com/piwi3910/framefill/internal/importer"
	"github.com/piwi3910/framefill/internal/model"
	"github.com/piwi3910/framefill/internal/session"
)

// placeOpts holds the flags of the place command.
type placeOpts struct {
	doc       string
	images    string
	container string
	out       string
	dryRun    bool
	strict    bool
	pdf       string
	labels    string
	xlsx      string
	dxf       string
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Fill a frame's image placeholders and grid-pack the rest",
		Long: `Place matches each image to the best-fitting placeholder inside the
container frame, then lays out unmatched images in a grid around what is
already there. The document is updated in place unless --out is given.`,
		Example: `  framefill place --doc page.json --images batch.csv --container hero-frame
  framefill place --doc page.json --images batch.json --dry-run --pdf layout.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(opts)
		},
	}

	cmd.Flags().StringVar(&opts.doc, "doc", "", "document snapshot (JSON)")
	cmd.Flags().StringVar(&opts.images, "images", "", "image records (json, csv, tsv or xlsx)")
	cmd.Flags().StringVar(&opts.container, "container", "", "container node id (default: first selected node)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the updated document here instead of --doc")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compute the placement without changing the document")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "leave the document untouched if any write is refused")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write a PDF layout report")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write QR-coded placement labels (PDF)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write the placements as an Excel sheet")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "write the layout as a DXF drawing")
	_ = cmd.MarkFlagRequired("doc")
	_ = cmd.MarkFlagRequired("images")

	return cmd
}

func (c *CLI) runPlace(opts placeOpts) error {
	prog := newProgress(c.Logger)

	settings, _, err := c.settings()
	if err != nil {
		return err
	}
	doc, err := document.ReadFile(opts.doc)
	if err != nil {
		return fileError(err, "document", opts.doc)
	}
	images, err := c.readImages(opts.images)
	if err != nil {
		return err
	}

	container := model.NodeID(opts.container)
	if container == "" {
		if sel := doc.Selection(); len(sel) > 0 {
			container = sel[0]
		}
	}
	c.Logger.Debug("placing", "container", container, "images", len(images))

	eng := engine.New(settings, c.Logger)
	var report model.PlacementReport
	if opts.dryRun {
		report, _, err = eng.Preview(doc, container, images)
		if err != nil {
			return err
		}
	} else {
		history := session.NewHistory()
		history.Push(session.MakeSnapshot(doc, "Place images"))
		report, err = eng.Place(doc, container, images)
		if err != nil {
			return err
		}
		var rejected error
		if opts.strict && report.Dropped > 0 {
			prev, _ := history.Undo(session.MakeSnapshot(doc, "rejected placement"))
			doc = prev.Doc
			rejected = ffErrors.New(ffErrors.ErrCodeFillRejected, "%d of %d writes were refused, document left unchanged",
				report.Dropped, report.Dropped+report.Placed())
			c.Logger.Debug("rolled back placement", "dropped", report.Dropped)
		} else {
			doc.Select(report.Affected())
			doc.ScrollAndZoomIntoView(report.Affected())
		}

		out := opts.out
		if out == "" {
			out = opts.doc
		}
		if err := document.WriteFile(out, doc); err != nil {
			return err
		}
		if rejected != nil {
			return rejected
		}
		c.rememberDocument(out)
		defer c.printFile(out)
	}

	c.printReport(report, opts.dryRun)

	frame, _ := doc.Node(container)
	layout := export.NewLayout(frame.Name, frame.Bounds(), report, settings)
	if err := c.writeExports(layout, opts); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Placed %d images", report.Placed()))
	return nil
}

// readImages loads image records and reports row problems. Only a file with
// no usable rows is an error.
func (c *CLI) readImages(path string) ([]model.ImageItem, error) {
	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		c.Logger.Warn(w)
	}
	for _, e := range res.Errors {
		c.Logger.Warn("skipped image record", "reason", e)
	}
	if len(res.Images) == 0 {
		if len(res.Errors) > 0 {
			return nil, fileError(fmt.Errorf("%s", res.Errors[0]), "image file", path)
		}
		return nil, ffErrors.New(ffErrors.ErrCodeInvalidInput, "no images in %s", path)
	}
	return res.Images, nil
}

func (c *CLI) printReport(r model.PlacementReport, dryRun bool) {
	if dryRun {
		c.printTitle("Placement preview")
	} else {
		c.printTitle("Placement")
	}
	c.printStats(
		fmt.Sprintf("%d placeholders", len(r.Placeholders)),
		fmt.Sprintf("%d matched", len(r.Pairs)),
		fmt.Sprintf("%d packed", len(r.Packed)),
		fmt.Sprintf("%.0f%% match rate", r.MatchRate()),
	)
	for _, p := range r.Pairs {
		c.printDetail("%s %s %s (score %.2f)", p.Image.Label(), iconArrow, p.Placeholder.Name, p.Score)
	}
	if r.Fallback {
		c.printInfo("No placeholders found, packed the whole frame")
	}
	if dryRun {
		return
	}
	if r.Dropped > 0 {
		c.printWarning("%d writes were refused by the document", r.Dropped)
	}
	c.printSuccess("Updated %s, created %s",
		StyleNumber.Render(fmt.Sprint(len(r.Updated))),
		StyleNumber.Render(fmt.Sprint(len(r.Created))))
}

func (c *CLI) writeExports(layout export.Layout, opts placeOpts) error {
	exports := []struct {
		path  string
		write func(string, export.Layout) error
	}{
		{opts.pdf, export.ExportPDF},
		{opts.labels, export.ExportLabels},
		{opts.xlsx, export.ExportXLSX},
		{opts.dxf, export.ExportDXF},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.write(e.path, layout); err != nil {
			return ffErrors.Wrap(ffErrors.ErrCodeInternal, err, "export %s", e.path)
		}
		c.printFile(e.path)
	}
	return nil
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var docPath, container string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the image placeholders inside a frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := c.settings()
			if err != nil {
				return err
			}
			doc, err := document.ReadFile(docPath)
			if err != nil {
				return fileError(err, "document", docPath)
			}
			id := model.NodeID(container)
			if id == "" {
				if sel := doc.Selection(); len(sel) > 0 {
					id = sel[0]
				}
			}
			if _, ok := doc.Node(id); !ok {
				return ffErrors.New(ffErrors.ErrCodeNoContainer, "container %q not found", id)
			}

			placeholders := engine.Scan(doc, id, settings)
			c.printTitle("%d placeholders", len(placeholders))
			for _, p := range placeholders {
				c.printKeyValue(string(p.Node), fmt.Sprintf("%s  %.0f×%.0f @ (%.0f, %.0f)", p.Name, p.Width, p.Height, p.X, p.Y))
			}
			if n := engine.CountImageNodes(doc, id); n > 0 {
				c.printDetail("%d nodes already hold images", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "document snapshot (JSON)")
	cmd.Flags().StringVar(&container, "container", "", "container node id (default: first selected node)")
	_ = cmd.MarkFlagRequired("doc")

	return cmd
}
