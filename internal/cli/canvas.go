package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/framefill/internal/document"
	"github.com/piwi3910/framefill/internal/engine"
	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/importer"
	"github.com/piwi3910/framefill/internal/model"
	"github.com/piwi3910/framefill/internal/session"
)

// canvasOpts holds the flags shared by apply and drop.
type canvasOpts struct {
	doc      string
	out      string
	library  string
	imageIDs []string
}

func (o *canvasOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.doc, "doc", "", "document snapshot (JSON)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the updated document here instead of --doc")
	cmd.Flags().StringVar(&o.library, "library", "", "library file (default from config)")
	cmd.Flags().StringSliceVar(&o.imageIDs, "image-id", nil, "library image id, repeatable; the first one is used")
	_ = cmd.MarkFlagRequired("doc")
	_ = cmd.MarkFlagRequired("image-id")
}

func (o *canvasOpts) outPath() string {
	if o.out != "" {
		return o.out
	}
	return o.doc
}

// pick resolves the image ids against the library into a session selection.
func (c *CLI) pick(opts canvasOpts) (model.ImageItem, *document.Document, error) {
	lib, _, err := c.loadLibrary(opts.library)
	if err != nil {
		return model.ImageItem{}, nil, err
	}
	state := session.NewState()
	for _, id := range opts.imageIDs {
		idx := indexOf(lib, id)
		if idx < 0 {
			return model.ImageItem{}, nil, ffErrors.New(ffErrors.ErrCodeNotFound, "image %q is not in the library", id)
		}
		if !state.IsSelected(idx) {
			state = state.ToggleImage(idx)
		}
	}
	first, ok := state.Primary()
	if !ok {
		return model.ImageItem{}, nil, ffErrors.New(ffErrors.ErrCodeInvalidInput, "no image selected")
	}
	if len(state.Selected) > 1 {
		c.Logger.Debug("using first selected image", "id", lib.Images[first].ID, "selected", len(state.Selected))
	}

	doc, err := document.ReadFile(opts.doc)
	if err != nil {
		return model.ImageItem{}, nil, fileError(err, "document", opts.doc)
	}
	return lib.Images[first], doc, nil
}

func indexOf(lib model.Library, id string) int {
	for i, img := range lib.Images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	var opts canvasOpts

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Fill the selected nodes with a library image",
		RunE: func(cmd *cobra.Command, args []string) error {
			img, doc, err := c.pick(opts)
			if err != nil {
				return err
			}
			n, err := engine.ApplyToSelection(doc, doc.Selection(), img.Content)
			if err != nil {
				return err
			}
			if err := document.WriteFile(opts.outPath(), doc); err != nil {
				return err
			}
			c.printSuccess("Applied %s to %d nodes", img.Label(), n)
			c.printFile(opts.outPath())
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// dropCommand creates the drop command.
func (c *CLI) dropCommand() *cobra.Command {
	var opts canvasOpts
	var parent string

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Add a library image at the centre of the viewport",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := c.settings()
			if err != nil {
				return err
			}
			img, doc, err := c.pick(opts)
			if err != nil {
				return err
			}

			_, payload, ok := session.NewState().BeginDrag(img).Drop()
			if !ok {
				return ffErrors.New(ffErrors.ErrCodeInternal, "drag for %s was lost", img.Label())
			}

			id, err := engine.DropAtCenter(doc, model.NodeID(parent), doc.Viewport(), payload.Image, settings.MaxDropSize)
			if err != nil {
				return err
			}
			doc.Select([]model.NodeID{id})
			if err := document.WriteFile(opts.outPath(), doc); err != nil {
				return err
			}
			n, _ := doc.Node(id)
			c.printSuccess("Dropped %s as %s", img.Label(), id)
			c.printDetail("%.0f×%.0f @ (%.0f, %.0f)", n.Width, n.Height, n.X, n.Y)
			c.printFile(opts.outPath())
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&parent, "parent", "", "parent node id (default: top level)")
	return cmd
}

// importDXFCommand creates the import-dxf command.
func (c *CLI) importDXFCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import-dxf FILE",
		Short: "Build a document from a DXF wireframe",
		Long: `Import-dxf turns closed polylines, circles and closed line chains into
rectangles inside one frame sized to the drawing. Shapes are named after their
layer, so a layer called "image" yields placeholders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := importer.ImportDXF(args[0])
			c.printMessages(res.Warnings, res.Errors, 5)
			if res.Document == nil {
				return fileError(fmt.Errorf("%v", res.Errors), "drawing", args[0])
			}
			if err := document.WriteFile(out, res.Document); err != nil {
				return err
			}
			c.printSuccess("Imported %d nodes into frame %s", res.Document.Len(), res.Root)
			c.printFile(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "document snapshot to write (JSON)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
