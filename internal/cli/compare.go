package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/framefill/internal/document"
	"github.com/piwi3910/framefill/internal/engine"
	"github.com/piwi3910/framefill/internal/model"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var docPath, imagesPath, container string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Preview a placement under alternative settings",
		Long: `Compare runs the placement preview once per scenario (current settings,
looser and stricter aspect tolerance, a wider size range, a tight grid) and
prints how many images each one matches. The document is never changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := c.settings()
			if err != nil {
				return err
			}
			doc, err := document.ReadFile(docPath)
			if err != nil {
				return fileError(err, "document", docPath)
			}
			images, err := c.readImages(imagesPath)
			if err != nil {
				return err
			}
			id := model.NodeID(container)
			if id == "" {
				if sel := doc.Selection(); len(sel) > 0 {
					id = sel[0]
				}
			}

			results, err := engine.CompareScenarios(doc, id, images, engine.BuildDefaultScenarios(settings))
			if err != nil {
				return err
			}
			c.printTitle("%d scenarios for %d images", len(results), len(images))
			for _, r := range results {
				summary := fmt.Sprintf("%d matched · %d packed · %.0f%%", r.Matched, r.Packed, r.MatchRate)
				if r.Fallback {
					summary += " · fallback"
				}
				c.printKeyValue(r.Scenario.Name, summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "document snapshot (JSON)")
	cmd.Flags().StringVar(&imagesPath, "images", "", "image records (json, csv, tsv or xlsx)")
	cmd.Flags().StringVar(&container, "container", "", "container node id (default: first selected node)")
	_ = cmd.MarkFlagRequired("doc")
	_ = cmd.MarkFlagRequired("images")
	return cmd
}
