package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/importer"
	"github.com/piwi3910/framefill/internal/model"
	"github.com/piwi3910/framefill/internal/project"
	"github.com/piwi3910/framefill/internal/session"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var libPath string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add image records to the library",
		Long: `Import reads image records from a JSON, CSV/TSV or Excel file and merges
them into the library. Records already present by id or source are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, path, err := c.loadLibrary(libPath)
			if err != nil {
				return err
			}

			res := importer.ImportFile(args[0])
			c.printMessages(res.Warnings, res.Errors, 5)
			if len(res.Images) == 0 {
				return ffErrors.New(ffErrors.ErrCodeInvalidInput, "no images found in %s", args[0])
			}

			added := lib.Merge(res.Images)
			if err := project.SaveLibrary(path, lib); err != nil {
				return err
			}
			c.printSuccess("Added %s images (%d duplicates skipped)",
				StyleNumber.Render(fmt.Sprint(added)), len(res.Images)-added)
			c.printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&libPath, "library", "", "library file (default from config)")
	return cmd
}

// libraryCommand creates the library command group.
func (c *CLI) libraryCommand() *cobra.Command {
	var libPath string

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and manage the image library",
	}
	cmd.PersistentFlags().StringVar(&libPath, "library", "", "library file (default from config)")

	cmd.AddCommand(c.libraryListCommand(&libPath))
	cmd.AddCommand(c.librarySizesCommand(&libPath))
	cmd.AddCommand(c.libraryServicesCommand(&libPath))
	cmd.AddCommand(c.libraryRemoveServiceCommand(&libPath))
	return cmd
}

func (c *CLI) libraryListCommand(libPath *string) *cobra.Command {
	var sizes []string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List library images, optionally filtered by size",
		Example: `  framefill library list --size 300x200 --size 100x100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := c.loadLibrary(*libPath)
			if err != nil {
				return err
			}

			state := session.NewState()
			for _, s := range sizes {
				key, err := parseSizeKey(s)
				if err != nil {
					return err
				}
				state = state.ToggleSize(key)
			}

			visible := state.Visible(lib)
			c.printTitle("%d of %d images", len(visible), len(lib.Images))
			for _, img := range visible {
				c.printKeyValue(img.ID, fmt.Sprintf("%s  %s", model.SizeKey(img.Width, img.Height), img.Label()))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sizes, "size", nil, "only show images of this size (WxH), repeatable")
	return cmd
}

func (c *CLI) librarySizesCommand(libPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "List the distinct image sizes in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := c.loadLibrary(*libPath)
			if err != nil {
				return err
			}
			sizes := lib.AvailableSizes()
			c.printTitle("%d sizes", len(sizes))
			for _, s := range sizes {
				c.printDetail("%s", s)
			}
			return nil
		},
	}
}

func (c *CLI) libraryServicesCommand(libPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "Count library images per service",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := c.loadLibrary(*libPath)
			if err != nil {
				return err
			}
			for _, g := range lib.Services() {
				c.printKeyValue(g.Name, fmt.Sprint(g.Count))
			}
			return nil
		},
	}
}

func (c *CLI) libraryRemoveServiceCommand(libPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-service NAME",
		Short: "Delete every image collected from a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, path, err := c.loadLibrary(*libPath)
			if err != nil {
				return err
			}
			removed := lib.RemoveService(args[0])
			if removed == 0 {
				c.printInfo("No images from %s", args[0])
				return nil
			}
			if err := project.SaveLibrary(path, lib); err != nil {
				return err
			}
			c.printSuccess("Removed %d images from %s", removed, args[0])
			return nil
		},
	}
}

// parseSizeKey turns "300x200" or "300×200" into a library size key.
func parseSizeKey(s string) (string, error) {
	if s == model.AllSizes {
		return s, nil
	}
	parts := strings.Split(strings.ReplaceAll(strings.ToLower(s), "×", "x"), "x")
	if len(parts) != 2 {
		return "", ffErrors.New(ffErrors.ErrCodeInvalidInput, "size %q is not WxH", s)
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return "", ffErrors.New(ffErrors.ErrCodeInvalidInput, "size %q is not WxH", s)
	}
	return model.SizeKey(w, h), nil
}

// backupCommand creates the backup command group.
func (c *CLI) backupCommand() *cobra.Command {
	var libPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the config and library",
	}
	cmd.PersistentFlags().StringVar(&libPath, "library", "", "library file (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "export FILE",
		Short: "Write config and library to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			lib, _, err := c.loadLibrary(libPath)
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, lib); err != nil {
				return err
			}
			c.printSuccess("Backed up %d images", len(lib.Images))
			c.printFile(args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Restore config and merge the library from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return fileError(err, "backup", args[0])
			}
			lib, path, err := c.loadLibrary(libPath)
			if err != nil {
				return err
			}
			added := lib.Merge(backup.Library.Images)
			if err := project.SaveAppConfig(c.configFile(), backup.Config); err != nil {
				return err
			}
			if err := project.SaveLibrary(path, lib); err != nil {
				return err
			}
			c.printSuccess("Restored config from %s (created %s)", args[0], backup.CreatedAt)
			c.printDetail("%d images added to the library", added)
			return nil
		},
	})

	return cmd
}
