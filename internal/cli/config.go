package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/framefill/internal/model"
	"github.com/piwi3910/framefill/internal/project"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the framefill config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configFile()
			if _, err := os.Stat(path); err == nil && !force {
				c.printInfo("Config already exists, use --force to overwrite")
				c.printFile(path)
				return nil
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			c.printSuccess("Wrote default config")
			c.printFile(path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, cfg, err := c.settings()
			if err != nil {
				return err
			}
			c.printTitle("%s", c.configFile())
			c.printKeyValue("padding", fmt.Sprint(settings.Padding))
			c.printKeyValue("gap", fmt.Sprint(settings.Gap))
			c.printKeyValue("scale mode", string(settings.ScaleMode))
			c.printKeyValue("max drop", fmt.Sprint(settings.MaxDropSize))
			c.printKeyValue("keywords", strings.Join(settings.Keywords, ", "))
			c.printKeyValue("library", project.DefaultLibraryPath(cfg))
			c.printKeyValue("log level", cfg.LogLevel)
			for _, doc := range cfg.RecentDocuments {
				c.printDetail("recent: %s", doc)
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
