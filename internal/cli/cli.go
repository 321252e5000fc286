// Package cli implements the framefill command-line interface.
//
// Commands operate on JSON document snapshots and an image library stored
// under ~/.framefill. All commands support --verbose (-v) for debug-level
// logging and --config to point at a different config file.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	ffErrors "github.com/piwi3910/framefill/internal/errors"
	"github.com/piwi3910/framefill/internal/model"
	"github.com/piwi3910/framefill/internal/project"
)

// =============================================================================
// Constants
// =============================================================================

const (
	appName = "framefill"

	// maxRecentDocuments bounds the recent list kept in the config.
	maxRecentDocuments = 10
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Version is set by main from ldflags.
var Version = "dev"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
}

// New creates a CLI that prints results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Framefill places images into document frames",
		Long:          `Framefill matches a batch of images to the image placeholders inside a frame and grid-packs whatever is left over.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.SetLogLevel(c.logLevel())
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.framefill/config.toml)")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.importDXFCommand())
	root.AddCommand(c.libraryCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.dropCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.backupCommand())

	return root
}

// logLevel resolves the level from --verbose, then the config file.
func (c *CLI) logLevel() log.Level {
	if c.verbose {
		return log.DebugLevel
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// =============================================================================
// Config & Library
// =============================================================================

func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return project.DefaultConfigPath()
}

func (c *CLI) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(c.configFile())
	if err != nil {
		return model.AppConfig{}, ffErrors.Wrap(ffErrors.ErrCodeInvalidFormat, err, "load config %s", c.configFile())
	}
	return cfg, nil
}

// settings returns the engine settings with the config defaults applied.
func (c *CLI) settings() (model.Settings, model.AppConfig, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return model.Settings{}, cfg, err
	}
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)
	return s, cfg, nil
}

// libraryFile returns flagPath, or the configured library location.
func (c *CLI) libraryFile(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	return project.DefaultLibraryPath(cfg), nil
}

func (c *CLI) loadLibrary(flagPath string) (model.Library, string, error) {
	path, err := c.libraryFile(flagPath)
	if err != nil {
		return model.Library{}, "", err
	}
	lib, err := project.LoadLibrary(path)
	if err != nil {
		return model.Library{}, path, ffErrors.Wrap(ffErrors.ErrCodeInvalidFormat, err, "load library %s", path)
	}
	return lib, path, nil
}

// rememberDocument records path in the config's recent list. Failures are
// logged, never returned.
func (c *CLI) rememberDocument(path string) {
	cfg, err := c.loadConfig()
	if err != nil {
		return
	}
	cfg.AddRecentDocument(path, maxRecentDocuments)
	if err := project.SaveAppConfig(c.configFile(), cfg); err != nil {
		c.Logger.Debug("could not update recent documents", "err", err)
	}
}

// fileError maps a missing file to FILE_NOT_FOUND and anything else to
// INVALID_FORMAT.
func fileError(err error, what, path string) error {
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return ffErrors.Wrap(ffErrors.ErrCodeFileNotFound, err, "%s %s not found", what, path)
	}
	return ffErrors.Wrap(ffErrors.ErrCodeInvalidFormat, err, "read %s %s", what, path)
}
