// Package cli implements the skilltree command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/pkg/builder"
	"github.com/nasimstg/skilltree/pkg/buildinfo"
	"github.com/nasimstg/skilltree/pkg/draftstore"
	"github.com/nasimstg/skilltree/pkg/treestore"
)

// appName is the application name used for directories and display.
const appName = "skilltree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "skilltree",
		Short:        "Skilltree turns learning paths into navigable skill graphs",
		Long:         `Skilltree is a tool for building, validating, and exploring gamified learning paths: directed graphs of skills where completing prerequisites unlocks the next nodes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.draftCommand())
	root.AddCommand(c.progressCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factories
// =============================================================================

// newDraftStore opens the local draft store, honoring XDG_CONFIG_HOME.
func newDraftStore() (*draftstore.FileStore, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return draftstore.NewFileStore(filepath.Join(configHome, appName, "drafts"))
	}
	return draftstore.NewFileStore("")
}

var _ builder.Store = (*draftstore.FileStore)(nil)

// newTreeStore opens a file catalog over a tree directory.
func newTreeStore(dir string) (*treestore.FileStore, error) {
	return treestore.NewFileStore(dir)
}
