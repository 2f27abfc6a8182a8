// Package cli implements the popper command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popper/pkg/buildinfo"
	"github.com/matzehuels/popper/pkg/cache"
	"github.com/matzehuels/popper/pkg/popper"
	"github.com/matzehuels/popper/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "popper"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = ":8080"
)

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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetLogFormat switches the logger to text, json or logfmt output.
func (c *CLI) SetLogFormat(name string) error {
	f, err := formatter(name)
	if err != nil {
		return err
	}
	c.Logger.SetFormatter(f)
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Popper positions tooltips and popovers next to their reference elements",
		Long:         `Popper loads scene files describing a page, a reference element and a popper, runs the placement engine on them and reports, replays or renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.pipelineCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Scene Loading
// =============================================================================

// loadStage reads and builds a scene file without placing it.
func loadStage(path string, logger *log.Logger) (*scene.Stage, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded scene", "name", s.Name, "elements", len(s.Elements), "events", len(s.Events))
	return s.Build(logger)
}

// placeStage builds a scene and runs its first update cycle.
func placeStage(path string, logger *log.Logger) (*scene.Stage, *popper.Engine, error) {
	st, err := loadStage(path, logger)
	if err != nil {
		return nil, nil, err
	}
	e, err := st.Engine()
	if err != nil {
		return nil, nil, err
	}
	return st, e, nil
}

// =============================================================================
// Cache
// =============================================================================

// newCache opens the SVG cache, falling back to no caching when the cache
// directory is unusable.
func newCache(noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using XDG standard (~/.cache/popper/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
