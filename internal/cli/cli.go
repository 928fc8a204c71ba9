// Package cli implements the degreetree command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/degreetree/pkg/buildinfo"
	"github.com/matzehuels/degreetree/pkg/cache"
	"github.com/matzehuels/degreetree/pkg/config"
	"github.com/matzehuels/degreetree/pkg/cutscene"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/observability"
	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	logOut     io.Writer
	configPath string
	cfg        config.Config
	cutscenes  *cutscene.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		logOut:    w,
		cfg:       config.Default(),
		cutscenes: cutscene.NewRegistry(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "degreetree lays out and explores course prerequisite trees",
		Long:         `degreetree computes tidy layouts for degree requirement trees, renders them as SVG, PNG, PDF or DOT, and serves a camera-driven viewer over HTTP or in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/degreetree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default location.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.Register(&debugHooks{logger: c.Logger})
	}
	c.Logger.Debug("loaded config",
		"path", c.configPath,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The tree store is only
// opened when source names a stored tree rather than a file.
func (c *CLI) newRunner(ctx context.Context, source string, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	runner.LayoutTTL = c.cfg.Cache.TTL.Duration

	if source != "" && !isTreeFile(source) {
		st, err := store.Open(ctx, c.cfg.StoreOptions())
		if err != nil {
			_ = ch.Close()
			return nil, err
		}
		runner.Store = st
	}
	return runner, nil
}

// closeRunner closes the runner's cache and the store it owns.
func closeRunner(ctx context.Context, r *pipeline.Runner) {
	_ = r.Close()
	if r.Store != nil {
		_ = r.Store.Close(ctx)
	}
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := c.cfg.CacheOptions()
	if opts.Backend == cache.BackendFile || opts.Backend == "" {
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

func isTreeFile(source string) bool {
	_, err := graph.FormatFromPath(source)
	return err == nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/degreetree/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// layoutOptions returns pipeline options seeded from the [layout] config
// section. Flags the user set on cmd take precedence.
func (c *CLI) layoutOptions(cmd *cobra.Command, flags pipeline.Options) pipeline.Options {
	opts := flags
	l := c.cfg.Layout
	if !cmd.Flags().Changed("width") {
		opts.Width = l.Width
	}
	if !cmd.Flags().Changed("height") {
		opts.Height = l.Height
	}
	if !cmd.Flags().Changed("margin-x") {
		opts.MarginX = l.MarginX
	}
	if !cmd.Flags().Changed("margin-y") {
		opts.MarginY = l.MarginY
	}
	opts.Camera = c.cfg.CameraConfig()
	opts.Logger = c.Logger
	return opts
}

// addLayoutFlags registers the viewport flags shared by layout and render.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "viewport height")
	cmd.Flags().Float64Var(&opts.MarginX, "margin-x", 0, "horizontal margin (default from config)")
	cmd.Flags().Float64Var(&opts.MarginY, "margin-y", 0, "vertical margin (default from config)")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// baseName derives an output base path from a source. Files lose their
// extension; tree IDs are used as is.
func baseName(source string) string {
	if isTreeFile(source) {
		return strings.TrimSuffix(source, filepath.Ext(source))
	}
	return source
}
