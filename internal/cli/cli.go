// Package cli implements the mindgrove command-line interface.
//
// This package provides commands for generating mind maps from content
// files, reprocessing and rendering existing artifacts, browsing a map in
// the terminal, and managing the local cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Turn a content file into a mind-map artifact
//   - process: Re-run the structural pipeline over an existing artifact
//   - render: Produce DOT, SVG, or PNG output from an artifact
//   - view: Browse an artifact interactively in the terminal
//   - cache: Manage the local artifact cache
//   - serve: Run the HTTP API server
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrove/pkg/buildinfo"
	"github.com/matzehuels/mindgrove/pkg/cache"
	"github.com/matzehuels/mindgrove/pkg/generate"
	"github.com/matzehuels/mindgrove/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "mindgrove"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

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
		Use:          appName,
		Short:        "Mindgrove turns long-form content into mind maps",
		Long:         `Mindgrove is a CLI tool for turning long-form educational content into clean, balanced mind-map trees, ready for client-side rendering.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.processCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
// The generator may be nil for commands that never generate (process, render).
func (c *CLI) newRunner(gen generate.Generator, noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(gen, cch, nil, c.Logger), nil
}

// newGenerator builds the OpenAI-backed generator from the environment.
func (c *CLI) newGenerator(model string) (generate.Generator, error) {
	return generate.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), model, c.Logger)
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mindgrove/).
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

// loadOptions builds pipeline options from an optional config file.
func loadOptions(configPath string) (pipeline.Options, error) {
	if configPath == "" {
		return pipeline.DefaultOptions(), nil
	}
	return pipeline.LoadConfig(configPath)
}

// registerTransformFlags binds the transform-stage flags shared by
// generate and process.
func registerTransformFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", opts.MaxNodes, "maximum nodes in the final map")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "maximum tree depth (-1 for unlimited)")
	cmd.Flags().BoolVar(&opts.ExcludeExamples, "exclude-examples", opts.ExcludeExamples, "drop example/illustration nodes")
	cmd.Flags().BoolVar(&opts.Dedup, "dedup", opts.Dedup, "drop duplicate sibling branches")
}
