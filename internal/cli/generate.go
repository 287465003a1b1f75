package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrove/pkg/pipeline"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "generate <content-file>",
		Short: "Generate a mind-map artifact from a content file",
		Long: `Generate a mind-map artifact from a content file.

The command reads the file (or stdin when the argument is "-"), produces a
node list with the configured model, and runs the full structural pipeline:
merge, prune, dedup, cap, balance, and color assignment. The result is a
tree-model JSON artifact ready for client-side rendering.

Requires OPENAI_API_KEY in the environment.

Examples:
  mindgrove generate lecture.txt -o lecture.json
  cat lecture.txt | mindgrove generate - --max-nodes 60
  mindgrove generate lecture.txt --config mindgrove.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveOptions(cmd, configPath, opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), args[0], resolved, output, noCache)
		},
	}

	registerTransformFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.MultiPass, "multi-pass", opts.MultiPass, "chunk long content and merge per-chunk maps")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", opts.ChunkSize, "chunk window size in characters")
	cmd.Flags().IntVar(&opts.ChunkOverlap, "chunk-overlap", opts.ChunkOverlap, "overlap between chunks in characters")
	cmd.Flags().StringVar(&opts.Model, "model", opts.Model, "generator model")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runGenerate reads the content, executes the pipeline, and writes the artifact.
func (c *CLI) runGenerate(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	content, err := readInput(input)
	if err != nil {
		return err
	}

	gen, err := c.newGenerator(opts.Model)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(gen, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Generating mind map...")
	spinner.Start()

	result, err := runner.Execute(ctx, content, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if err := writeModel(result.Model, output); err != nil {
		return err
	}
	if output == "" {
		return nil
	}

	printSuccess("Generated mind map")
	printFile(output)
	printStats(result.Stats.NodeCount, result.Stats.RemovedCount, result.CacheInfo.ArtifactHit)
	if total := result.Report.Total(); total > 0 {
		printDetail("repaired %d malformed records", total)
	}
	printNextStep("Render it", fmt.Sprintf("mindgrove render %s", output))
	return nil
}

// resolveOptions merges an optional config file with command-line flags.
// Flags explicitly set on the command line win over the file.
func resolveOptions(cmd *cobra.Command, configPath string, flagOpts pipeline.Options) (pipeline.Options, error) {
	if configPath == "" {
		return flagOpts, nil
	}
	opts, err := pipeline.LoadConfig(configPath)
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-nodes") {
		opts.MaxNodes = flagOpts.MaxNodes
	}
	if flags.Changed("max-depth") {
		opts.MaxDepth = flagOpts.MaxDepth
	}
	if flags.Changed("exclude-examples") {
		opts.ExcludeExamples = flagOpts.ExcludeExamples
	}
	if flags.Changed("dedup") {
		opts.Dedup = flagOpts.Dedup
	}
	if flags.Changed("multi-pass") {
		opts.MultiPass = flagOpts.MultiPass
	}
	if flags.Changed("chunk-size") {
		opts.ChunkSize = flagOpts.ChunkSize
	}
	if flags.Changed("chunk-overlap") {
		opts.ChunkOverlap = flagOpts.ChunkOverlap
	}
	if flags.Changed("model") {
		opts.Model = flagOpts.Model
	}
	opts.Refresh = flagOpts.Refresh
	return opts, nil
}

// readInput reads the content file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeModel serializes the artifact to path, or stdout when path is empty.
func writeModel(m treemodel.TreeModel, path string) error {
	if path == "" {
		return treemodel.Write(m, os.Stdout)
	}
	return treemodel.WriteFile(m, path)
}
