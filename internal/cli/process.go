package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrove/pkg/pipeline"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// processCommand creates the process command for reworking existing artifacts.
func (c *CLI) processCommand() *cobra.Command {
	var (
		output     string
		configPath string
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "process <artifact.json>",
		Short: "Re-run the structural pipeline over an existing artifact",
		Long: `Re-run the structural pipeline over an existing artifact.

The artifact's nodes are validated and repaired, then pruned, deduplicated,
capped, balanced, and recolored with the given options. No generation takes
place, so this works offline and is useful for tightening maps produced
with looser limits.

Examples:
  mindgrove process lecture.json -o tight.json --max-nodes 40
  mindgrove process lecture.json --max-depth 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveOptions(cmd, configPath, opts)
			if err != nil {
				return err
			}
			return c.runProcess(cmd.Context(), args[0], resolved, output)
		},
	}

	registerTransformFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")

	return cmd
}

// runProcess loads the artifact, reprocesses it, and writes the result.
func (c *CLI) runProcess(ctx context.Context, input string, opts pipeline.Options, output string) error {
	model, err := treemodel.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load artifact %s: %w", input, err)
	}

	runner, err := c.newRunner(nil, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	opts.Logger = c.Logger

	result, err := runner.Process(ctx, model, opts)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	if err := writeModel(result.Model, output); err != nil {
		return err
	}
	if output == "" {
		return nil
	}

	printSuccess("Reprocessed %s", input)
	printFile(output)
	printStats(result.Stats.NodeCount, result.Stats.RemovedCount, false)
	if total := result.Report.Total(); total > 0 {
		printDetail("repaired %d malformed records", total)
	}
	return nil
}
