package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/pipeline"
	"github.com/matzehuels/setgrid/pkg/render/sink"
)

// layoutCommand creates the layout command, which colors and positions a
// solution without drawing it.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [solution]",
		Short: "Compute the layout of a grid solution",
		Long: `Compute the layout of a grid solution.

The layout command reads a solution file (text or JSON), assigns entity
colors and resolves gaps, margins and polygons. The output is a
layout.json file (same format as 'render -f json') that can be drawn
later with 'render --from-layout'.

Color assignments are cached, so a second run on the same entities
skips the annealing search. Use -o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the solution, computes the layout, and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := pipeline.Load(input)
	if err != nil {
		return fmt.Errorf("load solution %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st := beginStage(loggerFromContext(ctx), "layout")
	spinner := startSpinner(ctx, "Computing layout...")

	res, assignment, err := runner.Layout(ctx, doc, opts)
	if err != nil {
		spinner.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.stop()
	st.done("entities", len(res.Entities), "energy", res.Energy)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := sink.RenderJSON(res)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if outputPath == "-" {
		return writeOutput("", data)
	}
	if err := writeOutput(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(res.Entities), len(res.Statements), assignment.Cached)
	printNewline()
	printNextStep("Render", appName+" render --from-layout "+outputPath)

	return nil
}
