package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/pipeline"
	"github.com/matzehuels/setgrid/pkg/render/sink"
	"github.com/matzehuels/setgrid/pkg/text"
)

// renderCommand creates the render command, which runs the full pipeline
// or redraws a previously computed layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		fromLayout bool
		flags      pipelineFlags
		style      styleFlags
	)

	cmd := &cobra.Command{
		Use:   "render [solution]",
		Short: "Render a grid solution to SVG, PNG or JSON",
		Long: `Render a grid solution to SVG, PNG or JSON.

The input is a solution file (text or JSON). With --from-layout the input
is a layout.json produced by 'layout' or 'render -f json', and only the
drawing step runs.

With a single format, -o names the output file; with several it is the
base path and each format adds its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			style.apply(cmd, &opts)
			opts.SetRenderDefaults()
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if fromLayout {
				return c.runRenderLayout(cmd.Context(), args[0], opts, output)
			}
			return c.runRender(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&fromLayout, "from-layout", false, "input is a computed layout.json")
	flags.register(cmd)
	style.register(cmd)

	return cmd
}

// runRender runs the whole pipeline on a solution file.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := pipeline.Load(input)
	if err != nil {
		return fmt.Errorf("load solution %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := startSpinner(ctx, "Rendering...")

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		layout:    result.Layout,
		cacheHit:  result.Stats.ColorHit,
	})
}

// runRenderLayout draws a layout read from disk.
func (c *CLI) runRenderLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	res, err := sink.ReadJSON(data)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	// Statement lines were wrapped when the layout was computed. Only the
	// header name boxes are measured here.
	if !opts.FixedMetrics {
		m, err := text.NewFontMeasurer(float64(res.CellSize))
		if err != nil {
			return fmt.Errorf("load font metrics: %w", err)
		}
		defer m.Close()
		opts.Measurer = m
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := startSpinner(ctx, "Rendering...")

	artifacts, err := runner.Render(ctx, res, opts)
	if err != nil {
		spinner.fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     strings.TrimSuffix(input, ".layout.json"),
		output:    output,
		layout:    res,
	})
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	layout    *layout.Result
	cacheHit  bool
}

// writeArtifacts writes each artifact to its file and prints a summary.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)
	single := len(p.formats) == 1 && p.output != ""

	var paths []string
	for _, format := range p.formats {
		path := base + "." + format
		if single {
			path = p.output
		}
		if err := writeOutput(path, p.artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %d %s", len(paths), plural(len(paths), "file", "files"))
	for _, path := range paths {
		printFile(path)
	}
	if p.layout != nil {
		printStats(len(p.layout.Entities), len(p.layout.Statements), p.cacheHit)
	}
	return nil
}

// basePath derives the output path without extension. A known format
// extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
