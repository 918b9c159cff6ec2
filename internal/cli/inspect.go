package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/pipeline"
	"github.com/matzehuels/setgrid/pkg/render/sink"
)

// inspectCommand creates the inspect command, an interactive browser for a
// computed layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "inspect [solution|layout.json]",
		Short: "Browse the entities and statements of a layout",
		Long: `Browse the entities and statements of a layout.

The input is either a solution file, which is laid out first, or a
layout.json written by 'layout'. Files ending in .layout.json are read
as layouts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			res, err := c.loadResult(cmd.Context(), args[0], opts, flags.noCache)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewInspectModel(res), tea.WithContext(cmd.Context()), tea.WithOutput(os.Stderr))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// loadResult reads a layout file or computes the layout of a solution.
func (c *CLI) loadResult(ctx context.Context, input string, opts pipeline.Options, noCache bool) (*layout.Result, error) {
	if strings.HasSuffix(input, ".layout.json") {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("load layout %s: %w", input, err)
		}
		return sink.ReadJSON(data)
	}

	doc, err := pipeline.Load(input)
	if err != nil {
		return nil, fmt.Errorf("load solution %s: %w", input, err)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, _, err := runner.Layout(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	return res, nil
}
