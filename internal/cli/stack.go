package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/pipeline"
	"github.com/matzehuels/setgrid/pkg/stacking"
)

// Output formats of the stack command.
const (
	stackText = "text"
	stackDOT  = "dot"
	stackSVG  = "svg"
)

// stackCommand creates the stack command, a debugging aid that shows the
// paint order of overlapping entities and their overlap graph.
func (c *CLI) stackCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "stack [solution]",
		Short: "Show the stacking order of overlapping entities",
		Long: `Show the stacking order of overlapping entities.

Entities whose outlines would be hidden by others are painted last. The
text format prints the order with the number of covered intervals; dot
and svg draw the overlap graph with Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, nil)
			if err != nil {
				return err
			}
			return c.runStack(cmd.Context(), args[0], opts, format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", stackText, "output format: text, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runStack(ctx context.Context, input string, opts pipeline.Options, format, output string) error {
	doc, err := pipeline.Load(input)
	if err != nil {
		return fmt.Errorf("load solution %s: %w", input, err)
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	lc, err := layout.Prepare(doc, opts.LayoutConfig())
	if err != nil {
		return err
	}

	loggerFromContext(ctx).Debug("prepared entities", "count", len(lc.Entities), "format", format)

	switch format {
	case stackText:
		order := stacking.Order(lc.Entities)
		t := table.New().Headers("#", "ID", "NAME", "CELLS", "COVERED")
		for i, e := range order {
			t.Row(strconv.Itoa(i+1), strconv.Itoa(e.ID), e.Name,
				strconv.Itoa(e.Cells.Len()), strconv.Itoa(stacking.CountCovered(e, order[i+1:])))
		}
		return writeOutput(output, []byte(t.Render()+"\n"))
	case stackDOT:
		return writeOutput(output, []byte(stacking.DOT(lc.Entities)))
	case stackSVG:
		svg, err := stacking.RenderSVG(ctx, stacking.DOT(lc.Entities))
		if err != nil {
			return fmt.Errorf("render overlap graph: %w", err)
		}
		return writeOutput(output, svg)
	default:
		return fmt.Errorf("unknown format %q: use text, dot or svg", format)
	}
}
