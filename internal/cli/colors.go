package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/pipeline"
)

// colorsCommand creates the colors command, which prints the color
// assignment of a solution and can search again for a better one.
func (c *CLI) colorsCommand() *cobra.Command {
	var (
		reoptimize bool
		flags      pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "colors [solution]",
		Short: "Show or improve the entity color assignment",
		Long: `Show or improve the entity color assignment.

Without flags the assignment is computed (or read from the cache) and
printed. With --reoptimize a new annealing run starts from a random seed
and the result replaces the cached assignment only if its energy is lower.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if reoptimize {
				return c.runReoptimize(cmd.Context(), args[0], opts, flags.noCache)
			}
			return c.runColors(cmd.Context(), args[0], opts, flags.noCache)
		},
	}

	cmd.Flags().BoolVar(&reoptimize, "reoptimize", false, "search again and keep a better assignment")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runColors(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	doc, err := pipeline.Load(input)
	if err != nil {
		return fmt.Errorf("load solution %s: %w", input, err)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := startSpinner(ctx, "Assigning colors...")
	_, a, err := runner.Layout(ctx, doc, opts)
	if err != nil {
		spinner.fail("Coloring failed")
		return err
	}
	spinner.stop()

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Entity", "Color").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for i, e := range a.Targets {
		t.Row(swatch(a.Colors[i]), e.Name, a.Colors[i])
	}

	fmt.Println(t.Render())
	printKeyValue("Energy", StyleNumber.Render(strconv.FormatFloat(a.Energy, 'g', 6, 64)))
	printKeyValue("Key", StyleDim.Render(a.Key))
	printStats(len(doc.Entities), len(doc.Statements), a.Cached)
	return nil
}

func (c *CLI) runReoptimize(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	doc, err := pipeline.Load(input)
	if err != nil {
		return fmt.Errorf("load solution %s: %w", input, err)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st := beginStage(loggerFromContext(ctx), "reoptimize")
	spinner := startSpinner(ctx, "Searching for a better assignment...")
	re, err := runner.Reoptimize(ctx, doc, opts)
	if err != nil {
		spinner.fail("Reoptimization failed")
		return err
	}
	spinner.stop()
	st.done("key", re.Key, "improved", re.Improved)

	if re.Improved {
		printSuccess("Found a better assignment")
	} else {
		printInfo("Kept the previous assignment")
	}
	printKeyValue("Previous", strconv.FormatFloat(re.Previous, 'g', 6, 64))
	printKeyValue("Energy", strconv.FormatFloat(re.Energy, 'g', 6, 64))
	return nil
}
