package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	setio "github.com/matzehuels/setgrid/pkg/io"
	"github.com/matzehuels/setgrid/pkg/pipeline"
)

// convertCommand rewrites a solution between the text and JSON formats.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a solution between text and JSON",
		Long: `Convert reads a solution file and writes it in the format named by the
output extension: JSON for .json, solution text otherwise.`,
		Example: `  setgrid convert animals.txt animals.json`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pipeline.Load(args[0])
			if err != nil {
				return fmt.Errorf("load solution %s: %w", args[0], err)
			}
			if err := setio.Export(doc, args[1]); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("converted", "entities", len(doc.Entities), "statements", len(doc.Statements))
			printSuccess("Converted %s", args[0])
			printFile(args[1])
			return nil
		},
	}
}
