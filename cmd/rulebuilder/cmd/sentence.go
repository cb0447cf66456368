package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/solatis/rulebuilder/internal/sentence"
)

func newSentenceCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sentence <expression>",
		Short: "Show an expression in sentence form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sentences := sentence.Parse(args[0])
			regenerated := sentence.Generate(sentences)
			opts.logger.Debug("sentences parsed", "count", len(sentences))

			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"sentences":  sentences,
					"expression": regenerated,
				})
			case "table":
				tw := newTable(table.Row{"ID", "", "Field", "Operator", "Value"})
				for _, s := range sentences {
					conn := "IF"
					if s.Connector != "" {
						conn = string(s.Connector)
					}
					tw.AppendRow(table.Row{s.ID, conn, s.Field, s.Operator, s.Value})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\nexpression: %s\n", tw.Render(), regenerated)
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	return cmd
}
