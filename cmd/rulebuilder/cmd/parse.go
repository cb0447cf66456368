package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

type parseOutput struct {
	Kind       string                 `json:"kind"`
	Clauses    []types.Clause         `json:"clauses"`
	Connectors []expression.Connector `json:"connectors"`
	Summary    expression.Summary     `json:"summary"`
}

func newParseCmd(opts *options) *cobra.Command {
	var (
		output string
		chain  bool
	)
	cmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse an expression into clauses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := args[0]
			var (
				l   expression.ClauseList
				err error
			)
			if chain {
				l, err = expression.ParseChain(expr)
			} else {
				l, err = expression.ParseStrict(expr)
			}
			if err != nil {
				opts.logger.Debug("expression not recognised", "expression", expr, "error", err)
				l = expression.UnknownList()
			}

			out := parseOutput{
				Kind:       l.Kind.String(),
				Clauses:    l.Clauses,
				Connectors: l.Connectors,
				Summary:    expression.Summarize(expr),
			}
			if out.Connectors == nil {
				out.Connectors = []expression.Connector{}
			}

			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), out)
			case "table":
				tw := newTable(table.Row{"#", "Connector", "Field", "Operator", "Value"})
				for i, t := range l.Terms() {
					tw.AppendRow(table.Row{i + 1, t.Connector, t.Clause.Field, t.Clause.Operator, t.Clause.Value})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "kind: %s\n%s\n", out.Kind, tw.Render())
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	cmd.Flags().BoolVar(&chain, "chain", false, "accept flat AND/OR chains of any length")
	return cmd
}
