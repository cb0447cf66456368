package cmd

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/seed"
	"github.com/solatis/rulebuilder/internal/store"
	"github.com/solatis/rulebuilder/internal/types"
)

func newListCmd(opts *options) *cobra.Command {
	var (
		conditionsFile string
		filter         store.Filter
		output         string
		exportFile     string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conditions with dashboard totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(conditionsFile)
			if err != nil {
				return err
			}
			found := st.Find(filter)
			stats := store.Summarize(found)
			opts.logger.Debug("conditions listed", "total", st.Len(), "matched", len(found))

			if exportFile != "" {
				if err := exportConditions(exportFile, found); err != nil {
					return err
				}
				opts.logger.Info("conditions exported", "path", exportFile, "count", len(found))
			}

			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"conditions": found,
					"stats":      stats,
				})
			case "table":
				tw := newTable(table.Row{"ID", "Name", "Field", "Value", "Effects"})
				tw.SetColumnConfigs([]table.ColumnConfig{
					{Number: 2, WidthMax: 40},
					{Number: 4, WidthMax: 40},
				})
				for _, c := range found {
					sum := expression.Summarize(c.Expression)
					tw.AppendRow(table.Row{c.ID, c.Name, sum.Field, sum.Value, len(c.Effects)})
				}
				tw.AppendFooter(table.Row{
					"",
					english.Plural(stats.Conditions, "condition", ""),
					"",
					english.Plural(stats.TargetFields, "target field", ""),
					stats.Effects,
				})
				fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVar(&conditionsFile, "conditions", "", "JSON(C) conditions file (default: built-in samples)")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "case-insensitive search over name, field and value")
	cmd.Flags().StringVar(&filter.TriggerField, "if-field", "", "only conditions whose summary field is this")
	cmd.Flags().StringVar(&filter.TargetField, "target-field", "", "only conditions with an effect on this field")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	cmd.Flags().StringVar(&exportFile, "export", "", "also write the matched conditions to this file")
	return cmd
}

// exportConditions writes cs as a conditions file that --conditions reads
// back. The file is replaced atomically.
func exportConditions(path string, cs []types.Condition) error {
	var buf bytes.Buffer
	if err := writeJSON(&buf, cs); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// openStore loads a conditions file, or the built-in samples when path is
// empty.
func openStore(path string) (*store.Store, error) {
	var (
		cs  []types.Condition
		err error
	)
	if path == "" {
		cs, err = seed.Conditions()
	} else {
		cs, err = seed.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}
	return store.New(cs...), nil
}
