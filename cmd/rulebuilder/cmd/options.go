package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/solatis/rulebuilder/internal/catalog"
)

func newOptionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "options [field]",
		Short: "Show fields and their predefined values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				field := args[0]
				if !catalog.HasOptions(field) {
					opts.logger.Info("field has no predefined values; any text is accepted", "field", field)
					return nil
				}
				for _, v := range catalog.Options(field) {
					fmt.Fprintln(w, v)
				}
				return nil
			}

			tw := newTable(table.Row{"Field", "Label", "Trigger", "Target", "Values"})
			seen := map[string]bool{}
			add := func(field string) {
				if seen[field] {
					return
				}
				seen[field] = true
				tw.AppendRow(table.Row{
					field,
					catalog.FieldLabel(field),
					mark(hasField(catalog.TriggerFields, field)),
					mark(hasField(catalog.TargetFields, field)),
					len(catalog.Options(field)),
				})
			}
			for _, f := range catalog.TriggerFields {
				add(f.Value)
			}
			for _, f := range catalog.TargetFields {
				add(f.Value)
			}
			for _, f := range catalog.OptionFields() {
				add(catalog.CustomFieldsPrefix + f)
			}
			fmt.Fprintln(w, tw.Render())
			return nil
		},
	}
}

func hasField(fields []catalog.Field, field string) bool {
	for _, f := range fields {
		if f.Value == field {
			return true
		}
	}
	return false
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return ""
}
