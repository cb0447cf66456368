package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/rulebuilder/internal/app"
	"github.com/solatis/rulebuilder/internal/editor"
	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/graph"
	"github.com/solatis/rulebuilder/internal/sentence"
	"github.com/solatis/rulebuilder/internal/types"
)

type editFlags struct {
	conditionsFile string
	mode           string
	name           string
	clauses        []string
	connector      string
	target         string
	allow          []string
	mandatory      bool
	hide           bool
	output         string
}

func newEditCmd(opts *options) *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "edit [condition-id]",
		Short: "Create or edit a condition and print the saved result",
		Long: `Open the editor on a stored condition (or a new one when no id is given),
apply the requested changes in canvas or sentence mode, save and print the
stored condition.

Clauses are given as expression text, e.g. --clause "user.role == admin".
Canvas mode edits the first clause chain and the first action; sentence mode
replaces all sentences.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(f.conditionsFile)
			if err != nil {
				return err
			}
			shell := app.New(st, opts.editorConfig(), opts.logger)

			var sess *editor.Session
			if len(args) == 1 {
				if sess, err = shell.Edit(types.ConditionID(args[0])); err != nil {
					return err
				}
			} else {
				sess = shell.Create()
			}

			if err := applyEdits(sess, f); err != nil {
				shell.Back()
				return err
			}

			saved, err := shell.Save()
			if err != nil {
				return err
			}
			opts.logger.Info("condition saved", "condition_id", saved.ID, "conditions", st.Len())
			return printCondition(cmd, saved, f.output)
		},
	}
	cmd.Flags().StringVar(&f.conditionsFile, "conditions", "", "JSON(C) conditions file (default: built-in samples)")
	cmd.Flags().StringVar(&f.mode, "mode", string(editor.ModeSentence), "editing mode (canvas, sentence)")
	cmd.Flags().StringVar(&f.name, "name", "", "condition name (default: inferred)")
	cmd.Flags().StringArrayVar(&f.clauses, "clause", nil, "clause text, repeatable")
	cmd.Flags().StringVar(&f.connector, "connector", string(expression.And), "connector joining clauses (AND, OR)")
	cmd.Flags().StringVar(&f.target, "target", "", "target field of the first effect")
	cmd.Flags().StringSliceVar(&f.allow, "allow", nil, "allowed values of the first effect")
	cmd.Flags().BoolVar(&f.mandatory, "mandatory", false, "mark the first effect mandatory")
	cmd.Flags().BoolVar(&f.hide, "hide", false, "hide the first effect's target field")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func applyEdits(sess *editor.Session, f editFlags) error {
	mode := editor.Mode(f.mode)
	if err := sess.SetMode(mode); err != nil {
		return err
	}
	if f.name != "" {
		sess.SetName(f.name)
	}

	clauses, err := parseClauses(f.clauses)
	if err != nil {
		return err
	}
	conn := expression.Connector(f.connector)
	if conn != expression.And && conn != expression.Or {
		return fmt.Errorf("unknown connector %q", f.connector)
	}

	if mode == editor.ModeCanvas {
		return applyCanvasEdits(sess, clauses, f)
	}
	return sess.EditSentences(func(m *sentence.Model) error {
		if len(clauses) > 0 {
			for len(m.Sentences) > 1 {
				if err := m.RemoveSentence(m.Sentences[len(m.Sentences)-1].ID); err != nil {
					return err
				}
			}
			for i, c := range clauses {
				id := m.Sentences[0].ID
				if i > 0 {
					id = m.AddSentence()
				}
				err := m.UpdateSentence(id, func(s *sentence.Sentence) {
					s.Field, s.Operator, s.Value = c.Field, c.Operator, c.Value
					if i > 0 {
						s.Connector = conn
					}
				})
				if err != nil {
					return err
				}
			}
		}
		if len(m.Effects) == 0 {
			m.AddEffect()
		}
		if err := m.UpdateEffect(0, func(e *types.Effect) { editEffect(e, f) }); err != nil {
			return err
		}
		for _, v := range f.allow {
			if err := m.AddAllowedValue(0, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyCanvasEdits(sess *editor.Session, clauses []types.Clause, f editFlags) error {
	if len(clauses) > 1 {
		return fmt.Errorf("%w: canvas mode edits a single clause", types.ErrWrongMode)
	}
	g := sess.Graph()
	if len(clauses) == 1 {
		c := clauses[0]
		for _, d := range []graph.Data{
			graph.TriggerData{Field: c.Field},
			graph.OperatorData{Operator: c.Operator},
			graph.ValueData{Value: c.Value},
		} {
			n, ok := g.FirstOfKind(d.Kind())
			if !ok {
				return fmt.Errorf("%w: no %s node", types.ErrNodeNotFound, d.Kind())
			}
			if err := sess.SetNodeData(n.ID, d); err != nil {
				return err
			}
		}
	}

	n, ok := g.FirstOfKind(graph.KindAction)
	if !ok {
		if f.target == "" && len(f.allow) == 0 && !f.mandatory && !f.hide {
			return nil
		}
		return fmt.Errorf("%w: no action node", types.ErrNodeNotFound)
	}
	a, _ := n.Data.(graph.ActionData)
	e := a.Effect()
	editEffect(&e, f)
	e.AllowedValues = append(e.AllowedValues, f.allow...)
	return sess.SetNodeData(n.ID, graph.ActionFromEffect(e))
}

func editEffect(e *types.Effect, f editFlags) {
	if f.target != "" {
		e.Fields = []string{f.target}
	}
	if f.mandatory {
		e.Mandatory = true
	}
	if f.hide {
		e.Show = false
	}
}

// parseClauses reads each argument as one complete clause.
func parseClauses(args []string) ([]types.Clause, error) {
	out := make([]types.Clause, 0, len(args))
	for _, a := range args {
		l, err := expression.ParseStrict(a)
		if err != nil {
			return nil, fmt.Errorf("clause %q: %w", a, err)
		}
		if l.Kind != expression.KindSimple || !l.Clauses[0].Complete() {
			return nil, fmt.Errorf("clause %q: want a single field op value comparison", a)
		}
		out = append(out, l.Clauses[0])
	}
	return out, nil
}

func printCondition(cmd *cobra.Command, c types.Condition, output string) error {
	w := cmd.OutOrStdout()
	switch output {
	case "json":
		return writeJSON(w, c)
	case "text":
		fmt.Fprintf(w, "id:         %s\n", c.ID)
		fmt.Fprintf(w, "name:       %s\n", c.Name)
		fmt.Fprintf(w, "expression: %s\n", c.Expression)
		fmt.Fprintf(w, "readable:   %s\n", expression.Readable(c.Expression, c.Effects))
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
