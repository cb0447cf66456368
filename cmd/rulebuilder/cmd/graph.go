package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tailscale/hujson"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/graph"
	"github.com/solatis/rulebuilder/internal/types"
)

func newGraphCmd(opts *options) *cobra.Command {
	var effectsFile string
	cmd := &cobra.Command{
		Use:   "graph <expression>",
		Short: "Build the node graph for an expression",
		Long: `Build the node graph for an expression. Unrecognised or empty expressions
produce the default flow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var effects []types.Effect
			if effectsFile != "" {
				data, err := readInput(cmd.InOrStdin(), effectsFile)
				if err != nil {
					return err
				}
				if effects, err = decodeEffects(data); err != nil {
					return err
				}
			}
			if graph.MixedConnectors(args[0]) {
				opts.logger.Warn("expression mixes AND and OR; the graph joins every clause with the first connector",
					"expression", args[0])
			}
			g := graph.Load(args[0], effects)
			opts.logger.Debug("graph built", "graph", g.String())
			return writeJSON(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().StringVar(&effectsFile, "effects", "", "JSON(C) file holding an effects array, or - for stdin")
	return cmd
}

func newExprCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "expr <graph-file|->",
		Short: "Derive the expression and effects from a node graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			g, err := graph.Decode(data)
			if err != nil {
				return err
			}

			expr := graph.FromGraph(g)
			c := types.Condition{
				Name:       graph.InferName(g),
				Expression: expr,
				Effects:    graph.EffectsFromGraph(g),
			}
			if expr == "" {
				c.Name = opts.cfg.PlaceholderName
			}

			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), c)
			case "text":
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "name:       %s\n", c.Name)
				fmt.Fprintf(w, "expression: %s\n", c.Expression)
				fmt.Fprintf(w, "readable:   %s\n", expression.Readable(c.Expression, c.Effects))
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func newExtendCmd(opts *options) *cobra.Command {
	var (
		x, y float64
		kind string
	)
	cmd := &cobra.Command{
		Use:   "extend <graph-file|-> <source-id>",
		Short: "Drop a connection from a node onto the canvas",
		Long: `Drop a connection from source-id at (x, y). Dropping on empty canvas creates
the next node in the trigger, operator, value, action sequence; dropping near
an existing node leaves the graph unchanged. With --kind a free node is added
at (x, y) instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			g, err := graph.Decode(data)
			if err != nil {
				return err
			}

			at := graph.Position{X: x, Y: y}
			var id string
			if kind != "" {
				k := graph.Kind(kind)
				if !k.Valid() {
					return fmt.Errorf("%w: %s", types.ErrUnknownNodeKind, kind)
				}
				if g, id, err = graph.AddNode(g, k, at); err != nil {
					return err
				}
				if g, err = g.Connect(args[1], id); err != nil {
					return err
				}
			} else {
				px := opts.editorConfig().Proximity
				if g, id, err = px.Extend(g, args[1], at); err != nil {
					return err
				}
			}

			if id == "" {
				opts.logger.Info("drop landed near an existing node; graph unchanged")
			} else {
				opts.logger.Debug("node created", "id", id)
			}
			return writeJSON(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "drop x coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "drop y coordinate")
	cmd.Flags().StringVar(&kind, "kind", "", "add a node of this kind instead of the next in sequence")
	return cmd
}

// decodeEffects reads an effects array, accepting JSONC.
func decodeEffects(data []byte) ([]types.Effect, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("effects document: %w", err)
	}
	var effects []types.Effect
	if err := json.Unmarshal(std, &effects); err != nil {
		return nil, fmt.Errorf("effects document: %w", err)
	}
	return effects, nil
}
