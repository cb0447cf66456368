// internal/graph/translate.go
package graph

import (
	"strconv"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Expression <-> graph translation.
 *
 * Text to graph: each clause becomes a trigger -> operator -> value chain.
 * One clause wires its value node straight to every action node. Two or
 * more clauses wire every value node into a single logical node, which then
 * fans out to the action nodes. The logical node carries the first
 * connector; a chain with mixed AND/OR is normalised to that first
 * connector because the graph has room for exactly one.
 *
 * Graph to text:
 *   - no logical node: the first trigger, operator and value in insertion
 *     order form the clause, wherever they sit on the canvas.
 *   - logical node present: every trigger is followed along its edges
 *     (trigger -> operator -> value); broken chains are skipped. The first
 *     logical node supplies the connector.
 *
 * Blank fields (empty or "none") make a clause incomplete; an incomplete
 * graph produces "" rather than an error.
 */

// Layout constants for generated graphs.
const (
	triggerX  = 50
	operatorX = 280
	valueX    = 480
	actionX   = 700
	rowY      = 150
	actionY0  = 100
	rowStep   = 120
)

// Multi-clause graphs push actions right to make room for the logical node.
const (
	logicalX     = 700
	chainActionX = 920
)

// ToGraph converts an expression and its effects to a graph. Expressions
// that do not parse yield an empty graph; the caller substitutes DefaultFlow.
func ToGraph(expr string, effects []types.Effect) Graph {
	l, err := expression.ParseChain(expr)
	if err != nil {
		g, _ := New(nil, nil)
		return g
	}

	var nodes []Node
	var edges []Edge
	link := func(source, target string) {
		edges = append(edges, Edge{ID: source + "->" + target, Source: source, Target: target})
	}

	valueIDs := make([]string, 0, len(l.Clauses))
	for i, c := range l.Clauses {
		n := strconv.Itoa(i + 1)
		y := float64(rowY)
		if len(l.Clauses) > 1 {
			y = float64(actionY0 + i*rowStep)
		}
		trigger := Node{ID: "if-" + n, Position: Position{X: triggerX, Y: y}, Data: TriggerData{Field: c.Field}}
		operator := Node{ID: "operator-" + n, Position: Position{X: operatorX, Y: y}, Data: OperatorData{Operator: c.Operator}}
		value := Node{ID: "value-" + n, Position: Position{X: valueX, Y: y}, Data: ValueData{Value: c.Value}}
		nodes = append(nodes, trigger, operator, value)
		link(trigger.ID, operator.ID)
		link(operator.ID, value.ID)
		valueIDs = append(valueIDs, value.ID)
	}

	fanOut := valueIDs[0]
	ax := float64(actionX)
	if len(l.Clauses) > 1 {
		conn := expression.And
		if len(l.Connectors) > 0 {
			conn = l.Connectors[0].OrDefault()
		}
		mid := float64(actionY0) + float64(len(l.Clauses)-1)*rowStep/2
		logical := Node{ID: "logical-1", Position: Position{X: logicalX, Y: mid}, Data: LogicalData{Connector: conn}}
		nodes = append(nodes, logical)
		for _, id := range valueIDs {
			link(id, logical.ID)
		}
		fanOut = logical.ID
		ax = chainActionX
	}

	for i, e := range effects {
		action := Node{
			ID:       "action-" + strconv.Itoa(i+1),
			Position: Position{X: ax, Y: float64(actionY0 + i*rowStep)},
			Data:     ActionFromEffect(e),
		}
		nodes = append(nodes, action)
		link(fanOut, action.ID)
	}

	g, err := New(nodes, edges)
	if err != nil {
		// ids above are generated from distinct indices
		panic(err)
	}
	return g
}

// MixedConnectors reports whether expr chains clauses with both AND and OR.
// ToGraph joins every clause through one logical node carrying the first
// connector, so such a chain changes meaning on the canvas.
func MixedConnectors(expr string) bool {
	l, err := expression.ParseChain(expr)
	if err != nil {
		return false
	}
	for _, c := range l.Connectors {
		if c.OrDefault() != l.Connectors[0].OrDefault() {
			return true
		}
	}
	return false
}

// FromGraph reconstructs the expression text a graph represents.
// Returns "" when no complete clause can be extracted.
func FromGraph(g Graph) string {
	logical, ok := g.FirstOfKind(KindLogical)
	if !ok {
		c, ok := firstClause(g)
		if !ok {
			return ""
		}
		return expression.FormatClause(c)
	}

	conn := expression.And
	if d, ok := logical.Data.(LogicalData); ok {
		conn = d.Connector.OrDefault()
	}
	return expression.GenerateClauses(conn, Clauses(g)...)
}

// Clauses returns the complete trigger -> operator -> value chains of g in
// trigger insertion order.
func Clauses(g Graph) []types.Clause {
	var out []types.Clause
	for _, trigger := range g.NodesOfKind(KindTrigger) {
		operator, ok := g.NextTarget(trigger.ID, KindOperator)
		if !ok {
			continue
		}
		value, ok := g.NextTarget(operator.ID, KindValue)
		if !ok {
			continue
		}
		c, ok := clauseOf(trigger, operator, value)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// firstClause builds a clause from the first trigger, operator and value
// nodes in insertion order, ignoring edges.
func firstClause(g Graph) (types.Clause, bool) {
	trigger, ok := g.FirstOfKind(KindTrigger)
	if !ok {
		return types.Clause{}, false
	}
	operator, ok := g.FirstOfKind(KindOperator)
	if !ok {
		return types.Clause{}, false
	}
	value, ok := g.FirstOfKind(KindValue)
	if !ok {
		return types.Clause{}, false
	}
	return clauseOf(trigger, operator, value)
}

func clauseOf(trigger, operator, value Node) (types.Clause, bool) {
	t, _ := trigger.Data.(TriggerData)
	o, _ := operator.Data.(OperatorData)
	v, _ := value.Data.(ValueData)
	if types.Blank(t.Field) || types.Blank(string(o.Operator)) || types.Blank(v.Value) {
		return types.Clause{}, false
	}
	return types.Clause{Field: t.Field, Operator: o.Operator, Value: v.Value}, true
}

// EffectsFromGraph returns one Effect per action node with a non-blank field,
// in insertion order.
func EffectsFromGraph(g Graph) []types.Effect {
	var out []types.Effect
	for _, n := range g.NodesOfKind(KindAction) {
		a, ok := n.Data.(ActionData)
		if !ok || types.Blank(a.Field) {
			continue
		}
		out = append(out, a.Effect())
	}
	return out
}

// DefaultFlow is the starter graph shown when no condition is being edited:
// one trigger, operator, value and action wired in a straight line.
func DefaultFlow() Graph {
	nodes := []Node{
		{ID: "if-default", Position: Position{X: triggerX, Y: rowY}, Data: DefaultData(KindTrigger)},
		{ID: "operator-default", Position: Position{X: operatorX, Y: rowY}, Data: DefaultData(KindOperator)},
		{ID: "value-default", Position: Position{X: valueX, Y: rowY}, Data: DefaultData(KindValue)},
		{ID: "action-default", Position: Position{X: actionX, Y: rowY}, Data: DefaultData(KindAction)},
	}
	edges := []Edge{
		{ID: "if-operator", Source: "if-default", Target: "operator-default"},
		{ID: "operator-value", Source: "operator-default", Target: "value-default"},
		{ID: "value-action", Source: "value-default", Target: "action-default"},
	}
	g, err := New(nodes, edges)
	if err != nil {
		panic(err)
	}
	return g
}

// Load builds the graph for an expression, falling back to DefaultFlow when
// the expression yields no nodes.
func Load(expr string, effects []types.Effect) Graph {
	g := ToGraph(expr, effects)
	if g.Empty() {
		return DefaultFlow()
	}
	return g
}
