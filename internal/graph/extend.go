// internal/graph/extend.go
package graph

import (
	"fmt"
	"math"

	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Interactive graph growth.
 *
 * Dragging a connection out of a node and releasing it on empty canvas adds
 * the "next" kind of node (NextKind) and wires source -> new node. A release
 * within Threshold of an existing node's centre adds nothing: the canvas
 * treats that as a connect gesture onto the existing node.
 *
 * The new node sits slightly right of and above the drop point so the
 * cursor ends up over its input handle.
 */

var nextKinds = map[Kind]Kind{
	KindTrigger:  KindOperator,
	KindOperator: KindValue,
	KindValue:    KindAction,
	KindLogical:  KindOperator,
	KindAction:   KindTrigger,
}

// NextKind returns the kind of node created when dragging out of a node of
// kind k. Unknown kinds start over at trigger.
func NextKind(k Kind) Kind {
	if next, ok := nextKinds[k]; ok {
		return next
	}
	return KindTrigger
}

// Proximity is the drop-suppression geometry: a drop closer than Threshold
// to the centre of a Width x Height node box counts as "near".
type Proximity struct {
	Threshold float64
	Width     float64
	Height    float64
}

// DefaultProximity matches the canvas defaults.
var DefaultProximity = Proximity{Threshold: 50, Width: 200, Height: 80}

// Near reports whether p is within the threshold of any node's centre.
func (px Proximity) Near(g Graph, p Position) bool {
	for _, n := range g.nodes {
		cx := n.Position.X + px.Width/2
		cy := n.Position.Y + px.Height/2
		if math.Hypot(p.X-cx, p.Y-cy) < px.Threshold {
			return true
		}
	}
	return false
}

// Extend handles a drag released at drop from node sourceID. It returns the
// grown graph and the new node's id, or the unchanged graph and "" when the
// drop was near an existing node.
func (px Proximity) Extend(g Graph, sourceID string, drop Position) (Graph, string, error) {
	source, ok := g.Node(sourceID)
	if !ok {
		return Graph{}, "", fmt.Errorf("%w: %s", types.ErrNodeNotFound, sourceID)
	}
	if px.Near(g, drop) {
		return g, "", nil
	}

	out, id, err := AddNode(g, NextKind(source.Kind()), Position{X: drop.X + 20, Y: drop.Y - 40})
	if err != nil {
		return Graph{}, "", err
	}
	out, err = out.Connect(sourceID, id)
	if err != nil {
		return Graph{}, "", err
	}
	return out, id, nil
}

// AddNode appends an unconnected node of kind k with default data.
// Returns the new graph and the generated node id.
func AddNode(g Graph, k Kind, at Position) (Graph, string, error) {
	if !k.Valid() {
		return Graph{}, "", fmt.Errorf("%w: %q", types.ErrUnknownNodeKind, k)
	}
	id := g.NextNodeID(idPrefix(k))
	out, err := g.WithNode(Node{ID: id, Position: at, Data: DefaultData(k)})
	if err != nil {
		return Graph{}, "", err
	}
	return out, id, nil
}

// UpdateData replaces the payload of node id. The new payload must be of the
// node's current kind.
func UpdateData(g Graph, id string, d Data) (Graph, error) {
	n, ok := g.Node(id)
	if !ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	if d == nil || d.Kind() != n.Kind() {
		return Graph{}, fmt.Errorf("%w: node %s is %s", types.ErrUnknownNodeKind, id, n.Kind())
	}
	n.Data = d
	return g.ReplaceNode(n)
}

// idPrefix maps a kind to its node id prefix. Triggers use "if" to match the
// canvas's "If" step label.
func idPrefix(k Kind) string {
	if k == KindTrigger {
		return "if"
	}
	return string(k)
}
