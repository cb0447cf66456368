// internal/graph/graph.go
package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Graph store.
 *
 * Nodes and edges live in insertion-ordered slices with an id -> index map
 * for lookup. A Graph is a value: every mutation returns a new Graph and
 * leaves the receiver untouched, so a test can hold the before and after
 * states side by side and the canvas can diff them.
 *
 * Insertion order matters: "first node of a kind" is the documented
 * tie-break when a graph without a logical node holds more than one trigger,
 * operator or value node.
 *
 * Edges may point at ids that are no longer present (the canvas deletes a
 * node and its edges in separate steps). Readers treat such edges as broken
 * chains rather than errors.
 */

// Graph is an immutable node/edge collection.
type Graph struct {
	nodes     []Node
	edges     []Edge
	nodeIndex map[string]int
	edgeIndex map[string]int
}

// New builds a graph from node and edge records.
// Returns ErrDuplicateNodeID / ErrDuplicateEdgeID for repeated ids.
func New(nodes []Node, edges []Edge) (Graph, error) {
	g := Graph{
		nodes:     make([]Node, 0, len(nodes)),
		edges:     make([]Edge, 0, len(edges)),
		nodeIndex: make(map[string]int, len(nodes)),
		edgeIndex: make(map[string]int, len(edges)),
	}
	for _, n := range nodes {
		if _, ok := g.nodeIndex[n.ID]; ok {
			return Graph{}, fmt.Errorf("%w: %s", types.ErrDuplicateNodeID, n.ID)
		}
		g.nodeIndex[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	for _, e := range edges {
		if _, ok := g.edgeIndex[e.ID]; ok {
			return Graph{}, fmt.Errorf("%w: %s", types.ErrDuplicateEdgeID, e.ID)
		}
		g.edgeIndex[e.ID] = len(g.edges)
		g.edges = append(g.edges, e)
	}
	return g, nil
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool {
	return len(g.nodes) == 0
}

// Len returns the node count.
func (g Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns a copy of the nodes in insertion order.
func (g Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Edges returns a copy of the edges in insertion order.
func (g Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Node looks up a node by id.
func (g Graph) Node(id string) (Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge looks up an edge by id.
func (g Graph) Edge(id string) (Edge, bool) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// NodesOfKind returns the nodes of kind k in insertion order.
func (g Graph) NodesOfKind(k Kind) []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Kind() == k {
			out = append(out, n)
		}
	}
	return out
}

// FirstOfKind returns the first node of kind k.
func (g Graph) FirstOfKind(k Kind) (Node, bool) {
	for _, n := range g.nodes {
		if n.Kind() == k {
			return n, true
		}
	}
	return Node{}, false
}

// Outgoing returns the edges leaving node id, in insertion order.
func (g Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// NextTarget follows the first outgoing edge of id that reaches an existing
// node of kind k.
func (g Graph) NextTarget(id string, k Kind) (Node, bool) {
	for _, e := range g.Outgoing(id) {
		if n, ok := g.Node(e.Target); ok && n.Kind() == k {
			return n, true
		}
	}
	return Node{}, false
}

// WithNode returns a graph with n appended.
func (g Graph) WithNode(n Node) (Graph, error) {
	if _, ok := g.nodeIndex[n.ID]; ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrDuplicateNodeID, n.ID)
	}
	out := g.clone()
	out.nodeIndex[n.ID] = len(out.nodes)
	out.nodes = append(out.nodes, n)
	return out, nil
}

// ReplaceNode returns a graph with the node of the same id replaced by n.
func (g Graph) ReplaceNode(n Node) (Graph, error) {
	i, ok := g.nodeIndex[n.ID]
	if !ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrNodeNotFound, n.ID)
	}
	out := g.clone()
	out.nodes[i] = n
	return out, nil
}

// RemoveNode returns a graph without node id and without its incident edges.
func (g Graph) RemoveNode(id string) (Graph, error) {
	if _, ok := g.nodeIndex[id]; !ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	nodes := make([]Node, 0, len(g.nodes)-1)
	for _, n := range g.nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	return New(nodes, edges)
}

// WithEdge returns a graph with e appended.
func (g Graph) WithEdge(e Edge) (Graph, error) {
	if _, ok := g.edgeIndex[e.ID]; ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrDuplicateEdgeID, e.ID)
	}
	out := g.clone()
	out.edgeIndex[e.ID] = len(out.edges)
	out.edges = append(out.edges, e)
	return out, nil
}

// RemoveEdge returns a graph without edge id.
func (g Graph) RemoveEdge(id string) (Graph, error) {
	if _, ok := g.edgeIndex[id]; !ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrEdgeNotFound, id)
	}
	edges := make([]Edge, 0, len(g.edges)-1)
	for _, e := range g.edges {
		if e.ID != id {
			edges = append(edges, e)
		}
	}
	return New(g.nodes, edges)
}

// Connect returns a graph with an edge source -> target. Both nodes must exist.
func (g Graph) Connect(source, target string) (Graph, error) {
	if _, ok := g.nodeIndex[source]; !ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrNodeNotFound, source)
	}
	if _, ok := g.nodeIndex[target]; !ok {
		return Graph{}, fmt.Errorf("%w: %s", types.ErrNodeNotFound, target)
	}
	return g.WithEdge(Edge{ID: g.NextEdgeID(source, target), Source: source, Target: target})
}

// NextNodeID returns "<prefix>-<n>" with the smallest n >= 1 not already used.
func (g Graph) NextNodeID(prefix string) string {
	for n := 1; ; n++ {
		id := prefix + "-" + strconv.Itoa(n)
		if _, ok := g.nodeIndex[id]; !ok {
			return id
		}
	}
}

// NextEdgeID returns an unused edge id for source -> target.
func (g Graph) NextEdgeID(source, target string) string {
	base := source + "->" + target
	if _, ok := g.edgeIndex[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		id := base + "#" + strconv.Itoa(n)
		if _, ok := g.edgeIndex[id]; !ok {
			return id
		}
	}
}

// String renders a compact debug form: kinds in order, then edges.
func (g Graph) String() string {
	var b strings.Builder
	for i, n := range g.nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s(%s)", n.ID, n.Kind())
	}
	for _, e := range g.edges {
		fmt.Fprintf(&b, " %s->%s", e.Source, e.Target)
	}
	return b.String()
}

func (g Graph) clone() Graph {
	out := Graph{
		nodes:     append(make([]Node, 0, len(g.nodes)+1), g.nodes...),
		edges:     append(make([]Edge, 0, len(g.edges)+1), g.edges...),
		nodeIndex: make(map[string]int, len(g.nodeIndex)+1),
		edgeIndex: make(map[string]int, len(g.edgeIndex)+1),
	}
	for k, v := range g.nodeIndex {
		out.nodeIndex[k] = v
	}
	for k, v := range g.edgeIndex {
		out.edgeIndex[k] = v
	}
	return out
}
