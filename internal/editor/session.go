// Package editor holds one condition editing session: the canvas graph, the
// sentence form, and the shared condition record both of them write to.
package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/solatis/rulebuilder/internal/debounce"
	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/graph"
	"github.com/solatis/rulebuilder/internal/sentence"
	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Editing session.
 *
 * Exactly one of the two representations is live at a time:
 *
 *   canvas    graph edits are applied and synced into the shared record
 *             immediately.
 *   sentence  sentence edits reach the shared record through the debounced
 *             sentence.Editor. A non-empty commit also rebuilds the graph.
 *
 * Switching modes first flushes any pending sentence commit, then
 * re-derives the incoming representation from the shared record's
 * expression and effects. Neither side ever reads the other's cached state.
 *
 * Lock order: the sentence editor's commit callback takes s.mu, so s.mu is
 * never held while flushing.
 */

// Mode selects the live editing representation.
type Mode string

const (
	ModeCanvas   Mode = "canvas"
	ModeSentence Mode = "sentence"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCanvas || m == ModeSentence
}

// Config tunes a session.
type Config struct {
	Placeholder string
	Proximity   graph.Proximity
	Wait        time.Duration
	Clock       debounce.Clock
}

// DefaultConfig returns the stock editor settings.
func DefaultConfig() Config {
	return Config{
		Placeholder: sentence.DefaultPlaceholder,
		Proximity:   graph.DefaultProximity,
		Wait:        sentence.DefaultWait,
	}
}

// Session edits one condition.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	id      types.ConditionID
	isNew   bool
	name    string
	mode    Mode
	graph   graph.Graph
	current types.Condition

	sentences *sentence.Editor
}

// Open starts a session. A nil source opens a new, unnamed condition on the
// default flow. A source whose expression mixes AND and OR opens in sentence
// mode, and SetMode refuses the canvas until the connectors agree.
func Open(src *types.Condition, cfg Config) *Session {
	if cfg.Placeholder == "" {
		cfg.Placeholder = sentence.DefaultPlaceholder
	}
	if cfg.Proximity == (graph.Proximity{}) {
		cfg.Proximity = graph.DefaultProximity
	}

	s := &Session{cfg: cfg, mode: ModeCanvas}
	if src == nil {
		s.isNew = true
		s.name = cfg.Placeholder
		s.graph = graph.DefaultFlow()
		s.syncFromGraph()
	} else {
		s.id = src.ID
		s.name = src.Name
		if s.name == "" {
			s.name = cfg.Placeholder
		}
		s.current = src.Clone()
		s.graph = graph.Load(src.Expression, src.Effects)
	}

	s.sentences = sentence.NewEditor(sentence.Config{
		Wait:        cfg.Wait,
		Clock:       cfg.Clock,
		Placeholder: cfg.Placeholder,
	}, s.onSentenceCommit)

	// The canvas would collapse a mixed AND/OR chain; edit it as sentences.
	if src != nil && graph.MixedConnectors(src.Expression) {
		c := s.current.Clone()
		c.ID, c.Name = s.id, s.name
		s.mode = ModeSentence
		s.sentences.Load(&c)
	}
	return s
}

// ID returns the id of the condition being edited, "" for a new one.
func (s *Session) ID() types.ConditionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// IsNew reports whether the session was opened without a source condition.
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isNew
}

// Mode returns the live mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Name returns the user-visible name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetName renames the condition.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Graph returns the canvas graph.
func (s *Session) Graph() graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Sentences returns the sentence form.
func (s *Session) Sentences() sentence.Model {
	return s.sentences.Model()
}

// Condition returns the shared record as last synced.
func (s *Session) Condition() types.Condition {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.current.Clone()
	c.ID = s.id
	c.Name = s.name
	return c
}

// UpdateGraph applies fn to the canvas graph and syncs the result into the
// shared record. Returns types.ErrWrongMode outside canvas mode.
func (s *Session) UpdateGraph(fn func(graph.Graph) (graph.Graph, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeCanvas {
		return fmt.Errorf("%w: graph edit in %s mode", types.ErrWrongMode, s.mode)
	}
	g, err := fn(s.graph)
	if err != nil {
		return err
	}
	s.graph = g
	s.syncFromGraph()
	return nil
}

// Extend grows the graph from sourceID by a drag released at drop. Returns
// the new node id, or "" when the drop was too close to an existing node.
func (s *Session) Extend(sourceID string, drop graph.Position) (string, error) {
	var id string
	err := s.UpdateGraph(func(g graph.Graph) (graph.Graph, error) {
		out, newID, err := s.cfg.Proximity.Extend(g, sourceID, drop)
		id = newID
		return out, err
	})
	return id, err
}

// AddNode adds an unconnected node with default data.
func (s *Session) AddNode(k graph.Kind, at graph.Position) (string, error) {
	var id string
	err := s.UpdateGraph(func(g graph.Graph) (graph.Graph, error) {
		out, newID, err := graph.AddNode(g, k, at)
		id = newID
		return out, err
	})
	return id, err
}

// Connect draws an edge between two existing nodes.
func (s *Session) Connect(source, target string) error {
	return s.UpdateGraph(func(g graph.Graph) (graph.Graph, error) {
		return g.Connect(source, target)
	})
}

// SetNodeData replaces a node's payload.
func (s *Session) SetNodeData(id string, d graph.Data) error {
	return s.UpdateGraph(func(g graph.Graph) (graph.Graph, error) {
		return graph.UpdateData(g, id, d)
	})
}

// EditSentences applies fn to the sentence form; the shared record follows
// after the debounce window. Returns types.ErrWrongMode outside sentence mode.
func (s *Session) EditSentences(fn func(*sentence.Model) error) error {
	if s.Mode() != ModeSentence {
		return fmt.Errorf("%w: sentence edit in %s mode", types.ErrWrongMode, ModeCanvas)
	}
	return s.sentences.Edit(fn)
}

// SetMode switches the live representation, syncing the shared record first.
func (s *Session) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: unknown mode %q", types.ErrWrongMode, m)
	}
	s.sentences.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == m {
		return nil
	}
	switch m {
	case ModeSentence:
		s.syncFromGraph()
		c := s.current.Clone()
		c.ID, c.Name = s.id, s.name
		s.sentences.Load(&c)
	case ModeCanvas:
		if graph.MixedConnectors(s.current.Expression) {
			return fmt.Errorf("%w: %s", types.ErrMixedConnectors, s.current.Expression)
		}
		s.graph = graph.Load(s.current.Expression, s.current.Effects)
	}
	s.mode = m
	return nil
}

// Save syncs the live representation and returns the condition to store.
// A name still at the placeholder is inferred from the graph when there is
// an expression to describe.
func (s *Session) Save() types.Condition {
	s.sentences.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeCanvas {
		s.syncFromGraph()
	}

	c := s.current.Clone()
	c.ID = s.id
	c.Name = s.name
	if (c.Name == "" || c.Name == s.cfg.Placeholder) && c.Expression != "" {
		g := s.graph
		if s.mode == ModeSentence {
			g = graph.ToGraph(c.Expression, c.Effects)
		}
		c.Name = graph.InferName(g)
	}
	return c
}

// TestResult is the preview shown by the editor's Test action.
type TestResult struct {
	Expression string `json:"expression"`
	Readable   string `json:"readable"`
}

// Test previews the expression the live representation currently produces.
func (s *Session) Test() TestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	expr := s.current.Expression
	if s.mode == ModeCanvas {
		expr = graph.FromGraph(s.graph)
	}
	return TestResult{Expression: expr, Readable: expression.Readable(expr, s.current.Effects)}
}

// Close drops any pending sentence commit.
func (s *Session) Close() {
	s.sentences.Close()
}

func (s *Session) onSentenceCommit(c types.Condition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeSentence {
		return
	}
	s.current.Expression = c.Expression
	s.current.Effects = c.Effects
	if c.Expression != "" {
		s.graph = graph.Load(c.Expression, c.Effects)
	}
}

// syncFromGraph copies the graph's expression and effects into the shared
// record. Caller must hold s.mu.
func (s *Session) syncFromGraph() {
	s.current.Expression = graph.FromGraph(s.graph)
	s.current.Effects = graph.EffectsFromGraph(s.graph)
}
