// Package sentence implements the fill-in-the-blank editing form of a
// condition: an ordered list of "If <field> <operator> <value>" sentences
// chained with AND/OR, plus the effects they drive.
package sentence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

// DefaultTargetField is the field a freshly added effect targets.
const DefaultTargetField = "custom_fields.issue_category_l1"

// Sentence is one clause of the sentence form. Connector joins it to the
// previous sentence and is empty on the first.
type Sentence struct {
	ID        string               `json:"id"`
	Field     string               `json:"field"`
	Operator  types.Operator       `json:"operator"`
	Value     string               `json:"value"`
	Connector expression.Connector `json:"connector,omitempty"`
}

// Clause returns the sentence as a clause. Cleared selects ("none") read as
// empty.
func (s Sentence) Clause() types.Clause {
	c := types.Clause{Field: s.Field, Operator: s.Operator, Value: s.Value}
	if types.Blank(c.Field) {
		c.Field = ""
	}
	if types.Blank(string(c.Operator)) {
		c.Operator = ""
	}
	if types.Blank(c.Value) {
		c.Value = ""
	}
	return c
}

// DefaultEffect is the effect a new condition starts with.
func DefaultEffect() types.Effect {
	return types.Effect{
		Fields:        []string{DefaultTargetField},
		AllowedValues: []string{},
		DefaultValues: []string{},
		Show:          true,
	}
}

// Model is the sentence form's state. The zero value is an empty form.
type Model struct {
	Sentences []Sentence
	Effects   []types.Effect

	seq int
}

// NewModel builds the form for a condition. A nil condition, or one without
// an expression, yields one blank sentence and the default effect.
func NewModel(c *types.Condition) Model {
	var m Model
	if c == nil || c.Expression == "" {
		m.Sentences = []Sentence{m.emptySentence()}
		m.Effects = []types.Effect{DefaultEffect()}
		return m
	}

	m.Sentences = m.parse(c.Expression)
	m.Effects = cloneEffects(c.Effects)
	return m
}

// Parse splits an expression into sentences. Both the canonical `&&` form
// and flat AND/OR chains of any length are understood; anything else yields
// one blank sentence.
func Parse(expr string) []Sentence {
	var m Model
	return m.parse(expr)
}

func (m *Model) parse(expr string) []Sentence {
	if expr == "" {
		return []Sentence{m.emptySentence()}
	}
	l, err := expression.ParseChain(expr)
	if err != nil {
		return []Sentence{m.emptySentence()}
	}
	out := make([]Sentence, 0, len(l.Clauses))
	for _, t := range l.Terms() {
		s := m.emptySentence()
		s.Field = t.Clause.Field
		s.Operator = t.Clause.Operator
		s.Value = t.Clause.Value
		s.Connector = t.Connector
		out = append(out, s)
	}
	return out
}

// Generate renders sentences as expression text. Incomplete sentences are
// dropped; the result is "" when none is complete.
func Generate(sentences []Sentence) string {
	terms := make([]expression.Term, len(sentences))
	for i, s := range sentences {
		terms[i] = expression.Term{Connector: s.Connector, Clause: s.Clause()}
	}
	return expression.Generate(terms)
}

// Expression renders the current sentences.
func (m *Model) Expression() string {
	return Generate(m.Sentences)
}

// Clone returns a deep copy.
func (m Model) Clone() Model {
	out := m
	out.Sentences = append([]Sentence(nil), m.Sentences...)
	out.Effects = cloneEffects(m.Effects)
	return out
}

// AddSentence appends a blank sentence, joined with AND unless it is the
// first. Returns its id.
func (m *Model) AddSentence() string {
	s := m.emptySentence()
	if len(m.Sentences) > 0 {
		s.Connector = expression.And
	}
	m.Sentences = append(m.Sentences, s)
	return s.ID
}

// RemoveSentence deletes a sentence. The new first sentence loses its
// connector.
func (m *Model) RemoveSentence(id string) error {
	i := m.sentenceIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", types.ErrSentenceNotFound, id)
	}
	m.Sentences = append(m.Sentences[:i:i], m.Sentences[i+1:]...)
	if len(m.Sentences) > 0 {
		m.Sentences[0].Connector = ""
	}
	return nil
}

// UpdateSentence applies fn to the sentence with the given id. The id
// itself cannot be changed.
func (m *Model) UpdateSentence(id string, fn func(*Sentence)) error {
	i := m.sentenceIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", types.ErrSentenceNotFound, id)
	}
	s := m.Sentences[i]
	fn(&s)
	s.ID = id
	m.Sentences[i] = s
	return nil
}

// AddEffect appends the default effect and returns its index.
func (m *Model) AddEffect() int {
	m.Effects = append(m.Effects, DefaultEffect())
	return len(m.Effects) - 1
}

// RemoveEffect deletes the effect at index i.
func (m *Model) RemoveEffect(i int) error {
	if i < 0 || i >= len(m.Effects) {
		return fmt.Errorf("%w: index %d", types.ErrEffectNotFound, i)
	}
	m.Effects = append(m.Effects[:i:i], m.Effects[i+1:]...)
	return nil
}

// UpdateEffect applies fn to the effect at index i.
func (m *Model) UpdateEffect(i int, fn func(*types.Effect)) error {
	if i < 0 || i >= len(m.Effects) {
		return fmt.Errorf("%w: index %d", types.ErrEffectNotFound, i)
	}
	e := m.Effects[i].Clone()
	fn(&e)
	m.Effects[i] = e
	return nil
}

// AddAllowedValue appends v (trimmed) to effect i's allowed values.
// Blank input is ignored.
func (m *Model) AddAllowedValue(i int, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		if i < 0 || i >= len(m.Effects) {
			return fmt.Errorf("%w: index %d", types.ErrEffectNotFound, i)
		}
		return nil
	}
	return m.UpdateEffect(i, func(e *types.Effect) {
		e.AllowedValues = append(e.AllowedValues, v)
	})
}

// RemoveAllowedValue deletes allowed value j of effect i.
func (m *Model) RemoveAllowedValue(i, j int) error {
	if i < 0 || i >= len(m.Effects) || j < 0 || j >= len(m.Effects[i].AllowedValues) {
		return fmt.Errorf("%w: effect %d value %d", types.ErrEffectNotFound, i, j)
	}
	return m.UpdateEffect(i, func(e *types.Effect) {
		e.AllowedValues = append(e.AllowedValues[:j:j], e.AllowedValues[j+1:]...)
	})
}

func (m *Model) sentenceIndex(id string) int {
	for i, s := range m.Sentences {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) emptySentence() Sentence {
	m.seq++
	return Sentence{ID: "sentence_" + strconv.Itoa(m.seq), Operator: types.OpEq}
}

func cloneEffects(in []types.Effect) []types.Effect {
	out := make([]types.Effect, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
