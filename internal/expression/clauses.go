// Package expression converts between the textual condition expression and
// structured clause lists.
//
// Two shapes are understood: a single clause (`field op value`) and a
// conjunction of clauses joined by a logical connector. The canonical grammar
// stops at two clauses; the sentence editor uses ParseChain to read the longer
// flat chains it is able to produce.
//
// Stored conditions use `( a == 1 ) && ( b == 2 )`, with `&&` between
// parenthesised clauses. The generator writes the connector the user picked
// inside one pair of parentheses instead, `( a == 1 AND b == 2 )`, so OR
// survives a round trip. Parse reads both forms to the same clause list.
package expression

import "github.com/solatis/rulebuilder/internal/types"

// Kind classifies the outcome of a parse.
type Kind int

const (
	KindUnknown Kind = iota
	KindSimple
	KindConjunction
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindConjunction:
		return "conjunction"
	default:
		return "unknown"
	}
}

// Connector is the logical token joining two clauses.
type Connector string

const (
	And Connector = "AND"
	Or  Connector = "OR"
)

// OrDefault returns c, or And when c is empty.
func (c Connector) OrDefault() Connector {
	if c == "" {
		return And
	}
	return c
}

// Unknown is the placeholder text used when nothing could be recognised.
const Unknown = "Unknown"

// ClauseList is the structured form of an expression.
// Connectors[i] joins Clauses[i] and Clauses[i+1].
type ClauseList struct {
	Kind       Kind
	Clauses    []types.Clause
	Connectors []Connector
}

// UnknownList returns the placeholder list rendered for unrecognised input.
func UnknownList() ClauseList {
	return ClauseList{
		Kind:    KindUnknown,
		Clauses: []types.Clause{{Field: Unknown, Operator: types.OpEq, Value: Unknown}},
	}
}

// Known reports whether the list came from a successful parse.
func (l ClauseList) Known() bool {
	return l.Kind != KindUnknown
}

// Terms pairs every clause with the connector that precedes it.
// The first term never carries a connector.
func (l ClauseList) Terms() []Term {
	terms := make([]Term, len(l.Clauses))
	for i, c := range l.Clauses {
		terms[i].Clause = c
		if i > 0 && i-1 < len(l.Connectors) {
			terms[i].Connector = l.Connectors[i-1]
		}
	}
	return terms
}

// Term is a clause together with the connector linking it to its predecessor.
type Term struct {
	Connector Connector
	Clause    types.Clause
}

func listFromTerms(terms []Term) ClauseList {
	l := ClauseList{Kind: KindSimple}
	for i, t := range terms {
		l.Clauses = append(l.Clauses, t.Clause)
		if i > 0 {
			l.Connectors = append(l.Connectors, t.Connector.OrDefault())
		}
	}
	if len(l.Clauses) > 1 {
		l.Kind = KindConjunction
	}
	return l
}
