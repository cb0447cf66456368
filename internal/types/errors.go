package types

import "errors"

// Sentinel errors for rulebuilder operations.
var (
	// ErrConditionNotFound indicates no stored condition has the requested id.
	ErrConditionNotFound = errors.New("condition not found")

	// ErrInvalidConditionID indicates an id that is not a valid UUID.
	ErrInvalidConditionID = errors.New("invalid condition id")

	// ErrEmptyExpression indicates an expression with no clauses.
	ErrEmptyExpression = errors.New("expression is empty")

	// ErrTooManyClauses indicates more clauses than the canonical grammar allows.
	ErrTooManyClauses = errors.New("expression has more than two clauses")

	// ErrUnexpectedToken indicates text that does not fit the expression grammar.
	ErrUnexpectedToken = errors.New("unexpected token in expression")

	// ErrUnterminatedString indicates a quoted value with no closing quote.
	ErrUnterminatedString = errors.New("unterminated quoted value")

	// ErrDuplicateNodeID indicates a node id already present in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrDuplicateEdgeID indicates an edge id already present in the graph.
	ErrDuplicateEdgeID = errors.New("duplicate edge id")

	// ErrNodeNotFound indicates a node id absent from the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates an edge id absent from the graph.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrUnknownNodeKind indicates a node type outside the five supported kinds.
	ErrUnknownNodeKind = errors.New("unknown node kind")

	// ErrInvalidGraph indicates a graph document that does not have the
	// nodes/edges shape.
	ErrInvalidGraph = errors.New("invalid graph document")

	// ErrSentenceNotFound indicates a sentence id absent from the sentence form.
	ErrSentenceNotFound = errors.New("sentence not found")

	// ErrEffectNotFound indicates an effect or allowed-value index out of range.
	ErrEffectNotFound = errors.New("effect not found")

	// ErrWrongMode indicates an edit aimed at the editing mode that is not active.
	ErrWrongMode = errors.New("edit not allowed in current editor mode")

	// ErrMixedConnectors indicates a clause chain mixing AND and OR, which the
	// canvas cannot show without changing its meaning.
	ErrMixedConnectors = errors.New("expression mixes AND and OR connectors")

	// ErrNoSession indicates an editor operation with no open editing session.
	ErrNoSession = errors.New("no condition is being edited")
)
