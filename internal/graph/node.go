// Package graph holds the node/edge representation of a condition edited on
// the canvas, and translates it to and from expression text.
//
// Node payloads are a closed set of per-kind structs (TriggerData,
// OperatorData, ValueData, LogicalData, ActionData); code that needs a field
// switches on the concrete type instead of probing for properties.
package graph

import (
	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

// Kind is a node type.
type Kind string

const (
	KindTrigger  Kind = "trigger"
	KindOperator Kind = "operator"
	KindValue    Kind = "value"
	KindLogical  Kind = "logical"
	KindAction   Kind = "action"
)

// Kinds lists every node kind.
var Kinds = []Kind{KindTrigger, KindOperator, KindValue, KindLogical, KindAction}

// Valid reports whether k is one of the five node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTrigger, KindOperator, KindValue, KindLogical, KindAction:
		return true
	default:
		return false
	}
}

// Position is a canvas coordinate. Layout only, never semantics.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Data is the per-kind node payload.
type Data interface {
	Kind() Kind
	isData()
}

// TriggerData is the left-hand field of a clause.
type TriggerData struct {
	Field string
}

// OperatorData is the comparison token of a clause.
type OperatorData struct {
	Operator types.Operator
}

// ValueData is the right-hand literal of a clause.
type ValueData struct {
	Value string
}

// LogicalData joins clauses.
type LogicalData struct {
	Connector expression.Connector
}

// ActionData is one effect on a target field.
type ActionData struct {
	Field         string
	AllowedValues []string
	DefaultValues []string
	Show          bool
	Mandatory     bool
}

func (TriggerData) Kind() Kind  { return KindTrigger }
func (OperatorData) Kind() Kind { return KindOperator }
func (ValueData) Kind() Kind    { return KindValue }
func (LogicalData) Kind() Kind  { return KindLogical }
func (ActionData) Kind() Kind   { return KindAction }

func (TriggerData) isData()  {}
func (OperatorData) isData() {}
func (ValueData) isData()    {}
func (LogicalData) isData()  {}
func (ActionData) isData()   {}

// Effect converts the action payload to an Effect record.
func (a ActionData) Effect() types.Effect {
	return types.Effect{
		Fields:        []string{a.Field},
		AllowedValues: nonNil(a.AllowedValues),
		DefaultValues: nonNil(a.DefaultValues),
		Show:          a.Show,
		Mandatory:     a.Mandatory,
	}
}

// ActionFromEffect builds an action payload from an Effect record.
func ActionFromEffect(e types.Effect) ActionData {
	return ActionData{
		Field:         e.TargetField(),
		AllowedValues: nonNil(e.AllowedValues),
		DefaultValues: nonNil(e.DefaultValues),
		Show:          e.Show,
		Mandatory:     e.Mandatory,
	}
}

// Node is a canvas node.
type Node struct {
	ID       string
	Position Position
	Data     Data
}

// Kind returns the node kind, or "" for a node without data.
func (n Node) Kind() Kind {
	if n.Data == nil {
		return ""
	}
	return n.Data.Kind()
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// DefaultData returns the payload a freshly added node of kind k starts with.
func DefaultData(k Kind) Data {
	switch k {
	case KindTrigger:
		return TriggerData{Field: expression.AppliesToPart}
	case KindOperator:
		return OperatorData{Operator: types.OpEq}
	case KindValue:
		return ValueData{}
	case KindLogical:
		return LogicalData{Connector: expression.And}
	case KindAction:
		return ActionData{Field: DefaultActionField, AllowedValues: []string{}, Show: true}
	default:
		return nil
	}
}

// DefaultActionField is the target field new action nodes point at.
const DefaultActionField = "custom_fields.issue_category_l1"

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
