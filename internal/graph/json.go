// internal/graph/json.go
package graph

import (
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Wire form of nodes, edges and graphs.
 *
 * The shape follows the canvas library's records:
 *
 *   {"id": "if-1", "type": "trigger", "position": {"x": 50, "y": 150},
 *    "data": {"field": "applies_to_part"}}
 *
 * data per kind:
 *   trigger   {field}
 *   operator  {operator}
 *   value     {value}
 *   logical   {operator}            AND / OR
 *   action    {field, allowedValues, defaultValues, show, mandatory}
 *
 * Action nodes written without "show" are visible. "mandatory" wins over
 * "optional" when both are present, as for Effect records.
 *
 * Decode accepts JSONC (comments, trailing commas) via hujson and checks the
 * document shape against schema.json before decoding.
 */

type nodeJSON struct {
	ID       string          `json:"id"`
	Type     Kind            `json:"type"`
	Position Position        `json:"position"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type triggerJSON struct {
	Field string `json:"field"`
}

type operatorJSON struct {
	Operator types.Operator `json:"operator"`
}

type valueJSON struct {
	Value string `json:"value"`
}

type logicalJSON struct {
	Operator expression.Connector `json:"operator"`
}

type actionJSON struct {
	Field         string   `json:"field"`
	AllowedValues []string `json:"allowedValues"`
	DefaultValues []string `json:"defaultValues"`
	Show          *bool    `json:"show,omitempty"`
	Mandatory     *bool    `json:"mandatory,omitempty"`
	Optional      *bool    `json:"optional,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	var data any
	switch d := n.Data.(type) {
	case TriggerData:
		data = triggerJSON{Field: d.Field}
	case OperatorData:
		data = operatorJSON{Operator: d.Operator}
	case ValueData:
		data = valueJSON{Value: d.Value}
	case LogicalData:
		data = logicalJSON{Operator: d.Connector}
	case ActionData:
		show, mandatory := d.Show, d.Mandatory
		data = actionJSON{
			Field:         d.Field,
			AllowedValues: nonNil(d.AllowedValues),
			DefaultValues: nonNil(d.DefaultValues),
			Show:          &show,
			Mandatory:     &mandatory,
		}
	default:
		return nil, fmt.Errorf("%w: node %s has no data", types.ErrUnknownNodeKind, n.ID)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeJSON{ID: n.ID, Type: n.Kind(), Position: n.Position, Data: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw.Data) == 0 {
		raw.Data = []byte("{}")
	}

	var data Data
	switch raw.Type {
	case KindTrigger:
		var d triggerJSON
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return fmt.Errorf("node %s: %w", raw.ID, err)
		}
		data = TriggerData{Field: d.Field}
	case KindOperator:
		var d operatorJSON
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return fmt.Errorf("node %s: %w", raw.ID, err)
		}
		data = OperatorData{Operator: d.Operator}
	case KindValue:
		var d valueJSON
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return fmt.Errorf("node %s: %w", raw.ID, err)
		}
		data = ValueData{Value: d.Value}
	case KindLogical:
		var d logicalJSON
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return fmt.Errorf("node %s: %w", raw.ID, err)
		}
		data = LogicalData{Connector: d.Operator.OrDefault()}
	case KindAction:
		var d actionJSON
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return fmt.Errorf("node %s: %w", raw.ID, err)
		}
		a := ActionData{
			Field:         d.Field,
			AllowedValues: nonNil(d.AllowedValues),
			DefaultValues: nonNil(d.DefaultValues),
			Show:          d.Show == nil || *d.Show,
		}
		switch {
		case d.Mandatory != nil:
			a.Mandatory = *d.Mandatory
		case d.Optional != nil:
			a.Mandatory = !*d.Optional
		}
		data = a
	default:
		return fmt.Errorf("%w: node %s has type %q", types.ErrUnknownNodeKind, raw.ID, raw.Type)
	}

	*n = Node{ID: raw.ID, Position: raw.Position, Data: data}
	return nil
}

type graphJSON struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MarshalJSON implements json.Marshaler.
func (g Graph) MarshalJSON() ([]byte, error) {
	doc := graphJSON{Nodes: g.Nodes(), Edges: g.Edges()}
	if doc.Nodes == nil {
		doc.Nodes = []Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler. Duplicate ids are rejected.
func (g *Graph) UnmarshalJSON(b []byte) error {
	var doc graphJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	out, err := New(doc.Nodes, doc.Edges)
	if err != nil {
		return err
	}
	*g = out
	return nil
}

// Decode parses a graph document, accepting JSONC.
func Decode(data []byte) (Graph, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return Graph{}, fmt.Errorf("graph document: %w", err)
	}
	if err := Validate(std); err != nil {
		return Graph{}, err
	}
	var g Graph
	if err := json.Unmarshal(std, &g); err != nil {
		return Graph{}, fmt.Errorf("graph document: %w", err)
	}
	return g, nil
}
