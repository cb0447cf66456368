// Package types provides the domain models shared across rulebuilder components.
//
// Condition and Effect are the records the application shell stores and the
// editors produce. Clause is the unit the expression parser and generator trade
// in. Everything here is plain data: no parsing, no graph knowledge.
package types

import "encoding/json"

// ConditionID is an opaque condition identifier, stable for the record's lifetime.
// New records receive a UUIDv7; seed and imported records may carry any string.
type ConditionID string

// Condition is a named rule pairing a boolean expression with field effects.
type Condition struct {
	ID         ConditionID `json:"id"`
	Name       string      `json:"name"`
	Expression string      `json:"expression"`
	Effects    []Effect    `json:"effects"`
}

// Clone returns a deep copy so callers can mutate effects without aliasing.
func (c Condition) Clone() Condition {
	out := c
	if c.Effects != nil {
		out.Effects = make([]Effect, len(c.Effects))
		for i, e := range c.Effects {
			out.Effects[i] = e.Clone()
		}
	}
	return out
}

// Effect is one field-targeting consequence of a condition being true.
//
// Mandatory is the canonical requiredness flag. Optional is derived from it and
// never stored, so the two cannot diverge.
type Effect struct {
	Fields        []string
	AllowedValues []string
	DefaultValues []string
	Show          bool
	Mandatory     bool
}

// Optional reports whether the target field may be left empty.
func (e Effect) Optional() bool {
	return !e.Mandatory
}

// TargetField returns the first target field, or "" when none is set.
func (e Effect) TargetField() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0]
}

// Clone returns a deep copy of the effect.
func (e Effect) Clone() Effect {
	return Effect{
		Fields:        cloneStrings(e.Fields),
		AllowedValues: cloneStrings(e.AllowedValues),
		DefaultValues: cloneStrings(e.DefaultValues),
		Show:          e.Show,
		Mandatory:     e.Mandatory,
	}
}

// effectJSON is the wire shape consumed by list and dashboard views.
type effectJSON struct {
	Fields        []string `json:"fields"`
	AllowedValues []string `json:"allowed_values"`
	DefaultValues []string `json:"default_values,omitempty"`
	Show          *bool    `json:"show,omitempty"`
	Optional      *bool    `json:"optional,omitempty"`
	Mandatory     *bool    `json:"mandatory,omitempty"`
}

// MarshalJSON implements json.Marshaler.
// Both optional and mandatory are emitted, derived from Mandatory.
func (e Effect) MarshalJSON() ([]byte, error) {
	show := e.Show
	mandatory := e.Mandatory
	optional := !e.Mandatory
	fields := e.Fields
	if fields == nil {
		fields = []string{}
	}
	allowed := e.AllowedValues
	if allowed == nil {
		allowed = []string{}
	}
	return json.Marshal(effectJSON{
		Fields:        fields,
		AllowedValues: allowed,
		DefaultValues: e.DefaultValues,
		Show:          &show,
		Optional:      &optional,
		Mandatory:     &mandatory,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// show defaults to true when absent. mandatory wins over optional when both
// are present; a lone optional is inverted into Mandatory.
func (e *Effect) UnmarshalJSON(data []byte) error {
	var raw effectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Effect{
		Fields:        raw.Fields,
		AllowedValues: raw.AllowedValues,
		DefaultValues: raw.DefaultValues,
		Show:          raw.Show == nil || *raw.Show,
	}
	switch {
	case raw.Mandatory != nil:
		e.Mandatory = *raw.Mandatory
	case raw.Optional != nil:
		e.Mandatory = !*raw.Optional
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
