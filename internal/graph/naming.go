package graph

import (
	"strings"

	"github.com/solatis/rulebuilder/internal/expression"
)

// UntitledCondition is returned by InferName when the graph lacks a trigger
// or an action.
const UntitledCondition = "Untitled Condition"

var partNames = []struct{ substr, name string }{
	{"product", "Product Condition"},
	{"capability", "Capability Condition"},
	{"bus", "Bus Condition"},
	{"ondc", "ONDC Condition"},
}

var fieldNames = []struct{ substr, name string }{
	{"issue_category", "Issue Category Condition"},
	{"user.role", "User Role Condition"},
	{"priority", "Priority Condition"},
	{"status", "Status Condition"},
}

// InferName derives a display name from the first trigger (and, for
// applies_to_part, the first value). The result is cosmetic; users may
// override it.
func InferName(g Graph) string {
	trigger, ok := g.FirstOfKind(KindTrigger)
	if !ok {
		return UntitledCondition
	}
	if _, ok := g.FirstOfKind(KindAction); !ok {
		return UntitledCondition
	}
	t, _ := trigger.Data.(TriggerData)
	field := t.Field

	if field == expression.AppliesToPart {
		var value string
		if n, ok := g.FirstOfKind(KindValue); ok {
			v, _ := n.Data.(ValueData)
			value = v.Value
		}
		for _, p := range partNames {
			if strings.Contains(value, p.substr) {
				return p.name
			}
		}
		return "Part-based Condition"
	}

	for _, f := range fieldNames {
		if strings.Contains(field, f.substr) {
			return f.name
		}
	}

	last := field[strings.LastIndexByte(field, '.')+1:]
	if last == "" {
		last = "field"
	}
	return strings.ToUpper(last[:1]) + last[1:] + " Condition"
}
