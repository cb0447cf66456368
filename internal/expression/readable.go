package expression

import (
	"strings"

	"github.com/solatis/rulebuilder/internal/types"
)

var operatorLabels = map[types.Operator]string{
	types.OpEq:  "is equal to",
	types.OpNeq: "is not equal to",
	types.OpGt:  "is greater than",
	types.OpLt:  "is less than",
	types.OpGte: "is greater than or equal to",
	types.OpLte: "is less than or equal to",
}

// OperatorLabel returns the sentence-form wording of an operator.
// Unknown operators are returned unchanged.
func OperatorLabel(op types.Operator) string {
	if label, ok := operatorLabels[op]; ok {
		return label
	}
	return string(op)
}

// Readable renders an expression and its effects as an English sentence:
//
//	If issue category l1 is equal to 'Bus' then set issue category l3 options
func Readable(expression string, effects []types.Effect) string {
	if expression == "" {
		return "No condition defined"
	}

	var text string
	if l, err := ParseChain(expression); err == nil {
		parts := make([]string, 0, 2*len(l.Clauses))
		for i, c := range l.Clauses {
			if i > 0 {
				parts = append(parts, string(l.Connectors[i-1]))
			}
			parts = append(parts, humanizeField(c.Field)+" "+OperatorLabel(c.Operator)+" "+QuoteValue(c.Value))
		}
		text = strings.Join(parts, " ")
	} else {
		text = humanizeField(expression)
	}

	var targets []string
	for _, e := range effects {
		if f := e.TargetField(); f != "" {
			targets = append(targets, humanizeField(f))
		}
	}
	if len(targets) > 0 {
		text += " then set " + strings.Join(targets, ", ") + " options"
	}
	return "If " + text
}

// humanizeField strips the custom_fields. namespace and turns underscores into spaces.
func humanizeField(s string) string {
	s = strings.ReplaceAll(s, "custom_fields.", "")
	return strings.ReplaceAll(s, "_", " ")
}
