package expression

import (
	"regexp"
	"strings"

	"github.com/solatis/rulebuilder/internal/types"
)

// AppliesToPart is the trigger field whose values are resource identifiers.
const AppliesToPart = "applies_to_part"

var appliesToPartPattern = regexp.MustCompile(`applies_to_part\s*==\s*'([^']+)'`)

// Summary is the one-line display form of an expression used by list and
// dashboard views. For conjunctions each part is joined with the connector,
// e.g. Field "a AND b".
type Summary struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Summarize produces the display summary of an expression. It never fails:
// unrecognised text yields Unknown field and value.
//
// applies_to_part values (colon/slash delimited resource ids) are shortened to
// the segment after the last '/', so `don:core:...:product/6` shows as `6`.
func Summarize(expression string) Summary {
	l := Parse(expression)
	if l.Known() {
		fields := make([]string, len(l.Clauses))
		ops := make([]string, len(l.Clauses))
		values := make([]string, len(l.Clauses))
		for i, c := range l.Clauses {
			fields[i] = c.Field
			ops[i] = string(c.Operator)
			values[i] = displayValue(c)
		}
		sep := " AND "
		if len(l.Connectors) > 0 {
			sep = " " + string(l.Connectors[0]) + " "
		}
		return Summary{
			Field:    strings.Join(fields, sep),
			Operator: strings.Join(ops, sep),
			Value:    strings.Join(values, sep),
		}
	}

	if strings.Contains(expression, AppliesToPart) {
		value := "unknown"
		if m := appliesToPartPattern.FindStringSubmatch(expression); m != nil {
			value = lastSegment(m[1])
		}
		return Summary{Field: AppliesToPart, Operator: string(types.OpEq), Value: value}
	}

	return Summary{Field: Unknown, Operator: string(types.OpEq), Value: Unknown}
}

func displayValue(c types.Clause) string {
	if c.Field == AppliesToPart {
		return lastSegment(c.Value)
	}
	return c.Value
}

func lastSegment(v string) string {
	if i := strings.LastIndexByte(v, '/'); i >= 0 && i < len(v)-1 {
		return v[i+1:]
	}
	return v
}
