// internal/types/clause.go
package types

/*
 * Clause and operator types.
 *
 * A Clause is one `field operator value` comparison. The parser produces them,
 * the generator consumes them, and the graph and sentence editors hold them in
 * their own shapes. Values are always strings: expressions are displayed and
 * edited, never evaluated, so there is no type system to coerce into.
 *
 * The sentinel "none" is what the editors store when a select has been cleared;
 * it is treated exactly like an empty value.
 */

// Operator is a comparison token as written in the textual expression.
type Operator string

const (
	OpEq  Operator = "=="
	OpNeq Operator = "!="
	OpGt  Operator = ">"
	OpLt  Operator = "<"
	OpGte Operator = ">="
	OpLte Operator = "<="
)

// Operators lists every supported operator in display order.
var Operators = []Operator{OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte}

// None is the cleared-select sentinel used by the editors.
const None = "none"

// Valid reports whether op is one of the six supported comparison tokens.
func (op Operator) Valid() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte:
		return true
	default:
		return false
	}
}

// Clause is a single comparison.
type Clause struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Complete reports whether field, operator and value are all present.
// A clause failing this check is dropped by the generator.
func (c Clause) Complete() bool {
	return c.Field != "" && c.Operator != "" && c.Value != ""
}

// Blank reports whether s is empty or the cleared-select sentinel.
func Blank(s string) bool {
	return s == "" || s == None
}
