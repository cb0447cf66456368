// internal/expression/generate.go
package expression

import (
	"strings"
	"unicode"

	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Expression generation, the inverse of Parse.
 *
 * Output shapes:
 *   - no complete clause:  ""  (nothing to save yet, not an error)
 *   - one clause:          field op value
 *   - two or more:         ( c1 AND c2 OR c3 )
 *
 * Incomplete clauses are dropped together with their connector; the
 * connector of a surviving clause is kept. A missing connector renders
 * as AND.
 *
 * Quoting: a value is single-quoted iff it contains whitespace or a single
 * quote. Inside quotes, ' and \ are backslash-escaped so that Parse returns
 * the original value.
 */

// Generate renders terms as expression text.
func Generate(terms []Term) string {
	valid := make([]Term, 0, len(terms))
	for _, t := range terms {
		if t.Clause.Complete() {
			valid = append(valid, t)
		}
	}

	switch len(valid) {
	case 0:
		return ""
	case 1:
		return FormatClause(valid[0].Clause)
	}

	var b strings.Builder
	b.WriteString("( ")
	for i, t := range valid {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(string(t.Connector.OrDefault()))
			b.WriteByte(' ')
		}
		b.WriteString(FormatClause(t.Clause))
	}
	b.WriteString(" )")
	return b.String()
}

// GenerateList renders a parsed clause list back to text.
func GenerateList(l ClauseList) string {
	if !l.Known() {
		return ""
	}
	return Generate(l.Terms())
}

// GenerateClauses joins clauses with a single connector.
func GenerateClauses(conn Connector, clauses ...types.Clause) string {
	terms := make([]Term, len(clauses))
	for i, c := range clauses {
		terms[i] = Term{Connector: conn, Clause: c}
	}
	return Generate(terms)
}

// FormatClause renders one clause without validation.
func FormatClause(c types.Clause) string {
	return c.Field + " " + string(c.Operator) + " " + QuoteValue(c.Value)
}

// QuoteValue applies the quoting rule to a literal value.
func QuoteValue(v string) string {
	if !NeedsQuotes(v) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('\'')
	for _, r := range v {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// NeedsQuotes reports whether v contains whitespace or a single quote.
func NeedsQuotes(v string) bool {
	return strings.ContainsFunc(v, func(r rune) bool {
		return r == '\'' || unicode.IsSpace(r)
	})
}
