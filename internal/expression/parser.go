// internal/expression/parser.go
package expression

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Recursive-descent parser for condition expressions.
 *
 * Grammar:
 *
 *   expression := chain
 *               | '(' clause ')' (conn '(' clause ')')*
 *               | '(' clause (conn clause)* ')'
 *   chain      := clause (conn clause)*
 *   clause     := field op value
 *   field      := token ('.' token)*
 *   op         := '==' | '!=' | '>=' | '<=' | '>' | '<'
 *   value      := quoted | bare
 *   conn       := '&&' | '||' | 'AND' | 'OR' | 'and' | 'or'
 *
 * The scanner is driven by the parser rather than run ahead of it: whether a
 * run of characters is a field, a connector or a bare value depends on where
 * it appears, and a bare value may contain anything except whitespace.
 *
 * Bare values and closing parentheses: `(a == b)` has no space before `)`, so
 * the bare run reads "b)". Inside an open group, trailing ')' characters the
 * run does not balance itself are handed back to close the group, so
 * `(a == f(x))` reads "f(x)". When that reading fails, the whole expression is
 * parsed again with every ')' kept in its value: generated text always puts a
 * space before a closing ')', so `( a == x) AND b == y )` still reads "x)".
 *
 * Quoted values use single quotes, the only quoting the generator emits;
 * backslash escapes the quote and itself, any other escape is kept literally.
 * A double quote is an ordinary value character.
 *
 * maxClauses bounds the clause count (0 = unbounded). Parse and ParseStrict
 * use 2; ParseChain is unbounded.
 */

const canonicalMaxClauses = 2

// Parse converts expression text to a clause list. It never fails: text that
// does not fit the grammar yields UnknownList().
func Parse(expression string) ClauseList {
	l, err := ParseStrict(expression)
	if err != nil {
		return UnknownList()
	}
	return l
}

// ParseStrict is Parse with the failure reason reported.
// Returns types.ErrEmptyExpression, types.ErrTooManyClauses,
// types.ErrUnexpectedToken or types.ErrUnterminatedString (wrapped).
func ParseStrict(expression string) (ClauseList, error) {
	return parse(expression, canonicalMaxClauses)
}

// ParseChain parses a flat chain of any number of clauses, as produced by the
// sentence editor (`( a == 1 AND b == 2 OR c == 3 )`).
func ParseChain(expression string) (ClauseList, error) {
	return parse(expression, 0)
}

func parse(expression string, maxClauses int) (ClauseList, error) {
	terms, err := (&parser{src: expression}).parseExpression()
	if err != nil {
		retry, retryErr := (&parser{src: expression, keepParens: true}).parseExpression()
		if retryErr != nil {
			return ClauseList{}, err
		}
		terms = retry
	}
	if maxClauses > 0 && len(terms) > maxClauses {
		return ClauseList{}, fmt.Errorf("%w: got %d", types.ErrTooManyClauses, len(terms))
	}
	return listFromTerms(terms), nil
}

type parser struct {
	src   string
	pos   int
	depth int // open parentheses

	keepParens bool // never hand a value's trailing ')' back to the group
}

func (p *parser) parseExpression() ([]Term, error) {
	p.skipSpace()
	if p.eof() {
		return nil, types.ErrEmptyExpression
	}
	if !p.accept('(') {
		terms, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		return terms, p.expectEOF()
	}

	p.depth++
	first, err := p.parseClause()
	if err != nil {
		return nil, err
	}
	terms := []Term{{Clause: first}}

	p.skipSpace()
	if p.accept(')') {
		// ( c1 ) conn ( c2 ) ...
		p.depth--
		for {
			conn, ok := p.acceptConnector()
			if !ok {
				break
			}
			if err := p.expect('('); err != nil {
				return nil, err
			}
			p.depth++
			c, err := p.parseClause()
			if err != nil {
				return nil, err
			}
			if err := p.expect(')'); err != nil {
				return nil, err
			}
			p.depth--
			terms = append(terms, Term{Connector: conn, Clause: c})
		}
		return terms, p.expectEOF()
	}

	// ( c1 conn c2 ... )
	rest, err := p.parseChainTail()
	if err != nil {
		return nil, err
	}
	terms = append(terms, rest...)
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	p.depth--
	return terms, p.expectEOF()
}

func (p *parser) parseChain() ([]Term, error) {
	first, err := p.parseClause()
	if err != nil {
		return nil, err
	}
	rest, err := p.parseChainTail()
	if err != nil {
		return nil, err
	}
	return append([]Term{{Clause: first}}, rest...), nil
}

func (p *parser) parseChainTail() ([]Term, error) {
	var terms []Term
	for {
		conn, ok := p.acceptConnector()
		if !ok {
			return terms, nil
		}
		c, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Connector: conn, Clause: c})
	}
}

func (p *parser) parseClause() (types.Clause, error) {
	field, err := p.readField()
	if err != nil {
		return types.Clause{}, err
	}
	op, err := p.readOperator()
	if err != nil {
		return types.Clause{}, err
	}
	value, err := p.readValue()
	if err != nil {
		return types.Clause{}, err
	}
	return types.Clause{Field: field, Operator: op, Value: value}, nil
}

func (p *parser) readField() (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if isFieldByte(c) {
			p.pos++
			continue
		}
		if c == '.' && p.pos > start && p.pos+1 < len(p.src) && isFieldByte(p.src[p.pos+1]) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.unexpected("field")
	}
	return p.src[start:p.pos], nil
}

func isFieldByte(c byte) bool {
	return c == '_' || c == '-' || c == '$' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *parser) readOperator() (types.Operator, error) {
	p.skipSpace()
	rest := p.src[p.pos:]
	for _, op := range []types.Operator{types.OpEq, types.OpNeq, types.OpGte, types.OpLte, types.OpGt, types.OpLt} {
		if strings.HasPrefix(rest, string(op)) {
			p.pos += len(op)
			return op, nil
		}
	}
	return "", p.unexpected("operator")
}

func (p *parser) readValue() (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.unexpected("value")
	}
	if p.src[p.pos] == '\'' {
		return p.readQuoted('\'')
	}

	start := p.pos
	for !p.eof() && !isSpace(p.src[p.pos]) {
		p.pos++
	}
	end := p.pos
	if p.depth > 0 && !p.keepParens {
		run := p.src[start:end]
		excess := strings.Count(run, ")") - strings.Count(run, "(")
		for closers := 0; closers < min(excess, p.depth) && end > start && p.src[end-1] == ')'; closers++ {
			end--
		}
	}
	if end == start {
		p.pos = start
		return "", p.unexpected("value")
	}
	p.pos = end
	return p.src[start:end], nil
}

func (p *parser) readQuoted(quote byte) (string, error) {
	start := p.pos
	p.pos++ // opening quote
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == quote || p.src[p.pos+1] == '\\'):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		case c == quote:
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("%w at offset %d", types.ErrUnterminatedString, start)
}

// acceptConnector consumes a logical connector if one comes next.
func (p *parser) acceptConnector() (Connector, bool) {
	p.skipSpace()
	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, "&&"):
		p.pos += 2
		return And, true
	case strings.HasPrefix(rest, "||"):
		p.pos += 2
		return Or, true
	}
	for _, w := range []struct {
		word string
		conn Connector
	}{{"AND", And}, {"and", And}, {"OR", Or}, {"or", Or}} {
		if strings.HasPrefix(rest, w.word) && p.wordBoundary(p.pos+len(w.word)) {
			p.pos += len(w.word)
			return w.conn, true
		}
	}
	return "", false
}

func (p *parser) wordBoundary(i int) bool {
	return i >= len(p.src) || isSpace(p.src[i]) || p.src[i] == '('
}

func (p *parser) accept(c byte) bool {
	p.skipSpace()
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	if p.accept(c) {
		return nil
	}
	return p.unexpected(fmt.Sprintf("%q", c))
}

func (p *parser) expectEOF() error {
	p.skipSpace()
	if !p.eof() {
		return p.unexpected("end of expression")
	}
	return nil
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) unexpected(want string) error {
	if p.eof() {
		return fmt.Errorf("%w: expected %s at end of input", types.ErrUnexpectedToken, want)
	}
	return fmt.Errorf("%w: expected %s at offset %d, found %q", types.ErrUnexpectedToken, want, p.pos, p.src[p.pos:])
}

func isSpace(c byte) bool {
	return c < 0x80 && unicode.IsSpace(rune(c))
}
