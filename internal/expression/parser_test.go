// internal/expression/parser_test.go
package expression

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/solatis/rulebuilder/internal/types"
)

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ClauseList
	}{
		{
			name: "single quoted clause",
			in:   "custom_fields.issue_category_l1 == 'Bus - City Mapping'",
			want: ClauseList{
				Kind:    KindSimple,
				Clauses: []types.Clause{{Field: "custom_fields.issue_category_l1", Operator: types.OpEq, Value: "Bus - City Mapping"}},
			},
		},
		{
			name: "single bare clause",
			in:   "custom_fields.priority >= 3",
			want: ClauseList{
				Kind:    KindSimple,
				Clauses: []types.Clause{{Field: "custom_fields.priority", Operator: types.OpGte, Value: "3"}},
			},
		},
		{
			name: "no spaces around operator",
			in:   "status!=closed",
			want: ClauseList{
				Kind:    KindSimple,
				Clauses: []types.Clause{{Field: "status", Operator: types.OpNeq, Value: "closed"}},
			},
		},
		{
			name: "double quotes are value characters",
			in:   `user.role == "admin"`,
			want: ClauseList{
				Kind:    KindSimple,
				Clauses: []types.Clause{{Field: "user.role", Operator: types.OpEq, Value: `"admin"`}},
			},
		},
		{
			name: "balanced parentheses inside a group",
			in:   "( a == f(x) AND b == y )",
			want: ClauseList{
				Kind: KindConjunction,
				Clauses: []types.Clause{
					{Field: "a", Operator: types.OpEq, Value: "f(x)"},
					{Field: "b", Operator: types.OpEq, Value: "y"},
				},
				Connectors: []Connector{And},
			},
		},
		{
			name: "tight group around a parenthesised value",
			in:   "(a == f(x)) && (b == y)",
			want: ClauseList{
				Kind: KindConjunction,
				Clauses: []types.Clause{
					{Field: "a", Operator: types.OpEq, Value: "f(x)"},
					{Field: "b", Operator: types.OpEq, Value: "y"},
				},
				Connectors: []Connector{And},
			},
		},
		{
			name: "value ending in a parenthesis inside a spaced group",
			in:   "( a == x) OR b == y) )",
			want: ClauseList{
				Kind: KindConjunction,
				Clauses: []types.Clause{
					{Field: "a", Operator: types.OpEq, Value: "x)"},
					{Field: "b", Operator: types.OpEq, Value: "y)"},
				},
				Connectors: []Connector{Or},
			},
		},
		{
			name: "escaped quote inside value",
			in:   `custom_fields.issue_category_l2 == 'driver\'s behaviour'`,
			want: ClauseList{
				Kind:    KindSimple,
				Clauses: []types.Clause{{Field: "custom_fields.issue_category_l2", Operator: types.OpEq, Value: "driver's behaviour"}},
			},
		},
		{
			name: "canonical stored conjunction",
			in:   "( custom_fields.issue_category_l1 == 'Cancel my booking' ) && ( custom_fields.issue_category_l2 == 'Cancellation window is over' )",
			want: ClauseList{
				Kind: KindConjunction,
				Clauses: []types.Clause{
					{Field: "custom_fields.issue_category_l1", Operator: types.OpEq, Value: "Cancel my booking"},
					{Field: "custom_fields.issue_category_l2", Operator: types.OpEq, Value: "Cancellation window is over"},
				},
				Connectors: []Connector{And},
			},
		},
		{
			name: "generated conjunction with OR",
			in:   "( status == open OR priority > 2 )",
			want: ClauseList{
				Kind: KindConjunction,
				Clauses: []types.Clause{
					{Field: "status", Operator: types.OpEq, Value: "open"},
					{Field: "priority", Operator: types.OpGt, Value: "2"},
				},
				Connectors: []Connector{Or},
			},
		},
		{
			name: "tight parentheses around bare values",
			in:   "(status == open) || (priority <= 2)",
			want: ClauseList{
				Kind: KindConjunction,
				Clauses: []types.Clause{
					{Field: "status", Operator: types.OpEq, Value: "open"},
					{Field: "priority", Operator: types.OpLte, Value: "2"},
				},
				Connectors: []Connector{Or},
			},
		},
		{
			name: "unparenthesized pair",
			in:   "status == open and priority < 2",
			want: ClauseList{
				Kind: KindConjunction,
				Clauses: []types.Clause{
					{Field: "status", Operator: types.OpEq, Value: "open"},
					{Field: "priority", Operator: types.OpLt, Value: "2"},
				},
				Connectors: []Connector{And},
			},
		},
		{
			name: "parenthesized single clause",
			in:   "(status == open)",
			want: ClauseList{
				Kind:    KindSimple,
				Clauses: []types.Clause{{Field: "status", Operator: types.OpEq, Value: "open"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrict(tt.in)
			if err != nil {
				t.Fatalf("ParseStrict() error = %v, want nil", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseStrict() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseStrict_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "empty", in: "   ", wantErr: types.ErrEmptyExpression},
		{name: "garbage", in: "garbage", wantErr: types.ErrUnexpectedToken},
		{name: "missing value", in: "status ==", wantErr: types.ErrUnexpectedToken},
		{name: "unquoted words", in: "status == in progress", wantErr: types.ErrUnexpectedToken},
		{name: "unterminated", in: "status == 'open", wantErr: types.ErrUnterminatedString},
		{name: "double quotes do not group words", in: `user.role == "support agent"`, wantErr: types.ErrUnexpectedToken},
		{name: "unbalanced", in: "( status == open", wantErr: types.ErrUnexpectedToken},
		{name: "three clauses", in: "( a == 1 ) && ( b == 2 ) && ( c == 3 )", wantErr: types.ErrTooManyClauses},
		{name: "three chained clauses", in: "( a == 1 AND b == 2 OR c == 3 )", wantErr: types.ErrTooManyClauses},
		{name: "mixed group shapes", in: "( a == 1 ) && b == 2", wantErr: types.ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStrict(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseStrict() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_UnknownPlaceholder(t *testing.T) {
	for _, in := range []string{"garbage", "", "== ==", "a == 'x"} {
		got := Parse(in)
		if got.Known() {
			t.Errorf("Parse(%q).Known() = true, want false", in)
		}
		want := []types.Clause{{Field: "Unknown", Operator: types.OpEq, Value: "Unknown"}}
		if diff := cmp.Diff(want, got.Clauses); diff != "" {
			t.Errorf("Parse(%q) clauses mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestParseChain_AnyLength(t *testing.T) {
	got, err := ParseChain("( a == 1 AND b == 2 OR c == 'x y' )")
	if err != nil {
		t.Fatalf("ParseChain() error = %v, want nil", err)
	}
	if len(got.Clauses) != 3 {
		t.Fatalf("len(Clauses) = %d, want 3", len(got.Clauses))
	}
	if diff := cmp.Diff([]Connector{And, Or}, got.Connectors); diff != "" {
		t.Errorf("Connectors mismatch (-want +got):\n%s", diff)
	}
	if got.Clauses[2].Value != "x y" {
		t.Errorf("Clauses[2].Value = %q, want %q", got.Clauses[2].Value, "x y")
	}
}

func TestParse_ValueWithParenthesisOutsideGroup(t *testing.T) {
	got := Parse("note == smile:)")
	if !got.Known() {
		t.Fatalf("Parse() Known = false, want true")
	}
	if got.Clauses[0].Value != "smile:)" {
		t.Errorf("Value = %q, want %q", got.Clauses[0].Value, "smile:)")
	}
}

func TestTerms_ConnectorPlacement(t *testing.T) {
	l := Parse("( a == 1 ) || ( b == 2 )")
	terms := l.Terms()
	if len(terms) != 2 {
		t.Fatalf("len(Terms) = %d, want 2", len(terms))
	}
	if terms[0].Connector != "" {
		t.Errorf("Terms[0].Connector = %q, want empty", terms[0].Connector)
	}
	if terms[1].Connector != Or {
		t.Errorf("Terms[1].Connector = %q, want OR", terms[1].Connector)
	}
}
