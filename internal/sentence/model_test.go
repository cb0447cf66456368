package sentence

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

var ignoreIDs = cmpopts.IgnoreFields(Sentence{}, "ID")

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Sentence
	}{
		{
			name: "empty",
			in:   "",
			want: []Sentence{{Operator: types.OpEq}},
		},
		{
			name: "single clause",
			in:   "custom_fields.priority == P1",
			want: []Sentence{{Field: "custom_fields.priority", Operator: types.OpEq, Value: "P1"}},
		},
		{
			name: "canonical stored conjunction",
			in:   "( custom_fields.issue_category_l1 == 'Bus - I have an issue related to promocode/cashback' ) && ( custom_fields.issue_category_l2 == 'I got less than expected cashback' )",
			want: []Sentence{
				{Field: "custom_fields.issue_category_l1", Operator: types.OpEq, Value: "Bus - I have an issue related to promocode/cashback"},
				{Field: "custom_fields.issue_category_l2", Operator: types.OpEq, Value: "I got less than expected cashback", Connector: expression.And},
			},
		},
		{
			name: "flat chain of three",
			in:   "( user.role == admin OR custom_fields.status != closed AND custom_fields.priority >= 2 )",
			want: []Sentence{
				{Field: "user.role", Operator: types.OpEq, Value: "admin"},
				{Field: "custom_fields.status", Operator: types.OpNeq, Value: "closed", Connector: expression.Or},
				{Field: "custom_fields.priority", Operator: types.OpGte, Value: "2", Connector: expression.And},
			},
		},
		{
			name: "garbage",
			in:   "this is not a condition",
			want: []Sentence{{Operator: types.OpEq}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.in), ignoreIDs); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_AssignsDistinctIDs(t *testing.T) {
	got := Parse("( a == 1 AND b == 2 AND c == 3 )")
	seen := map[string]bool{}
	for _, s := range got {
		if s.ID == "" || seen[s.ID] {
			t.Errorf("sentence id %q empty or repeated", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   []Sentence
		want string
	}{
		{"nothing complete", []Sentence{{Operator: types.OpEq}}, ""},
		{"single", []Sentence{{Field: "status", Operator: types.OpEq, Value: "open"}}, "status == open"},
		{"quotes whitespace", []Sentence{{Field: "status", Operator: types.OpEq, Value: "in progress"}}, "status == 'in progress'"},
		{
			name: "connector defaults to AND",
			in:   []Sentence{{Field: "a", Operator: types.OpEq, Value: "1"}, {Field: "b", Operator: types.OpLt, Value: "2"}},
			want: "( a == 1 AND b < 2 )",
		},
		{
			name: "OR kept",
			in:   []Sentence{{Field: "a", Operator: types.OpEq, Value: "1"}, {Field: "b", Operator: types.OpEq, Value: "2", Connector: expression.Or}},
			want: "( a == 1 OR b == 2 )",
		},
		{
			name: "incomplete middle sentence dropped",
			in: []Sentence{
				{Field: "a", Operator: types.OpEq, Value: "1"},
				{Field: "b", Operator: types.OpEq, Value: types.None, Connector: expression.And},
				{Field: "c", Operator: types.OpEq, Value: "3", Connector: expression.Or},
			},
			want: "( a == 1 OR c == 3 )",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.in); got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTwoClauseRoundTrip(t *testing.T) {
	in := "( custom_fields.issue_category_l1 == 'Bus - I have an issue related to promocode/cashback' ) && ( custom_fields.issue_category_l2 == 'I got less than expected cashback' )"
	out := Generate(Parse(in))

	got := expression.Parse(out)
	want := expression.Parse(in)
	if diff := cmp.Diff(want.Clauses, got.Clauses); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]expression.Connector{expression.And}, got.Connectors); diff != "" {
		t.Errorf("connectors mismatch (-want +got):\n%s", diff)
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(nil)
	if len(m.Sentences) != 1 || m.Expression() != "" {
		t.Errorf("NewModel(nil) sentences = %+v", m.Sentences)
	}
	if diff := cmp.Diff([]types.Effect{DefaultEffect()}, m.Effects); diff != "" {
		t.Errorf("NewModel(nil) effects mismatch (-want +got):\n%s", diff)
	}

	c := &types.Condition{
		ID:         "7",
		Expression: "custom_fields.department == Engineering",
		Effects:    []types.Effect{{Fields: []string{"custom_fields.owner"}, AllowedValues: []string{"Dev Team"}}},
	}
	m = NewModel(c)
	m.Effects[0].AllowedValues[0] = "changed"
	if c.Effects[0].AllowedValues[0] != "Dev Team" {
		t.Error("NewModel() aliases the condition's effects")
	}
	if got := m.Expression(); got != c.Expression {
		t.Errorf("Expression() = %q, want %q", got, c.Expression)
	}
}

func TestModel_SentenceOperations(t *testing.T) {
	m := NewModel(nil)
	first := m.Sentences[0].ID

	second := m.AddSentence()
	if got := m.Sentences[1].Connector; got != expression.And {
		t.Errorf("AddSentence() connector = %q, want AND", got)
	}

	err := m.UpdateSentence(first, func(s *Sentence) {
		s.Field = "custom_fields.priority"
		s.Value = "P1"
		s.ID = "hijacked"
	})
	if err != nil {
		t.Fatalf("UpdateSentence() error = %v, want nil", err)
	}
	if m.Sentences[0].ID != first {
		t.Errorf("UpdateSentence() changed id to %q", m.Sentences[0].ID)
	}
	_ = m.UpdateSentence(second, func(s *Sentence) {
		s.Field = "custom_fields.status"
		s.Operator = types.OpNeq
		s.Value = "closed"
		s.Connector = expression.Or
	})
	if got, want := m.Expression(), "( custom_fields.priority == P1 OR custom_fields.status != closed )"; got != want {
		t.Errorf("Expression() = %q, want %q", got, want)
	}

	if err := m.RemoveSentence(first); err != nil {
		t.Fatalf("RemoveSentence() error = %v, want nil", err)
	}
	if got := m.Sentences[0].Connector; got != "" {
		t.Errorf("first sentence connector = %q after removal, want empty", got)
	}
	if got, want := m.Expression(), "custom_fields.status != closed"; got != want {
		t.Errorf("Expression() = %q, want %q", got, want)
	}

	if err := m.RemoveSentence("missing"); !errors.Is(err, types.ErrSentenceNotFound) {
		t.Errorf("RemoveSentence(missing) error = %v, want ErrSentenceNotFound", err)
	}
	if err := m.UpdateSentence("missing", func(*Sentence) {}); !errors.Is(err, types.ErrSentenceNotFound) {
		t.Errorf("UpdateSentence(missing) error = %v, want ErrSentenceNotFound", err)
	}
}

func TestModel_EffectOperations(t *testing.T) {
	m := NewModel(nil)

	if err := m.AddAllowedValue(0, "  Bus - Payment  "); err != nil {
		t.Fatalf("AddAllowedValue() error = %v, want nil", err)
	}
	if err := m.AddAllowedValue(0, "   "); err != nil {
		t.Fatalf("AddAllowedValue(blank) error = %v, want nil", err)
	}
	_ = m.AddAllowedValue(0, "Bus - Ticket")
	if diff := cmp.Diff([]string{"Bus - Payment", "Bus - Ticket"}, m.Effects[0].AllowedValues); diff != "" {
		t.Errorf("allowed values mismatch (-want +got):\n%s", diff)
	}

	if err := m.RemoveAllowedValue(0, 0); err != nil {
		t.Fatalf("RemoveAllowedValue() error = %v, want nil", err)
	}
	if diff := cmp.Diff([]string{"Bus - Ticket"}, m.Effects[0].AllowedValues); diff != "" {
		t.Errorf("allowed values mismatch (-want +got):\n%s", diff)
	}

	i := m.AddEffect()
	if err := m.UpdateEffect(i, func(e *types.Effect) {
		e.Fields = []string{"custom_fields.priority"}
		e.Show = false
		e.Mandatory = true
	}); err != nil {
		t.Fatalf("UpdateEffect() error = %v, want nil", err)
	}
	if got := m.Effects[i]; got.TargetField() != "custom_fields.priority" || got.Show || got.Optional() {
		t.Errorf("UpdateEffect() = %+v", got)
	}

	if err := m.RemoveEffect(0); err != nil {
		t.Fatalf("RemoveEffect() error = %v, want nil", err)
	}
	if len(m.Effects) != 1 || m.Effects[0].TargetField() != "custom_fields.priority" {
		t.Errorf("RemoveEffect() left %+v", m.Effects)
	}

	for name, err := range map[string]error{
		"RemoveEffect":       m.RemoveEffect(5),
		"UpdateEffect":       m.UpdateEffect(-1, func(*types.Effect) {}),
		"AddAllowedValue":    m.AddAllowedValue(3, "x"),
		"AddAllowedValue ''": m.AddAllowedValue(3, ""),
		"RemoveAllowedValue": m.RemoveAllowedValue(0, 9),
	} {
		if !errors.Is(err, types.ErrEffectNotFound) {
			t.Errorf("%s() error = %v, want ErrEffectNotFound", name, err)
		}
	}
}
