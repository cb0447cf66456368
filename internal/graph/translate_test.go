// internal/graph/translate_test.go
package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

var ondcValues = []string{
	"Bus - City Mapping",
	"Bus - Operator related",
	"Bus - Booking",
	"Bus - Cancellation / Refund",
	"Bus - I have an issue related to promocode/cashback",
	"Bus - Payment",
	"Bus - Ticket",
	"Bus - Boarding",
	"Bus - Other",
}

type edgePair struct{ Source, Target string }

func edgePairs(g Graph) []edgePair {
	var out []edgePair
	for _, e := range g.Edges() {
		out = append(out, edgePair{e.Source, e.Target})
	}
	return out
}

func kindCount(g Graph) map[Kind]int {
	out := map[Kind]int{}
	for _, n := range g.Nodes() {
		out[n.Kind()]++
	}
	return out
}

func TestToGraph_SingleClauseScenario(t *testing.T) {
	expr := "applies_to_part == 'don:core:dvrv-in-1:devo/2gitAZKDaa:product/6'"
	effects := []types.Effect{{
		Fields:        []string{"custom_fields.issue_category_l1"},
		AllowedValues: ondcValues,
		DefaultValues: []string{},
		Show:          true,
	}}

	g := ToGraph(expr, effects)

	if diff := cmp.Diff(map[Kind]int{KindTrigger: 1, KindOperator: 1, KindValue: 1, KindAction: 1}, kindCount(g)); diff != "" {
		t.Errorf("node kinds mismatch (-want +got):\n%s", diff)
	}
	wantEdges := []edgePair{{"if-1", "operator-1"}, {"operator-1", "value-1"}, {"value-1", "action-1"}}
	if diff := cmp.Diff(wantEdges, edgePairs(g)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	action, _ := g.Node("action-1")
	if diff := cmp.Diff(ondcValues, action.Data.(ActionData).AllowedValues); diff != "" {
		t.Errorf("action allowed values mismatch (-want +got):\n%s", diff)
	}

	back := FromGraph(g)
	if diff := cmp.Diff(expression.Parse(expr), expression.Parse(back)); diff != "" {
		t.Errorf("FromGraph() = %q not equivalent to input (-want +got):\n%s", back, diff)
	}
	if diff := cmp.Diff(effects, EffectsFromGraph(g)); diff != "" {
		t.Errorf("EffectsFromGraph() mismatch (-want +got):\n%s", diff)
	}
}

func TestToGraph_TwoClauseScenario(t *testing.T) {
	expr := "( custom_fields.issue_category_l1 == 'Bus - I have an issue related to promocode/cashback' ) && ( custom_fields.issue_category_l2 == 'I got less than expected cashback' )"
	effects := []types.Effect{{Fields: []string{"custom_fields.issue_category_l3"}, AllowedValues: []string{"Promo not applied"}, Show: true}}

	g := ToGraph(expr, effects)

	if diff := cmp.Diff(map[Kind]int{KindTrigger: 2, KindOperator: 2, KindValue: 2, KindLogical: 1, KindAction: 1}, kindCount(g)); diff != "" {
		t.Errorf("node kinds mismatch (-want +got):\n%s", diff)
	}

	back := FromGraph(g)
	want := "( custom_fields.issue_category_l1 == 'Bus - I have an issue related to promocode/cashback' AND custom_fields.issue_category_l2 == 'I got less than expected cashback' )"
	if back != want {
		t.Errorf("FromGraph() = %q, want %q", back, want)
	}

	got := expression.Parse(back)
	orig := expression.Parse(expr)
	if diff := cmp.Diff(orig.Clauses, got.Clauses); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]expression.Connector{expression.And}, got.Connectors); diff != "" {
		t.Errorf("connectors mismatch (-want +got):\n%s", diff)
	}
}

func TestToGraph_MixedConnectorsUseFirst(t *testing.T) {
	g := ToGraph("( a == 1 OR b == 2 AND c == 3 )", nil)
	logical, ok := g.FirstOfKind(KindLogical)
	if !ok {
		t.Fatalf("no logical node in %s", g)
	}
	if got := logical.Data.(LogicalData).Connector; got != expression.Or {
		t.Errorf("connector = %q, want OR", got)
	}
	if got, want := FromGraph(g), "( a == 1 OR b == 2 OR c == 3 )"; got != want {
		t.Errorf("FromGraph() = %q, want %q", got, want)
	}
}

func TestToGraph_UnparseableIsEmpty(t *testing.T) {
	for _, in := range []string{"", "garbage", "status ==", "( a == 1"} {
		if g := ToGraph(in, []types.Effect{{Fields: []string{"x"}}}); !g.Empty() {
			t.Errorf("ToGraph(%q) = %s, want empty", in, g)
		}
	}
}

func TestLoad_FallsBackToDefaultFlow(t *testing.T) {
	g := Load("garbage", nil)
	if diff := cmp.Diff(DefaultFlow().Nodes(), g.Nodes()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultFlow(t *testing.T) {
	g := DefaultFlow()
	want := []edgePair{
		{"if-default", "operator-default"},
		{"operator-default", "value-default"},
		{"value-default", "action-default"},
	}
	if diff := cmp.Diff(want, edgePairs(g)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	// value is empty, so nothing to save yet
	if got := FromGraph(g); got != "" {
		t.Errorf("FromGraph(DefaultFlow()) = %q, want empty", got)
	}
	effects := EffectsFromGraph(g)
	if len(effects) != 1 || effects[0].TargetField() != DefaultActionField || !effects[0].Show {
		t.Errorf("EffectsFromGraph(DefaultFlow()) = %+v", effects)
	}
}

func TestFromGraph_SkipsIncompleteChains(t *testing.T) {
	g, err := New(
		[]Node{
			{ID: "if-1", Data: TriggerData{Field: "custom_fields.priority"}},
			{ID: "operator-1", Data: OperatorData{Operator: types.OpEq}},
			{ID: "value-1", Data: ValueData{Value: "high"}},
			{ID: "if-2", Data: TriggerData{Field: "custom_fields.status"}},
			{ID: "operator-2", Data: OperatorData{Operator: types.OpNeq}},
			{ID: "value-2", Data: ValueData{Value: "closed"}},
			{ID: "logical-1", Data: LogicalData{Connector: expression.Or}},
		},
		[]Edge{
			{ID: "a", Source: "if-1", Target: "operator-1"},
			{ID: "b", Source: "operator-1", Target: "value-1"},
			{ID: "c", Source: "if-2", Target: "operator-2"},
			// operator-2 -> value-2 missing
		},
	)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	if got, want := FromGraph(g), "custom_fields.priority == high"; got != want {
		t.Errorf("FromGraph() = %q, want %q", got, want)
	}
	if got := Clauses(g); len(got) != 1 {
		t.Errorf("Clauses() = %v, want exactly one", got)
	}
}

func TestFromGraph_NoLogical(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  string
	}{
		{
			name: "first of each kind wins regardless of edges",
			nodes: []Node{
				{ID: "value-1", Data: ValueData{Value: "P1"}},
				{ID: "if-1", Data: TriggerData{Field: "custom_fields.priority"}},
				{ID: "if-2", Data: TriggerData{Field: "custom_fields.status"}},
				{ID: "operator-1", Data: OperatorData{Operator: types.OpEq}},
				{ID: "value-2", Data: ValueData{Value: "P2"}},
			},
			want: "custom_fields.priority == P1",
		},
		{
			name: "none sentinel value",
			nodes: []Node{
				{ID: "if-1", Data: TriggerData{Field: "status"}},
				{ID: "operator-1", Data: OperatorData{Operator: types.OpEq}},
				{ID: "value-1", Data: ValueData{Value: types.None}},
			},
			want: "",
		},
		{
			name: "none sentinel field",
			nodes: []Node{
				{ID: "if-1", Data: TriggerData{Field: types.None}},
				{ID: "operator-1", Data: OperatorData{Operator: types.OpEq}},
				{ID: "value-1", Data: ValueData{Value: "x"}},
			},
			want: "",
		},
		{
			name:  "missing operator node",
			nodes: []Node{{ID: "if-1", Data: TriggerData{Field: "status"}}, {ID: "value-1", Data: ValueData{Value: "x"}}},
			want:  "",
		},
		{
			name:  "empty graph",
			nodes: nil,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.nodes, nil)
			if err != nil {
				t.Fatalf("New() error = %v, want nil", err)
			}
			if got := FromGraph(g); got != tt.want {
				t.Errorf("FromGraph() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectsFromGraph_SkipsBlankFields(t *testing.T) {
	g, err := New([]Node{
		{ID: "action-1", Data: ActionData{Field: "custom_fields.stage", AllowedValues: []string{"triage"}, Mandatory: true}},
		{ID: "action-2", Data: ActionData{Field: types.None}},
		{ID: "action-3", Data: ActionData{}},
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	want := []types.Effect{{
		Fields:        []string{"custom_fields.stage"},
		AllowedValues: []string{"triage"},
		DefaultValues: []string{},
		Mandatory:     true,
	}}
	if diff := cmp.Diff(want, EffectsFromGraph(g)); diff != "" {
		t.Errorf("EffectsFromGraph() mismatch (-want +got):\n%s", diff)
	}
}

func TestMixedConnectors(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a == 1", false},
		{"( a == 1 ) && ( b == 2 )", false},
		{"( a == 1 OR b == 2 OR c == 3 )", false},
		{"( a == 1 AND b == 2 OR c == 3 )", true},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := MixedConnectors(tt.in); got != tt.want {
			t.Errorf("MixedConnectors(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
