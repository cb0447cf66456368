package sentence

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/solatis/rulebuilder/internal/debounce"
	"github.com/solatis/rulebuilder/internal/types"
)

type recorder struct {
	commits []types.Condition
}

func (r *recorder) commit(c types.Condition) {
	r.commits = append(r.commits, c)
}

func newTestEditor(t *testing.T) (*Editor, *debounce.ManualClock, *recorder) {
	t.Helper()
	clock := debounce.NewManualClock()
	rec := &recorder{}
	e := NewEditor(Config{Wait: 500 * time.Millisecond, Clock: clock}, rec.commit)
	return e, clock, rec
}

func setValue(v string) func(*Model) error {
	return func(m *Model) error {
		return m.UpdateSentence(m.Sentences[0].ID, func(s *Sentence) {
			s.Field = "custom_fields.priority"
			s.Value = v
		})
	}
}

func TestEditor_BurstCommitsOnce(t *testing.T) {
	e, clock, rec := newTestEditor(t)
	e.Load(nil)

	for _, v := range []string{"P", "P1", "P12"} {
		if err := e.Edit(setValue(v)); err != nil {
			t.Fatalf("Edit() error = %v, want nil", err)
		}
		clock.Advance(200 * time.Millisecond)
	}
	if len(rec.commits) != 0 {
		t.Fatalf("commits = %d inside the quiet window, want 0", len(rec.commits))
	}

	// 400ms since the last edit
	clock.Advance(200 * time.Millisecond)
	if len(rec.commits) != 0 {
		t.Fatalf("commits = %d before the window elapsed, want 0", len(rec.commits))
	}

	clock.Advance(100 * time.Millisecond)
	if len(rec.commits) != 1 {
		t.Fatalf("commits = %d, want exactly 1", len(rec.commits))
	}
	got := rec.commits[0]
	if got.Expression != "custom_fields.priority == P12" {
		t.Errorf("committed expression = %q", got.Expression)
	}
	if got.Name != DefaultPlaceholder {
		t.Errorf("committed name = %q, want %q", got.Name, DefaultPlaceholder)
	}

	clock.Advance(time.Second)
	if len(rec.commits) != 1 {
		t.Errorf("commits = %d after idling, want 1", len(rec.commits))
	}
}

func TestEditor_SkipsUnchangedState(t *testing.T) {
	e, clock, rec := newTestEditor(t)
	c := types.Condition{
		ID:         "12",
		Name:       "Priority Condition",
		Expression: "custom_fields.priority == P1",
		Effects:    []types.Effect{{Fields: []string{"custom_fields.stage"}, AllowedValues: []string{"triage"}, Show: true}},
	}
	e.Load(&c)

	// change and change back within the window
	_ = e.Edit(setValue("P2"))
	_ = e.Edit(setValue("P1"))
	clock.Advance(time.Second)
	if len(rec.commits) != 0 {
		t.Errorf("commits = %+v, want none for an unchanged form", rec.commits)
	}

	_ = e.Edit(func(m *Model) error { return m.AddAllowedValue(0, "in-progress") })
	clock.Advance(time.Second)
	if len(rec.commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(rec.commits))
	}
	got := rec.commits[0]
	if got.ID != "12" || got.Name != "Priority Condition" {
		t.Errorf("commit lost identity: id=%q name=%q", got.ID, got.Name)
	}
	if diff := cmp.Diff([]string{"triage", "in-progress"}, got.Effects[0].AllowedValues); diff != "" {
		t.Errorf("allowed values mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_NewConditionWithoutExpressionNotCommitted(t *testing.T) {
	e, clock, rec := newTestEditor(t)
	e.Load(nil)

	_ = e.Edit(func(m *Model) error { return m.AddAllowedValue(0, "x") })
	clock.Advance(time.Second)
	if len(rec.commits) != 0 {
		t.Errorf("commits = %+v, want none without an expression", rec.commits)
	}
}

func TestEditor_FlushCommitsImmediately(t *testing.T) {
	e, clock, rec := newTestEditor(t)
	e.Load(nil)

	_ = e.Edit(setValue("P3"))
	if !e.Pending() {
		t.Fatal("Pending() = false after Edit")
	}
	if !e.Flush() {
		t.Fatal("Flush() = false, want true")
	}
	if len(rec.commits) != 1 || rec.commits[0].Expression != "custom_fields.priority == P3" {
		t.Fatalf("commits = %+v", rec.commits)
	}

	clock.Advance(time.Second)
	if len(rec.commits) != 1 {
		t.Errorf("commits = %d after Flush and idle, want 1", len(rec.commits))
	}
	if e.Flush() {
		t.Error("second Flush() = true, want false")
	}
}

func TestEditor_LoadDropsPendingEdit(t *testing.T) {
	e, clock, rec := newTestEditor(t)
	e.Load(nil)
	_ = e.Edit(setValue("P3"))

	e.Load(&types.Condition{ID: "1", Expression: "status == open"})
	clock.Advance(time.Second)
	if len(rec.commits) != 0 {
		t.Errorf("commits = %+v, want none", rec.commits)
	}
	if got := e.Expression(); got != "status == open" {
		t.Errorf("Expression() = %q after Load", got)
	}
}

func TestEditor_FailedEditLeavesForm(t *testing.T) {
	e, _, _ := newTestEditor(t)
	e.Load(nil)
	before := e.Model()

	err := e.Edit(func(m *Model) error {
		m.AddSentence()
		return m.RemoveSentence("missing")
	})
	if err == nil {
		t.Fatal("Edit() error = nil, want error")
	}
	if e.Pending() {
		t.Error("Pending() = true after a failed edit")
	}
	if diff := cmp.Diff(before.Sentences, e.Model().Sentences); diff != "" {
		t.Errorf("form changed by failed edit (-want +got):\n%s", diff)
	}
}
