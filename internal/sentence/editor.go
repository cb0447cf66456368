// internal/sentence/editor.go
package sentence

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/solatis/rulebuilder/internal/debounce"
	"github.com/solatis/rulebuilder/internal/types"
)

/*
 * Debounced sentence editor.
 *
 * Every edit restarts a quiet-period timer; when it expires the current
 * sentences and effects are rendered and handed to the commit callback as a
 * Condition. A burst of edits inside the window therefore produces exactly
 * one commit carrying the final state.
 *
 * A commit is skipped when the rendered expression and effects equal what
 * was last loaded or committed, and when there is nothing to say at all (no
 * expression and no condition being edited).
 *
 * Flush commits immediately; callers use it at mode switches so no edit is
 * lost. The commit callback runs without the editor lock held and may call
 * back into the editor.
 */

// DefaultWait is the quiet period between the last edit and the commit.
const DefaultWait = 500 * time.Millisecond

// DefaultPlaceholder names conditions that have not been named yet.
const DefaultPlaceholder = "Untitled"

// Config tunes an Editor. Zero fields take the defaults.
type Config struct {
	Wait        time.Duration
	Clock       debounce.Clock
	Placeholder string
}

// CommitFunc receives the condition rendered from the sentence form.
type CommitFunc func(types.Condition)

type snapshot struct {
	expression string
	effects    []byte
}

// Editor owns a Model and commits it through a debouncer.
type Editor struct {
	mu          sync.Mutex
	model       Model
	base        *types.Condition
	last        *snapshot
	placeholder string

	debounce *debounce.Debouncer
	commit   CommitFunc
}

// NewEditor creates an editor holding an empty form.
func NewEditor(cfg Config, commit CommitFunc) *Editor {
	if cfg.Wait <= 0 {
		cfg.Wait = DefaultWait
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	e := &Editor{
		placeholder: cfg.Placeholder,
		debounce:    debounce.New(cfg.Wait, cfg.Clock),
		commit:      commit,
	}
	e.model = NewModel(nil)
	return e
}

// Load replaces the form with one derived from c (nil for a new condition).
// Any pending commit is dropped.
func (e *Editor) Load(c *types.Condition) {
	e.debounce.Cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.model = NewModel(c)
	e.base = nil
	e.last = nil
	if c != nil {
		cc := c.Clone()
		e.base = &cc
		e.last = &snapshot{expression: cc.Expression, effects: effectsKey(cc.Effects)}
	}
}

// Edit applies fn to the form and restarts the commit timer. When fn fails
// the form is left unchanged and no commit is scheduled.
func (e *Editor) Edit(fn func(*Model) error) error {
	e.mu.Lock()
	m := e.model.Clone()
	if err := fn(&m); err != nil {
		e.mu.Unlock()
		return err
	}
	e.model = m
	e.mu.Unlock()

	e.debounce.Trigger(e.commitPending)
	return nil
}

// Model returns a copy of the current form.
func (e *Editor) Model() Model {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Clone()
}

// Expression renders the current form without committing.
func (e *Editor) Expression() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Expression()
}

// Flush commits a pending edit now. Returns whether one was pending.
func (e *Editor) Flush() bool {
	return e.debounce.Flush()
}

// Pending reports whether an edit is waiting for the quiet period.
func (e *Editor) Pending() bool {
	return e.debounce.Pending()
}

// Close drops any pending commit.
func (e *Editor) Close() {
	e.debounce.Cancel()
}

func (e *Editor) commitPending() {
	e.mu.Lock()
	c, ok := e.render()
	e.mu.Unlock()

	if ok && e.commit != nil {
		e.commit(c)
	}
}

// render builds the condition to commit and records it as the last state.
// Caller must hold e.mu.
func (e *Editor) render() (types.Condition, bool) {
	expr := e.model.Expression()
	if expr == "" && e.base == nil {
		return types.Condition{}, false
	}

	effects := cloneEffects(e.model.Effects)
	snap := snapshot{expression: expr, effects: effectsKey(effects)}
	if e.last != nil && e.last.expression == snap.expression && string(e.last.effects) == string(snap.effects) {
		return types.Condition{}, false
	}
	e.last = &snap

	c := types.Condition{Name: e.placeholder, Expression: expr, Effects: effects}
	if e.base != nil {
		c.ID = e.base.ID
		if e.base.Name != "" {
			c.Name = e.base.Name
		}
	}
	return c, true
}

// effectsKey is the comparison form of an effect list. The JSON encoding
// treats nil and empty lists alike.
func effectsKey(effects []types.Effect) []byte {
	if len(effects) == 0 {
		return []byte("[]")
	}
	b, err := json.Marshal(effects)
	if err != nil {
		return nil
	}
	return b
}
