// Package store keeps the in-memory condition collection behind the list,
// dashboard and editor views.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/solatis/rulebuilder/internal/expression"
	"github.com/solatis/rulebuilder/internal/types"
)

// Store is an ordered, id-indexed set of conditions. Safe for concurrent use.
// Records are copied in and out; callers never share effect slices with it.
type Store struct {
	mu         sync.RWMutex
	conditions []types.Condition
	index      map[types.ConditionID]int
}

// New creates a store holding the given conditions in order. Records without
// an id are assigned one; a repeated id replaces the earlier record.
func New(conditions ...types.Condition) *Store {
	s := &Store{index: make(map[types.ConditionID]int, len(conditions))}
	for _, c := range conditions {
		s.saveLocked(c)
	}
	return s
}

// Len returns the number of stored conditions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conditions)
}

// List returns every condition in insertion order.
func (s *Store) List() []types.Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Condition, len(s.conditions))
	for i, c := range s.conditions {
		out[i] = c.Clone()
	}
	return out
}

// Get returns the condition with the given id.
func (s *Store) Get(id types.ConditionID) (types.Condition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return types.Condition{}, fmt.Errorf("%w: %s", types.ErrConditionNotFound, id)
	}
	return s.conditions[i].Clone(), nil
}

// Save upserts c by id. An empty id is replaced by a new UUIDv7 and the
// record is appended. Returns the stored record.
func (s *Store) Save(c types.Condition) types.Condition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(c)
}

func (s *Store) saveLocked(c types.Condition) types.Condition {
	c = c.Clone()
	if c.ID == "" {
		c.ID = types.NewConditionID()
	}
	if c.Effects == nil {
		c.Effects = []types.Effect{}
	}
	if i, ok := s.index[c.ID]; ok {
		s.conditions[i] = c
	} else {
		s.index[c.ID] = len(s.conditions)
		s.conditions = append(s.conditions, c)
	}
	return c.Clone()
}

// Delete removes the condition with the given id.
func (s *Store) Delete(id types.ConditionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrConditionNotFound, id)
	}
	s.conditions = append(s.conditions[:i:i], s.conditions[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.conditions); j++ {
		s.index[s.conditions[j].ID] = j
	}
	return nil
}

// Filter selects conditions for the list and dashboard views. Empty fields
// match everything.
type Filter struct {
	// Query matches case-insensitively against the name and the display
	// summary's field and value.
	Query string
	// TriggerField must equal the display summary's field.
	TriggerField string
	// TargetField must appear among some effect's fields.
	TargetField string
}

// Match reports whether c passes the filter.
func (f Filter) Match(c types.Condition) bool {
	sum := expression.Summarize(c.Expression)

	if q := strings.ToLower(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(sum.Field), q) &&
			!strings.Contains(strings.ToLower(sum.Value), q) {
			return false
		}
	}
	if f.TriggerField != "" && sum.Field != f.TriggerField {
		return false
	}
	if f.TargetField != "" && !targets(c, f.TargetField) {
		return false
	}
	return true
}

// Find returns the conditions matching f, in insertion order.
func (s *Store) Find(f Filter) []types.Condition {
	var out []types.Condition
	for _, c := range s.List() {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// TriggerFields returns the distinct summary fields across all conditions,
// sorted. These are the trigger-field filter choices.
func (s *Store) TriggerFields() []string {
	set := map[string]struct{}{}
	for _, c := range s.List() {
		if f := expression.Summarize(c.Expression).Field; f != "" {
			set[f] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// TargetFields returns the distinct effect target fields, sorted.
func (s *Store) TargetFields() []string {
	return targetFields(s.List())
}

// Stats are the dashboard totals.
type Stats struct {
	Conditions   int `json:"conditions"`
	Effects      int `json:"effects"`
	TargetFields int `json:"target_fields"`
}

// Summarize computes dashboard totals over cs.
func Summarize(cs []types.Condition) Stats {
	st := Stats{Conditions: len(cs), TargetFields: len(targetFields(cs))}
	for _, c := range cs {
		st.Effects += len(c.Effects)
	}
	return st
}

func targets(c types.Condition, field string) bool {
	for _, e := range c.Effects {
		for _, f := range e.Fields {
			if f == field {
				return true
			}
		}
	}
	return false
}

func targetFields(cs []types.Condition) []string {
	set := map[string]struct{}{}
	for _, c := range cs {
		for _, e := range c.Effects {
			for _, f := range e.Fields {
				set[f] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
