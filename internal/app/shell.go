// Package app is the application shell: it owns the condition store and
// the single open editing session, and exposes the create / edit / delete /
// save / back actions the views call.
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/solatis/rulebuilder/internal/editor"
	"github.com/solatis/rulebuilder/internal/store"
	"github.com/solatis/rulebuilder/internal/types"
)

// View is the screen the shell is showing.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewList      View = "list"
	ViewEditor    View = "editor"
)

// Shell wires the store to at most one editing session.
type Shell struct {
	mu      sync.Mutex
	store   *store.Store
	cfg     editor.Config
	logger  *slog.Logger
	session *editor.Session
	view    View
}

// New creates a shell over st. A nil logger discards output.
func New(st *store.Store, cfg editor.Config, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{store: st, cfg: cfg, logger: logger, view: ViewDashboard}
}

// Store returns the underlying condition store.
func (s *Shell) Store() *store.Store {
	return s.store
}

// View returns the current screen.
func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Create opens the editor on a new, empty condition. Any open session is
// discarded.
func (s *Shell) Create() *editor.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	s.session = editor.Open(nil, s.cfg)
	s.view = ViewEditor
	s.logger.Debug("editor opened", "condition_id", "", "new", true)
	return s.session
}

// Edit opens the editor on the stored condition with the given id.
func (s *Shell) Edit(id types.ConditionID) (*editor.Session, error) {
	c, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	s.session = editor.Open(&c, s.cfg)
	s.view = ViewEditor
	s.logger.Debug("editor opened", "condition_id", id, "new", false)
	return s.session, nil
}

// Session returns the open editing session.
func (s *Shell) Session() (*editor.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, types.ErrNoSession
	}
	return s.session, nil
}

// Save stores the open session's condition, closes the session and returns
// to the dashboard. New conditions receive an id here.
func (s *Shell) Save() (types.Condition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return types.Condition{}, fmt.Errorf("save: %w", types.ErrNoSession)
	}

	c := s.session.Save()
	if s.session.IsNew() {
		c.ID = ""
	}
	saved := s.store.Save(c)
	s.closeLocked()
	s.view = ViewDashboard

	s.logger.Debug("condition saved",
		"condition_id", saved.ID,
		"name", saved.Name,
		"expression", saved.Expression,
		"effects", len(saved.Effects))
	return saved, nil
}

// Back abandons the open session without saving and returns to the list.
func (s *Shell) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.logger.Debug("editor abandoned", "condition_id", s.session.ID())
	}
	s.closeLocked()
	s.view = ViewList
}

// Delete removes a stored condition.
func (s *Shell) Delete(id types.ConditionID) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Debug("condition deleted", "condition_id", id)
	return nil
}

// ShowList switches to the list view.
func (s *Shell) ShowList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewList
}

// ShowDashboard switches to the dashboard view.
func (s *Shell) ShowDashboard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewDashboard
}

func (s *Shell) closeLocked() {
	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
}
