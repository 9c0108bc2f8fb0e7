// Package session holds the client's authentication state: who is logged in,
// their bearer token, and the word currently selected for practice. State is
// persisted to a YAML file so CLI invocations share one login.
package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"vocabapp/internal/config"
	"vocabapp/internal/models"
	contextutils "vocabapp/internal/utils"

	"gopkg.in/yaml.v3"
)

// persistedState is the on-disk shape of the session file.
type persistedState struct {
	Token       string             `yaml:"token,omitempty"`
	Username    string             `yaml:"username,omitempty"`
	IsAdmin     bool               `yaml:"is_admin,omitempty"`
	CurrentWord *models.WordRecord `yaml:"current_word,omitempty"`
}

// Store is the single source of truth for session state. All access goes
// through its methods; fields never escape by reference.
type Store struct {
	mu   sync.RWMutex
	path string

	token       string
	username    string
	isAdmin     bool
	currentWord *models.WordRecord
}

// NewStore creates a session store persisting to the given file path. The
// file is not read until Restore is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Restore loads persisted session state from disk. A missing, empty, or
// unreadable file leaves the store logged out without error; stale sessions
// are cleaned up on the next authenticated request via the 401 path.
func (s *Store) Restore() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return contextutils.WrapError(err, "failed to read session file")
	}

	var state persistedState
	if err := yaml.Unmarshal(data, &state); err != nil {
		// A corrupt session file is treated as logged out, not fatal.
		return nil
	}
	if state.Token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = state.Token
	s.username = state.Username
	s.isAdmin = state.IsAdmin
	s.currentWord = state.CurrentWord
	return nil
}

// Login stores the credentials of a freshly authenticated user and persists
// them. Any previously selected word is cleared.
func (s *Store) Login(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.currentWord = nil
	if user != nil {
		s.username = user.Username
		s.isAdmin = user.IsAdmin
	} else {
		s.username = ""
		s.isAdmin = false
	}
	return s.persistLocked()
}

// Logout clears all session state. Calling it on an already logged-out store
// is a no-op, which lets concurrent 401 handlers race safely.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" && s.username == "" && s.currentWord == nil {
		return nil
	}
	s.token = ""
	s.username = ""
	s.isAdmin = false
	s.currentWord = nil
	return s.persistLocked()
}

// SetCurrentWord records the word selected for practice. Passing nil clears it.
func (s *Store) SetCurrentWord(word *models.WordRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentWord = word
	return s.persistLocked()
}

// Token returns the bearer token, or empty when logged out. Satisfies the
// gateway's token source interface.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsLoggedIn reports whether a bearer token is present.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// Username returns the logged-in user's name, empty when logged out.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// IsAdmin reports whether the logged-in user has admin rights.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

// CurrentWord returns a copy of the word selected for practice, or nil.
func (s *Store) CurrentWord() *models.WordRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentWord == nil {
		return nil
	}
	word := *s.currentWord
	return &word
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	state := persistedState{
		Token:       s.token,
		Username:    s.username,
		IsAdmin:     s.isAdmin,
		CurrentWord: s.currentWord,
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return contextutils.WrapError(err, "failed to encode session state")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return contextutils.WrapError(err, "failed to create session directory")
	}
	if err := os.WriteFile(s.path, data, config.SessionFileMode); err != nil {
		return contextutils.WrapError(err, "failed to write session file")
	}
	return nil
}
