// Package session persists the authenticated user's bearer token between
// runs. The store is a single JSON file under the user config dir, written
// with 0600 since it holds a credential.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type state struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Store struct {
	mu   sync.RWMutex
	path string
	cur  state
}

// Open loads the session file at path, if one exists. A missing file is not
// an error: it just means nobody is logged in yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if err := json.Unmarshal(data, &s.cur); err != nil {
		// A corrupt session file should not brick the app. Treat it as
		// logged out; the next Set overwrites it.
		s.cur = state{}
	}
	return s, nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// LoggedIn reports whether a token is present. It says nothing about whether
// the backend still accepts it.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// DisplayName returns the stored name, falling back to the local part of the
// email when no name was recorded.
func (s *Store) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.Name != "" {
		return s.cur.Name
	}
	return DisplayNameFromEmail(s.cur.Email)
}

// Set stores the token for email and persists it to disk.
func (s *Store) Set(token, email, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = state{Token: token, Email: email, Name: name}
	return s.persist()
}

// Clear logs out: it wipes the in-memory state and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = state{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.Marshal(s.cur)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// DisplayNameFromEmail derives a greeting-worthy name from an email address:
// "ana.gomez@example.com" becomes "ana.gomez".
func DisplayNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
