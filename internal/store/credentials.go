package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

var ErrUserExists = errors.New("user already exists")

// CredentialStore is a durable username -> password-hash lookup. The file
// implementation rewrites the whole file on every mutation; callers only see
// the interface so that detail can change without touching them.
type CredentialStore interface {
	FindByUsername(username string) (*Credential, error)
	Add(username, passwordHash string) error
}

type FileCredentialStore struct {
	mu    sync.Mutex
	path  string
	users []Credential
}

// NewFileCredentialStore loads the full credential list into memory, creating
// an empty file when none exists.
func NewFileCredentialStore(path string) (*FileCredentialStore, error) {
	s := &FileCredentialStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read users file %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			return nil, fmt.Errorf("failed to create users file %s: %w", path, err)
		}
		return s, nil
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}
	return s, nil
}

func (s *FileCredentialStore) FindByUsername(username string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Username == username {
			cred := s.users[i]
			return &cred, nil
		}
	}
	return nil, nil // Not found
}

func (s *FileCredentialStore) Add(username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Username == username {
			return ErrUserExists
		}
	}

	s.users = append(s.users, Credential{
		Username:     username,
		PasswordHash: passwordHash,
	})
	if err := s.flush(); err != nil {
		// Keep the in-memory list consistent with the file on failure.
		s.users = s.users[:len(s.users)-1]
		return err
	}
	return nil
}

// flush rewrites the whole file. Not transactional: a crash mid-write can
// corrupt the file, which is acceptable for this store's scope.
func (s *FileCredentialStore) flush() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write users file %s: %w", s.path, err)
	}
	return nil
}
