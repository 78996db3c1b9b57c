// Package auth persists the gateway bearer token between tool runs. It is
// the collaborator layer around the engine: the engine only sees the
// gateway.TokenSource contract.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken means no session is stored; the login tool must run first.
var ErrNoToken = errors.New("no stored session token, run the login tool first")

// FileTokenStore keeps the bearer token in a mode-0600 file.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Token satisfies gateway.TokenSource.
func (s *FileTokenStore) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("unable to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save stores a freshly issued token.
func (s *FileTokenStore) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("unable to write token file: %w", err)
	}
	return nil
}

// Clear removes the stored token (logout).
func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to remove token file: %w", err)
	}
	return nil
}
