package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	credentialsFile = "credentials.json"
	apiKeyField     = "gemini_api_key"
)

var ErrEmptyAPIKey = errors.New("API key cannot be empty")

// CredentialStore persists the Gemini API key as a small JSON document.
type CredentialStore struct {
	mu   sync.Mutex
	path string
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func (s *CredentialStore) Path() string { return s.path }

func (s *CredentialStore) load() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return k, nil
	}
	if err := k.Load(file.Provider(s.path), json.Parser()); err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", s.path, err)
	}
	return k, nil
}

// APIKey returns the stored key, or "" when nothing has been saved.
func (s *CredentialStore) APIKey() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, err := s.load()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(k.String(apiKeyField)), nil
}

// SaveAPIKey writes key, keeping any other fields already in the file.
func (s *CredentialStore) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k, err := s.load()
	if err != nil {
		return err
	}
	if err := k.Set(apiKeyField, key); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	raw, err := k.Marshal(json.Parser())
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear forgets the stored key.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
