package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const credentialsFileName = "credentials.json"

// FileStore keeps the credential pair in a 0600 JSON file. It is used on hosts without a
// keychain (CI runners, containers).
type FileStore struct {
	mu        sync.Mutex
	path      string
	namespace string
}

type credentialFile map[string]map[string]string

// NewFileStore creates a file backed store rooted at dir
func NewFileStore(dir, namespace string) *FileStore {
	return &FileStore{
		path:      filepath.Join(dir, credentialsFileName),
		namespace: namespace,
	}
}

// Path returns the credentials file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() (credentialFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return credentialFile{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds := credentialFile{}
	if len(data) == 0 {
		return creds, nil
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return creds, nil
}

func (s *FileStore) write(creds credentialFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// Save writes both values
func (s *FileStore) Save(token, adminID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return err
	}
	creds[s.namespace] = map[string]string{
		accessTokenKey: token,
		adminIDKey:     adminID,
	}
	return s.write(creds)
}

// Read returns the last saved token
func (s *FileStore) Read() (string, bool) {
	return s.get(accessTokenKey)
}

// AdminID returns the last saved admin identifier
func (s *FileStore) AdminID() (string, bool) {
	return s.get(adminIDKey)
}

func (s *FileStore) get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return "", false
	}
	value := creds[s.namespace][name]
	return value, value != ""
}

// Clear removes both values for this namespace
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := creds[s.namespace]; !ok {
		return nil
	}
	delete(creds, s.namespace)
	return s.write(creds)
}
