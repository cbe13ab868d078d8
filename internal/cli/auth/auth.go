package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "deliverydesk-console"

	accessTokenKey = "access_token"
	adminIDKey     = "admin_id"
)

// TokenStore persists the access token and admin identifier of the console
type TokenStore interface {
	Save(token, adminID string) error
	Read() (string, bool)
	AdminID() (string, bool)
	Clear() error
}

// backend is the subset of go-keyring the store uses
type backend interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

type systemKeyring struct{}

func (systemKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

func (systemKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

func (systemKeyring) Delete(service, user string) error {
	return keyring.Delete(service, user)
}

// KeyringStore keeps the credential pair in the OS keychain/credential manager.
// Keys are namespaced per environment so production and staging logins don't collide.
type KeyringStore struct {
	namespace string
	keyring   backend
}

// NewKeyringStore creates a keychain backed store for the given environment
func NewKeyringStore(namespace string) *KeyringStore {
	return &KeyringStore{namespace: namespace, keyring: systemKeyring{}}
}

func (s *KeyringStore) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", s.namespace, name)
}

// Save writes both values. The token shape is not validated. If the admin id cannot be
// written the previous token is put back, so a failed save leaves the pair unchanged.
func (s *KeyringStore) Save(token, adminID string) error {
	previous, hadPrevious := s.Read()

	if err := s.keyring.Set(service, s.key(accessTokenKey), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.keyring.Set(service, s.key(adminIDKey), adminID); err != nil {
		if rbErr := s.restoreToken(previous, hadPrevious); rbErr != nil {
			return fmt.Errorf("failed to save admin id: %w (rollback: %v)", err, rbErr)
		}
		return fmt.Errorf("failed to save admin id: %w", err)
	}
	return nil
}

func (s *KeyringStore) restoreToken(previous string, hadPrevious bool) error {
	if hadPrevious {
		return s.keyring.Set(service, s.key(accessTokenKey), previous)
	}
	err := s.keyring.Delete(service, s.key(accessTokenKey))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Read returns the last saved token
func (s *KeyringStore) Read() (string, bool) {
	return s.get(accessTokenKey)
}

// AdminID returns the last saved admin identifier
func (s *KeyringStore) AdminID() (string, bool) {
	return s.get(adminIDKey)
}

func (s *KeyringStore) get(name string) (string, bool) {
	value, err := s.keyring.Get(service, s.key(name))
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// Clear removes both values. Clearing an empty store succeeds.
func (s *KeyringStore) Clear() error {
	for _, name := range []string{accessTokenKey, adminIDKey} {
		if err := s.keyring.Delete(service, s.key(name)); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				continue // Already deleted
			}
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}
	return nil
}
