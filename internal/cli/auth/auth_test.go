package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStore_SaveReadClear(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("production")

	_, ok := store.Read()
	assert.False(t, ok, "empty store should hold no token")

	require.NoError(t, store.Save("tok1", "A1"))

	token, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "tok1", token)

	adminID, ok := store.AdminID()
	require.True(t, ok)
	assert.Equal(t, "A1", adminID)

	require.NoError(t, store.Clear())
	_, ok = store.Read()
	assert.False(t, ok)
	_, ok = store.AdminID()
	assert.False(t, ok)
}

func TestKeyringStore_ClearIsIdempotent(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("production")

	require.NoError(t, store.Clear())
	require.NoError(t, store.Save("tok1", "A1"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Read()
	assert.False(t, ok)
}

func TestKeyringStore_NamespacesAreIsolated(t *testing.T) {
	keyring.MockInit()
	prod := NewKeyringStore("production")
	dev := NewKeyringStore("development")

	require.NoError(t, prod.Save("prod-token", "A1"))

	_, ok := dev.Read()
	assert.False(t, ok)

	require.NoError(t, dev.Clear())
	token, ok := prod.Read()
	require.True(t, ok)
	assert.Equal(t, "prod-token", token)
}

func TestFileStore_SaveReadClear(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "production")

	_, ok := store.Read()
	assert.False(t, ok)

	require.NoError(t, store.Save("tok1", "A1"))

	info, err := os.Stat(filepath.Join(dir, credentialsFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// a second store over the same file sees the persisted pair
	reopened := NewFileStore(dir, "production")
	token, ok := reopened.Read()
	require.True(t, ok)
	assert.Equal(t, "tok1", token)
	adminID, ok := reopened.AdminID()
	require.True(t, ok)
	assert.Equal(t, "A1", adminID)

	require.NoError(t, reopened.Clear())
	require.NoError(t, reopened.Clear())
	_, ok = store.Read()
	assert.False(t, ok)
}

func TestFileStore_ClearKeepsOtherNamespaces(t *testing.T) {
	dir := t.TempDir()
	prod := NewFileStore(dir, "production")
	dev := NewFileStore(dir, "development")

	require.NoError(t, prod.Save("prod-token", "A1"))
	require.NoError(t, dev.Save("dev-token", "A2"))
	require.NoError(t, dev.Clear())

	token, ok := prod.Read()
	require.True(t, ok)
	assert.Equal(t, "prod-token", token)
}

// failingAdminID fails every admin id write and passes everything else through
type failingAdminID struct {
	systemKeyring
}

var errKeychainLocked = errors.New("keychain locked")

func (f failingAdminID) Set(service, user, password string) error {
	if strings.HasSuffix(user, adminIDKey) {
		return errKeychainLocked
	}
	return f.systemKeyring.Set(service, user, password)
}

func TestKeyringStore_FailedSaveKeepsPreviousPair(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("production")
	require.NoError(t, store.Save("old-token", "A1"))

	store.keyring = failingAdminID{}
	err := store.Save("new-token", "A2")
	require.ErrorIs(t, err, errKeychainLocked)

	token, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "old-token", token)
	adminID, ok := store.AdminID()
	require.True(t, ok)
	assert.Equal(t, "A1", adminID)
}

func TestKeyringStore_FailedFirstSaveLeavesStoreEmpty(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("production")
	store.keyring = failingAdminID{}

	require.Error(t, store.Save("new-token", "A2"))

	_, ok := store.Read()
	assert.False(t, ok)
}
