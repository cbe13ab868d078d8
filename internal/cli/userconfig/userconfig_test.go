package userconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deliverydesk/deliverydesk/internal/cli/config"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.SelectedEnvironment)
	assert.Empty(t, cfg.Environments)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	want := &UserConfig{
		SelectedEnvironment: "staging",
		Environments: []config.Environment{
			{Name: "staging", APIURL: "https://staging-admin-api.deliverydesk.io/api/v1"},
		},
	}

	require.NoError(t, Save(dir, want))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSetSelectedEnvironment_KeepsEnvironments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, &UserConfig{
		Environments: []config.Environment{{Name: "staging", APIURL: "http://x/api/v1"}},
	}))

	require.NoError(t, SetSelectedEnvironment(dir, "staging"))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "staging", got.SelectedEnvironment)
	assert.Len(t, got.Environments, 1)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("{nope"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}
