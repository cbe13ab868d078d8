package envselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deliverydesk/deliverydesk/internal/cli/config"
	"github.com/deliverydesk/deliverydesk/internal/cli/userconfig"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Mode:        config.ModeProduction,
		DevProxyURL: config.DefaultDevProxyURL,
		ConfigDir:   t.TempDir(),
	}
}

func TestResolve_DefaultsToBuildMode(t *testing.T) {
	cfg := testConfig(t)

	env, err := Resolve(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "production", env.Name)
	assert.Equal(t, config.ProductionAPIURL, env.APIURL)
}

func TestResolve_ExplicitName(t *testing.T) {
	cfg := testConfig(t)

	env, err := Resolve(cfg, "development")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDevProxyURL, env.APIURL)

	_, err = Resolve(cfg, "nowhere")
	assert.EqualError(t, err, "environment 'nowhere' not found")
}

func TestResolve_SelectedEnvironment(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, userconfig.Save(cfg.ConfigDir, &userconfig.UserConfig{
		SelectedEnvironment: "staging",
		Environments: []config.Environment{
			{Name: "staging", APIURL: "https://staging.deliverydesk.io/api/v1"},
		},
	}))

	env, err := Resolve(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "staging", env.Name)
}

func TestResolve_StaleSelectionIsCleared(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, userconfig.SetSelectedEnvironment(cfg.ConfigDir, "gone"))

	env, err := Resolve(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "production", env.Name)

	userCfg, err := userconfig.Load(cfg.ConfigDir)
	require.NoError(t, err)
	assert.Empty(t, userCfg.SelectedEnvironment)
}

func TestResolve_APIURLOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.APIURL = "http://127.0.0.1:8080/api/v1"

	env, err := Resolve(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "production", env.Name)
	assert.Equal(t, "http://127.0.0.1:8080/api/v1", env.APIURL)
}
