package mininote_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/adship/mininote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := mininote.LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.Nil(t, err)
	assert.Equal(t, &mininote.Config{}, cfg)
	assert.ErrorIs(t, cfg.ValidateForSync(), mininote.ErrNotLoggedIn)
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &mininote.Config{
		AuthToken:  "secret",
		TextEditor: "vim -n",
		Endpoint:   "https://notes.example.com/sync",
		OAuth: mininote.OAuthConfig{
			ClientID: "id",
			AuthURL:  "https://notes.example.com/auth",
			TokenURL: "https://notes.example.com/token",
		},
	}
	require.Nil(t, cfg.Save(path))
	loaded, err := mininote.LoadConfig(path)
	require.Nil(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Nil(t, loaded.ValidateForSync())

	loaded.DeleteAuth()
	require.Nil(t, loaded.Save(path))
	loaded, err = mininote.LoadConfig(path)
	require.Nil(t, err)
	assert.Empty(t, loaded.AuthToken)
	assert.Equal(t, "vim -n", loaded.TextEditor)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("MININOTE_TEST_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("auth_token: ${MININOTE_TEST_TOKEN}\nendpoint: http://localhost/sync\n"), 0600))
	cfg, err := mininote.LoadConfig(path)
	require.Nil(t, err)
	assert.Equal(t, "from-env", cfg.AuthToken)
	assert.Equal(t, "http://localhost/sync", cfg.Endpoint)
}

func TestSaveKeepsEnvReferences(t *testing.T) {
	t.Setenv("MININOTE_TEST_SECRET", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("oauth:\n  client_secret: ${MININOTE_TEST_SECRET}\n"), 0600))

	cfg, err := mininote.LoadConfig(path)
	require.Nil(t, err)
	assert.Equal(t, "s3cret", cfg.OAuth.ClientSecret)

	raw, err := mininote.LoadRawConfig(path)
	require.Nil(t, err)
	assert.Equal(t, "${MININOTE_TEST_SECRET}", raw.OAuth.ClientSecret)
	assert.Equal(t, "s3cret", raw.Expanded().OAuth.ClientSecret)
	assert.Equal(t, "${MININOTE_TEST_SECRET}", raw.OAuth.ClientSecret)

	raw.TextEditor = "vim"
	require.Nil(t, raw.Save(path))
	b, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(b), "${MININOTE_TEST_SECRET}")
	assert.NotContains(t, string(b), "s3cret")
	assert.Contains(t, string(b), "vim")
}

func TestLoadConfigPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permissions are not checked on windows")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("auth_token: secret\n"), 0644))
	require.Nil(t, os.Chmod(path, 0644))
	_, err := mininote.LoadConfig(path)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "stricter permissions required")
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("auth_token: [unterminated\n"), 0600))
	_, err := mininote.LoadConfig(path)
	assert.NotNil(t, err)
}

func TestValidateForSyncRequiresEndpoint(t *testing.T) {
	cfg := &mininote.Config{AuthToken: "secret"}
	err := cfg.ValidateForSync()
	require.NotNil(t, err)
	assert.NotErrorIs(t, err, mininote.ErrNotLoggedIn)
	assert.Contains(t, err.Error(), "Endpoint")
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("MININOTE_CONFIG", "/somewhere/config.yaml")
	path, err := mininote.DefaultConfigPath()
	require.Nil(t, err)
	assert.Equal(t, "/somewhere/config.yaml", path)

	t.Setenv("MININOTE_CONFIG", "")
	path, err = mininote.DefaultConfigPath()
	require.Nil(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}
