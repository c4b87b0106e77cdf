package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_KEY", "GEMINI_API_KEY", "STUDYGENIUS_MODEL", "STUDYGENIUS_ENDPOINT",
		"STUDYGENIUS_TEMPERATURE", "STUDYGENIUS_STRICT_SCHEMA", "STUDYGENIUS_HTTP_TIMEOUT",
		"STUDYGENIUS_CONFIG_DIR", "STUDYGENIUS_LOG_FILE", "STUDYGENIUS_INBOX",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("STUDYGENIUS_CONFIG_DIR", dir)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Endpoint)
	assert.InDelta(t, 0.3, cfg.Temperature, 1e-9)
	assert.True(t, cfg.StrictSchema)
	assert.Equal(t, 5*time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, filepath.Join(dir, "credentials.json"), cfg.CredentialsPath())
	assert.NotEmpty(t, cfg.LogFile)
}

func TestParseOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDYGENIUS_CONFIG_DIR", t.TempDir())
	t.Setenv("STUDYGENIUS_MODEL", "gemini-2.5-pro")
	t.Setenv("STUDYGENIUS_STRICT_SCHEMA", "false")
	t.Setenv("STUDYGENIUS_HTTP_TIMEOUT", "90s")
	t.Setenv("STUDYGENIUS_INBOX", "/tmp/inbox")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.False(t, cfg.StrictSchema)
	assert.Equal(t, 90*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/inbox", cfg.InboxDir)
}

func TestParseRejectsBadTemperature(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDYGENIUS_CONFIG_DIR", t.TempDir())
	t.Setenv("STUDYGENIUS_TEMPERATURE", "warm")

	_, err := Parse()
	assert.Error(t, err)
}

func TestResolveAPIKeyOrder(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, store.SaveAPIKey("stored-key"))

	cases := []struct {
		name       string
		cfg        Config
		wantKey    string
		wantSource KeySource
	}{
		{name: "override wins", cfg: Config{APIKeyOverride: "env-key", GeminiAPIKey: "gemini-key"}, wantKey: "env-key", wantSource: SourceAPIKeyEnv},
		{name: "gemini env", cfg: Config{GeminiAPIKey: "gemini-key"}, wantKey: "gemini-key", wantSource: SourceGeminiEnv},
		{name: "stored", cfg: Config{APIKeyOverride: "   "}, wantKey: "stored-key", wantSource: SourceStoredFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, source, err := tc.cfg.ResolveAPIKey(store)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKey, key)
			assert.Equal(t, tc.wantSource, source)
		})
	}
}

func TestResolveAPIKeyNothingConfigured(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "missing", "credentials.json"))
	key, source, err := (&Config{}).ResolveAPIKey(store)
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Equal(t, SourceNone, source)
}

func TestCredentialStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewCredentialStore(path)

	key, err := store.APIKey()
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, store.SaveAPIKey("  secret-key \n"))
	key, err = store.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "secret-key", key)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"gemini_api_key"`)

	require.NoError(t, store.Clear())
	key, err = store.APIKey()
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestCredentialStoreRejectsEmptyKey(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	assert.ErrorIs(t, store.SaveAPIKey("   "), ErrEmptyAPIKey)
}

func TestCredentialStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewCredentialStore(path).APIKey()
	assert.Error(t, err)
}
