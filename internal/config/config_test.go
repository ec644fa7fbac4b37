package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	t.Setenv(EnvConfigPath, path)
	return path
}

func TestDefaultHTTPConfig(t *testing.T) {
	config := DefaultHTTPConfig()
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 3, config.RetryAttempts)
	assert.Equal(t, 1*time.Second, config.RetryDelay)
	assert.Equal(t, 10*time.Second, config.MaxRetryDelay)
	assert.Equal(t, 10.0, config.RequestsPerSecond)
	assert.Equal(t, 15, config.Burst)
}

func TestDefaultPollingConfig(t *testing.T) {
	config := DefaultPollingConfig()
	assert.Equal(t, 2*time.Second, config.InitialInterval)
	assert.Equal(t, 30*time.Second, config.MaxInterval)
	assert.Equal(t, 1.5, config.Multiplier)
	assert.Equal(t, 0, config.MaxAttempts)
}

func TestPathHonorsEnvironment(t *testing.T) {
	path := useTempConfig(t)

	got, err := Path()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(path), dir)
}

func TestLoadOrCreateWithDefaults(t *testing.T) {
	path := useTempConfig(t)

	cfg, err := LoadOrCreate()
	require.NoError(t, err)

	assert.Equal(t, onenote.MicrosoftAccount, cfg.Provider)
	assert.False(t, cfg.UseBeta)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.HTTP.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.Polling.InitialInterval)
	assert.Equal(t, "device-code", cfg.MSA.Flow)
	assert.Equal(t, onenote.DefaultO365ClientID, cfg.O365.ClientID)
	assert.Equal(t, onenote.DefaultO365Authority, cfg.O365.Authority)
	assert.NoFileExists(t, path, "LoadOrCreate does not write")
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))

	partial := map[string]any{
		"provider": "o365",
		"debug":    true,
		"http":     map[string]any{"retryAttempts": 7},
	}
	data, err := json.MarshalIndent(partial, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, onenote.PermSecureFile))

	cfg, err := LoadOrCreate()
	require.NoError(t, err)

	assert.Equal(t, onenote.O365, cfg.Provider)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 7, cfg.HTTP.RetryAttempts)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 1.5, cfg.Polling.Multiplier)
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), onenote.PermSecureFile))

	_, err := LoadOrCreate()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(`{"provider":"google"}`), onenote.PermSecureFile))

	_, err := Load()
	assert.Error(t, err)
}

func TestConfigurationSaveRoundTrip(t *testing.T) {
	path := useTempConfig(t)

	cfg := Default()
	cfg.Debug = true
	require.NoError(t, cfg.SetProvider("o365"))
	cfg.SetUseBeta(true)
	cfg.HTTP = HTTPConfig{
		Timeout:           45 * time.Second,
		RetryAttempts:     5,
		RetryDelay:        2 * time.Second,
		MaxRetryDelay:     20 * time.Second,
		RequestsPerSecond: 4,
		Burst:             6,
	}
	cfg.Polling = PollingConfig{
		InitialInterval: 3 * time.Second,
		MaxInterval:     60 * time.Second,
		Multiplier:      2.0,
		MaxAttempts:     10,
	}
	cfg.MSA = MSAConfig{ClientID: "0000000048123456", Flow: "browser"}

	require.NoError(t, cfg.Save())
	assert.FileExists(t, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(onenote.PermSecureFile), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"provider": "o365"`)

	loaded, err := Load()
	require.NoError(t, err)
	assert.True(t, loaded.Debug)
	assert.True(t, loaded.UseBeta)
	assert.Equal(t, onenote.O365, loaded.Provider)
	assert.Equal(t, cfg.HTTP, loaded.HTTP)
	assert.Equal(t, cfg.Polling, loaded.Polling)
	assert.Equal(t, cfg.MSA, loaded.MSA)
}

func TestSetProviderRejectsUnknown(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.SetProvider("google"))
	assert.Equal(t, onenote.MicrosoftAccount, cfg.Provider)
}

func TestSetMSAClientID(t *testing.T) {
	cfg := Default()
	_, err := cfg.MSAAuthConfig()
	require.NoError(t, err)

	cfg.SetMSAClientID("0000000048abcdef")
	msa, err := cfg.MSAAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, "0000000048abcdef", msa.ClientID)
	assert.Equal(t, onenote.FlowDeviceCode, msa.Flow)
}

func TestAPIRoute(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://www.onenote.com/api/v1.0/me/notes/", cfg.APIRoute())
	cfg.SetUseBeta(true)
	assert.Equal(t, "https://www.onenote.com/api/beta/me/notes/", cfg.APIRoute())
}

func TestSDKConversions(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetProvider("o365"))
	cfg.HTTP.RetryAttempts = 4
	cfg.Polling.MaxAttempts = 9

	cc := cfg.ClientConfig()
	assert.Equal(t, onenote.O365, cc.Provider)
	assert.Equal(t, 4, cc.Retry.Attempts)
	assert.Equal(t, cfg.HTTP.Timeout, cc.Timeout)
	assert.Equal(t, cfg.HTTP.Burst, cc.RateLimit.Burst)

	assert.Equal(t, 9, cfg.PollingSchedule().MaxAttempts)

	cfg.MSA = MSAConfig{ClientID: "abc", Flow: "browser"}
	msa, err := cfg.MSAAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, "abc", msa.ClientID)
	assert.Equal(t, onenote.FlowBrowser, msa.Flow)

	cfg.MSA.Flow = "smoke-signals"
	_, err = cfg.MSAAuthConfig()
	assert.Error(t, err)

	o365 := cfg.O365AuthConfig()
	assert.Equal(t, onenote.DefaultO365RedirectURI, o365.RedirectURI)
}
