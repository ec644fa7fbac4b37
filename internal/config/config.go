// Package config persists the CLI's settings: the selected identity
// provider, the API version, HTTP and polling tuning, and the application
// registrations used to sign in. Tokens are never written here.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/gofrs/flock"
)

const (
	configDir  = ".onenote-client"
	configFile = "config.json"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "ONENOTE_CONFIG_PATH"
)

// ErrMSAClientIDMissing is returned when MSA sign-in is attempted without an
// application registration.
var ErrMSAClientIDMissing = errors.New("msa.clientId is not configured")

// HTTPConfig tunes the API client.
type HTTPConfig struct {
	Timeout           time.Duration `json:"timeout"`
	RetryAttempts     int           `json:"retryAttempts"`
	RetryDelay        time.Duration `json:"retryDelay"`
	MaxRetryDelay     time.Duration `json:"maxRetryDelay"`
	RequestsPerSecond float64       `json:"requestsPerSecond"`
	Burst             int           `json:"burst"`
}

// PollingConfig tunes how copy operations are polled.
type PollingConfig struct {
	InitialInterval time.Duration `json:"initialInterval"`
	MaxInterval     time.Duration `json:"maxInterval"`
	Multiplier      float64       `json:"multiplier"`
	MaxAttempts     int           `json:"maxAttempts"`
}

// MSAConfig is the consumer account app registration.
type MSAConfig struct {
	ClientID string `json:"clientId"`
	// Flow is "device-code" or "browser".
	Flow string `json:"flow"`
}

// O365Config is the work or school account app registration.
type O365Config struct {
	ClientID    string `json:"clientId"`
	Authority   string `json:"authority"`
	RedirectURI string `json:"redirectUri"`
	DeviceCode  bool   `json:"deviceCode"`
}

// Configuration holds all persisted settings.
type Configuration struct {
	Provider onenote.AuthProvider `json:"provider"`
	UseBeta  bool                 `json:"useBeta"`
	Debug    bool                 `json:"debug"`
	HTTP     HTTPConfig           `json:"http"`
	Polling  PollingConfig        `json:"polling"`
	MSA      MSAConfig            `json:"msa"`
	O365     O365Config           `json:"o365"`

	mu sync.RWMutex
}

// DefaultHTTPConfig returns the API client defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:           onenote.DefaultTimeout,
		RetryAttempts:     onenote.DefaultRetryAttempts,
		RetryDelay:        onenote.DefaultRetryDelay,
		MaxRetryDelay:     onenote.DefaultMaxRetryDelay,
		RequestsPerSecond: onenote.DefaultRequestsPerSecond,
		Burst:             onenote.DefaultBurst,
	}
}

// DefaultPollingConfig returns the copy operation polling defaults.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		InitialInterval: onenote.DefaultPollInterval,
		MaxInterval:     onenote.DefaultMaxInterval,
		Multiplier:      onenote.DefaultPollMultiplier,
		MaxAttempts:     0,
	}
}

// Default returns a configuration with every default applied.
func Default() *Configuration {
	c := &Configuration{}
	c.applyDefaults()
	return c
}

// applyDefaults fills fields missing from older or hand edited files.
func (c *Configuration) applyDefaults() {
	httpDef := DefaultHTTPConfig()
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = httpDef.Timeout
	}
	if c.HTTP.RetryAttempts <= 0 {
		c.HTTP.RetryAttempts = httpDef.RetryAttempts
	}
	if c.HTTP.RetryDelay <= 0 {
		c.HTTP.RetryDelay = httpDef.RetryDelay
	}
	if c.HTTP.MaxRetryDelay <= 0 {
		c.HTTP.MaxRetryDelay = httpDef.MaxRetryDelay
	}
	if c.HTTP.RequestsPerSecond <= 0 {
		c.HTTP.RequestsPerSecond = httpDef.RequestsPerSecond
	}
	if c.HTTP.Burst <= 0 {
		c.HTTP.Burst = httpDef.Burst
	}

	pollDef := DefaultPollingConfig()
	if c.Polling.InitialInterval <= 0 {
		c.Polling.InitialInterval = pollDef.InitialInterval
	}
	if c.Polling.MaxInterval <= 0 {
		c.Polling.MaxInterval = pollDef.MaxInterval
	}
	if c.Polling.Multiplier < 1 {
		c.Polling.Multiplier = pollDef.Multiplier
	}

	if c.MSA.Flow == "" {
		c.MSA.Flow = onenote.FlowDeviceCode.String()
	}
	if c.O365.ClientID == "" {
		c.O365.ClientID = onenote.DefaultO365ClientID
	}
	if c.O365.Authority == "" {
		c.O365.Authority = onenote.DefaultO365Authority
	}
	if c.O365.RedirectURI == "" {
		c.O365.RedirectURI = onenote.DefaultO365RedirectURI
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

// Dir returns the directory holding the config file. Other state, such as
// copy operation records, lives beside it.
func Dir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// Save writes the configuration, holding a file lock so concurrent CLI
// processes do not interleave writes.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config to JSON: %w", err)
	}

	configPath, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), onenote.PermSecureDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	lock := flock.New(configPath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking config file: %w", err)
	}
	defer lock.Unlock()

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, jsonData, onenote.PermSecureFile); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}
	if err := os.Rename(tmp, configPath); err != nil {
		return fmt.Errorf("replacing configuration file: %w", err)
	}
	return nil
}

// Load reads the configuration file and applies defaults for missing fields.
// A missing file is reported with an error satisfying os.IsNotExist.
func Load() (*Configuration, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Configuration{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling %s: %w", configPath, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrCreate loads the configuration, or returns the defaults when no file exists yet.
func LoadOrCreate() (*Configuration, error) {
	cfg, err := Load()
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// APIRoute returns the OneNote API route for the configured version.
func (c *Configuration) APIRoute() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return onenote.APIRoute(c.UseBeta)
}

// SetProvider selects the identity provider by name ("msa" or "o365").
func (c *Configuration) SetProvider(name string) error {
	p, err := onenote.ParseAuthProvider(name)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Provider = p
	return nil
}

// SetUseBeta switches between the v1.0 and beta API.
func (c *Configuration) SetUseBeta(useBeta bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UseBeta = useBeta
}

// SetMSAClientID records the consumer account app registration.
func (c *Configuration) SetMSAClientID(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MSA.ClientID = clientID
}

// MSASettings returns a copy of the consumer account settings.
func (c *Configuration) MSASettings() MSAConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MSA
}

// ClientConfig converts the HTTP settings into the SDK client configuration.
func (c *Configuration) ClientConfig() onenote.ClientConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return onenote.ClientConfig{
		Provider: c.Provider,
		UseBeta:  c.UseBeta,
		Timeout:  c.HTTP.Timeout,
		Retry: onenote.RetryPolicy{
			Attempts: c.HTTP.RetryAttempts,
			Delay:    c.HTTP.RetryDelay,
			MaxDelay: c.HTTP.MaxRetryDelay,
		},
		RateLimit: onenote.RateLimitConfig{
			RequestsPerSecond: c.HTTP.RequestsPerSecond,
			Burst:             c.HTTP.Burst,
		},
	}
}

// PollingSchedule converts the polling settings for WaitOperation.
func (c *Configuration) PollingSchedule() onenote.PollingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return onenote.PollingConfig{
		InitialInterval: c.Polling.InitialInterval,
		MaxInterval:     c.Polling.MaxInterval,
		Multiplier:      c.Polling.Multiplier,
		MaxAttempts:     c.Polling.MaxAttempts,
	}
}

// MSAAuthConfig returns the consumer account registration for the SDK.
func (c *Configuration) MSAAuthConfig() (onenote.MSAConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	flow, err := onenote.ParseMSAFlow(c.MSA.Flow)
	if err != nil {
		return onenote.MSAConfig{}, err
	}
	return onenote.MSAConfig{ClientID: c.MSA.ClientID, Flow: flow}, nil
}

// O365AuthConfig returns the work or school registration for the SDK.
func (c *Configuration) O365AuthConfig() onenote.O365Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return onenote.O365Config{
		ClientID:    c.O365.ClientID,
		Authority:   c.O365.Authority,
		RedirectURI: c.O365.RedirectURI,
		DeviceCode:  c.O365.DeviceCode,
	}
}
