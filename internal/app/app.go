package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/OneNoteDev/onenote-client/internal/config"
	"github.com/OneNoteDev/onenote-client/internal/logger"
	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

// AuthService is the part of onenote.Auth the commands use.
type AuthService interface {
	GetAuthToken(ctx context.Context, p onenote.AuthProvider) (string, error)
	SignOut(ctx context.Context, p onenote.AuthProvider) error
	IsSignedIn(p onenote.AuthProvider) bool
	GetUserName(ctx context.Context, p onenote.AuthProvider) string
}

// App wires configuration, authentication and the API client together for
// one CLI process. Tokens live only as long as the App does.
type App struct {
	Config   *config.Configuration
	Auth     AuthService
	SDK      SDK
	Sessions *session.Manager
	Logger   logger.Logger

	auth      *onenote.Auth
	authCfg   onenote.AuthConfig
	msa       config.MSAConfig
	debug     bool
	baseDebug bool
}

// NewApp loads the configuration and builds the authenticators and API client.
func NewApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Set debug mode from the flag if it was passed.
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.Debug = true
	}

	log := logger.NewDefaultLogger(cfg.Debug)

	sessions, err := session.NewManager()
	if err != nil {
		return nil, err
	}

	authCfg := onenote.AuthConfig{
		Timeout:  cfg.HTTP.Timeout,
		Retry:    cfg.ClientConfig().Retry,
		Logger:   log,
		Prompter: ui.NewTerminalPrompter(),
	}
	auth, err := newAuth(cfg, authCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing authentication: %w", err)
	}

	a := &App{
		Config:    cfg,
		Auth:      auth,
		Sessions:  sessions,
		Logger:    log,
		auth:      auth,
		authCfg:   authCfg,
		msa:       cfg.MSASettings(),
		debug:     cfg.Debug,
		baseDebug: cfg.Debug,
	}
	a.rebuildClient()
	return a, nil
}

// newAuth builds one authenticator per provider over its own token store.
func newAuth(cfg *config.Configuration, authCfg onenote.AuthConfig) (*onenote.Auth, error) {
	msa := newMSA(cfg, authCfg)

	o365AuthCfg := authCfg
	o365AuthCfg.Logger = authCfg.Logger.With("provider", onenote.O365.String())
	o365, err := onenote.NewO365Authenticator(cfg.O365AuthConfig(), onenote.NewTokenStore(), o365AuthCfg)
	if err != nil {
		return nil, err
	}
	return onenote.NewAuth(msa, o365), nil
}

// newMSA builds the Microsoft Account authenticator, or a stand-in that
// explains why sign-in cannot work with the current settings.
func newMSA(cfg *config.Configuration, authCfg onenote.AuthConfig) onenote.Authenticator {
	msaCfg, err := cfg.MSAAuthConfig()
	switch {
	case err != nil:
		return unconfigured{err: err}
	case msaCfg.ClientID == "":
		return unconfigured{err: fmt.Errorf("%w; run `onenote-client config set-msa-client <id>`", config.ErrMSAClientIDMissing)}
	default:
		msaAuthCfg := authCfg
		msaAuthCfg.Logger = authCfg.Logger.With("provider", onenote.MicrosoftAccount.String())
		return onenote.NewMSAAuthenticator(msaCfg, onenote.NewTokenStore(), msaAuthCfg)
	}
}

// rebuildClient creates the API client for the current configuration,
// keeping the signed-in authenticators.
func (a *App) rebuildClient() {
	clientCfg := a.Config.ClientConfig()
	clientCfg.Logger = a.Logger
	a.SDK = NewOneNoteSDK(onenote.NewClient(a.auth, clientCfg))
}

// Provider returns the identity provider commands run against.
func (a *App) Provider() onenote.AuthProvider {
	return a.Config.ClientConfig().Provider
}

// Reconfigure applies a configuration change made during the process, such
// as switching provider or API version from the shell. A changed Microsoft
// Account registration replaces that authenticator, signing it out.
func (a *App) Reconfigure() {
	if a.auth == nil {
		return
	}
	msa := a.Config.MSASettings()
	if msa != a.msa {
		a.Logger.Debug("Microsoft Account settings changed, rebuilding authenticator")
		a.auth.Replace(onenote.MicrosoftAccount, newMSA(a.Config, a.authCfg))
		a.msa = msa
	}
	a.rebuildClient()
}

// applyDebugFlag switches debug logging for one command run by the shell.
// The level the process started with is restored when the flag is absent.
// Authenticators keep the logger they were built with.
func (a *App) applyDebugFlag(cmd *cobra.Command) {
	if a.auth == nil {
		return
	}
	flag, _ := cmd.Flags().GetBool("debug")
	want := a.baseDebug || flag
	if want == a.debug {
		return
	}
	a.debug = want
	a.Logger = logger.NewDefaultLogger(want)
	a.rebuildClient()
}

// Login signs the current provider in, prompting when needed.
func (a *App) Login(ctx context.Context) (string, error) {
	p := a.Provider()
	if _, err := a.Auth.GetAuthToken(ctx, p); err != nil {
		return "", err
	}
	return a.Auth.GetUserName(ctx, p), nil
}

// Logout signs the current provider out.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Auth.SignOut(ctx, a.Provider()); err != nil {
		return fmt.Errorf("could not sign out: %w", err)
	}
	return nil
}

// unconfigured stands in for an authenticator that cannot be built, failing
// every sign-in with the reason.
type unconfigured struct {
	err error
}

func (u unconfigured) GetAuthToken(context.Context) (string, error) {
	return "", errors.Join(onenote.ErrAuthenticationFailed, u.err)
}

func (u unconfigured) SignOut(context.Context) error { return nil }

func (u unconfigured) IsSignedIn() bool { return false }

func (u unconfigured) GetUserName(context.Context) string { return "" }
