// Package onenote (auth_o365.go) implements sign-in for work and school
// accounts through the Microsoft Authentication Library. MSAL keeps accounts
// and refresh tokens in its own in-memory cache; this authenticator mirrors
// the current access token into the TokenStore.
package onenote

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
)

// O365 application registration defaults.
const (
	DefaultO365ClientID    = "2bb5432a-93d1-4a3d-955e-e20c8d0e00e0"
	DefaultO365Authority   = "https://login.microsoftonline.com/common"
	DefaultO365RedirectURI = "http://localhost"
)

// O365Scopes grants the app's configured OneNote permissions.
var O365Scopes = []string{"https://onenote.com/.default"}

// microsoftLoginHost matches the cloud instances whose cached accounts can be reused.
var microsoftLoginHost = regexp.MustCompile(`(^|\.)(windows[^.]*\.net|microsoftonline\.com)$`)

// O365Config configures O365Authenticator.
type O365Config struct {
	ClientID    string
	Authority   string
	RedirectURI string
	// DeviceCode signs in with a device code instead of the system browser.
	DeviceCode bool
}

// msalClient is the subset of MSAL's public client the authenticator uses.
type msalClient interface {
	Accounts(ctx context.Context) ([]public.Account, error)
	AcquireTokenSilent(ctx context.Context, scopes []string, account public.Account) (public.AuthResult, error)
	AcquireTokenInteractive(ctx context.Context, scopes []string) (public.AuthResult, error)
	AcquireTokenByDeviceCode(ctx context.Context, scopes []string, show func(public.DeviceCodeResult)) (public.AuthResult, error)
	RemoveAccount(ctx context.Context, account public.Account) error
}

// msalPublicClient adapts public.Client to msalClient.
type msalPublicClient struct {
	client      public.Client
	redirectURI string
}

func (m msalPublicClient) Accounts(ctx context.Context) ([]public.Account, error) {
	return m.client.Accounts(ctx)
}

// AcquireTokenSilent binds the request to the account's own tenant.
func (m msalPublicClient) AcquireTokenSilent(ctx context.Context, scopes []string, account public.Account) (public.AuthResult, error) {
	opts := []public.AcquireSilentOption{public.WithSilentAccount(account)}
	if account.Realm != "" {
		opts = append(opts, public.WithTenantID(account.Realm))
	}
	return m.client.AcquireTokenSilent(ctx, scopes, opts...)
}

func (m msalPublicClient) AcquireTokenInteractive(ctx context.Context, scopes []string) (public.AuthResult, error) {
	return m.client.AcquireTokenInteractive(ctx, scopes, public.WithRedirectURI(m.redirectURI))
}

func (m msalPublicClient) AcquireTokenByDeviceCode(ctx context.Context, scopes []string, show func(public.DeviceCodeResult)) (public.AuthResult, error) {
	dc, err := m.client.AcquireTokenByDeviceCode(ctx, scopes)
	if err != nil {
		return public.AuthResult{}, err
	}
	show(dc.Result)
	return dc.AuthenticationResult(ctx)
}

func (m msalPublicClient) RemoveAccount(ctx context.Context, account public.Account) error {
	return m.client.RemoveAccount(ctx, account)
}

// O365Authenticator signs in Azure AD accounts.
type O365Authenticator struct {
	lc         *lifecycle
	client     msalClient
	scopes     []string
	deviceCode bool

	mu     sync.Mutex
	result public.AuthResult
}

// NewO365Authenticator creates the MSAL public client and an authenticator over it.
func NewO365Authenticator(cfg O365Config, store *TokenStore, authCfg AuthConfig) (*O365Authenticator, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultO365ClientID
	}
	if cfg.Authority == "" {
		cfg.Authority = DefaultO365Authority
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultO365RedirectURI
	}

	client, err := public.New(cfg.ClientID, public.WithAuthority(cfg.Authority))
	if err != nil {
		return nil, fmt.Errorf("creating MSAL client: %w", err)
	}
	return newO365Authenticator(msalPublicClient{client: client, redirectURI: cfg.RedirectURI}, cfg.DeviceCode, store, authCfg), nil
}

func newO365Authenticator(client msalClient, deviceCode bool, store *TokenStore, authCfg AuthConfig) *O365Authenticator {
	a := &O365Authenticator{
		lc:         newLifecycle(O365, store, authCfg),
		client:     client,
		scopes:     O365Scopes,
		deviceCode: deviceCode,
	}
	a.lc.flow = a
	return a
}

// GetAuthToken implements Authenticator.
func (a *O365Authenticator) GetAuthToken(ctx context.Context) (string, error) {
	return a.lc.getAuthToken(ctx)
}

// SignOut implements Authenticator. Every cached account is removed from MSAL
// and the token store is emptied even if removal fails.
func (a *O365Authenticator) SignOut(ctx context.Context) error {
	err := a.removeAccounts(ctx)

	a.mu.Lock()
	a.result = public.AuthResult{}
	a.mu.Unlock()
	a.lc.store.Clear()

	return err
}

// IsSignedIn implements Authenticator.
func (a *O365Authenticator) IsSignedIn() bool {
	if a.lc.store.Get().Empty() {
		return false
	}
	return a.currentAccount().HomeAccountID != ""
}

// InvalidateAccessToken drops the mirrored access token. MSAL keeps the
// account, so the next call recovers silently.
func (a *O365Authenticator) InvalidateAccessToken() {
	a.lc.store.InvalidateAccessToken()
}

// GetUserName implements Authenticator from the ID token claims of the last
// sign-in.
func (a *O365Authenticator) GetUserName(ctx context.Context) string {
	if !a.IsSignedIn() {
		return ""
	}
	a.mu.Lock()
	res := a.result
	a.mu.Unlock()

	name := strings.TrimSpace(res.IDToken.GivenName + " " + res.IDToken.FamilyName)
	if name == "" {
		name = res.IDToken.Name
	}
	if name == "" {
		name = res.Account.PreferredUsername
	}
	return name
}

func (a *O365Authenticator) currentAccount() public.Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result.Account
}

func (a *O365Authenticator) remember(res public.AuthResult) TokenState {
	a.mu.Lock()
	a.result = res
	a.mu.Unlock()
	return TokenState{AccessToken: res.AccessToken, ExpiresAt: res.ExpiresOn}
}

// silent reuses a cached account issued by a Microsoft login host.
func (a *O365Authenticator) silent(ctx context.Context) (TokenState, error) {
	accounts, err := a.client.Accounts(ctx)
	if err != nil {
		return TokenState{}, fmt.Errorf("listing cached accounts: %w", err)
	}

	var lastErr error = errNoCachedCredential
	for _, account := range accounts {
		if !microsoftLoginHost.MatchString(account.Environment) {
			continue
		}
		res, err := a.client.AcquireTokenSilent(ctx, a.scopes, account)
		if err != nil {
			lastErr = err
			continue
		}
		if res.AccessToken != "" {
			return a.remember(res), nil
		}
	}
	return TokenState{}, lastErr
}

func (a *O365Authenticator) interactive(ctx context.Context) (TokenState, error) {
	// Stale accounts would otherwise be offered again by the next silent attempt.
	if err := a.removeAccounts(ctx); err != nil {
		a.lc.cfg.Logger.Debugf("clearing cached accounts before sign-in: %v", err)
	}

	var (
		res public.AuthResult
		err error
	)
	if a.deviceCode {
		prompter := a.lc.cfg.Prompter
		if prompter == nil {
			return TokenState{}, errors.New("device code sign-in needs a prompter")
		}
		var stop func()
		res, err = a.client.AcquireTokenByDeviceCode(ctx, a.scopes, func(dc public.DeviceCodeResult) {
			prompter.ShowDeviceCode(dc.VerificationURL, dc.UserCode, dc.Message)
			stop = prompter.Waiting("Waiting for sign-in")
		})
		if stop != nil {
			stop()
		}
	} else {
		res, err = a.client.AcquireTokenInteractive(ctx, a.scopes)
	}
	if err != nil {
		return TokenState{}, err
	}
	return a.remember(res), nil
}

// refresh asks MSAL for the account's token again; MSAL redeems its cached
// refresh token when the access token is close to expiry.
func (a *O365Authenticator) refresh(ctx context.Context, current TokenState) (TokenState, error) {
	account := a.currentAccount()
	if account.HomeAccountID == "" {
		return TokenState{}, errors.New("no account to refresh")
	}
	res, err := a.client.AcquireTokenSilent(ctx, a.scopes, account)
	if err != nil {
		return TokenState{}, err
	}
	return a.remember(res), nil
}

func (a *O365Authenticator) removeAccounts(ctx context.Context) error {
	accounts, err := a.client.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("listing cached accounts: %w", err)
	}
	var errs []error
	for _, account := range accounts {
		if err := a.client.RemoveAccount(ctx, account); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
