// Package onenote (auth_msa.go) implements sign-in for consumer Microsoft
// Accounts through the Live OAuth 2.0 endpoints. Interactive sign-in uses the
// device code flow by default, or an authorization code flow with PKCE where
// the user pastes the redirect URL back into the terminal.
package onenote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	cv "github.com/nirasan/go-oauth-pkce-code-verifier"
	"golang.org/x/oauth2"
)

// MSAFlow selects how the user signs in interactively.
type MSAFlow int

const (
	// FlowDeviceCode shows a code to enter on another device or browser.
	FlowDeviceCode MSAFlow = iota
	// FlowBrowser opens the consent page and reads back the redirect URL.
	FlowBrowser
)

// String implements fmt.Stringer.
func (f MSAFlow) String() string {
	if f == FlowBrowser {
		return "browser"
	}
	return "device-code"
}

// ParseMSAFlow parses the names printed by String.
func ParseMSAFlow(s string) (MSAFlow, error) {
	switch s {
	case "", "device-code", "device":
		return FlowDeviceCode, nil
	case "browser":
		return FlowBrowser, nil
	default:
		return 0, fmt.Errorf("unknown sign-in flow %q", s)
	}
}

// MSAEndpoints are the Live endpoints used by MSAAuthenticator. Tests point
// them at an httptest server.
type MSAEndpoints struct {
	AuthURL       string
	TokenURL      string
	DeviceAuthURL string
	RedirectURL   string
	// ProfileURL is the "who am I" endpoint; the token is passed as a query credential.
	ProfileURL string
}

// DefaultMSAEndpoints returns the production Live endpoints.
func DefaultMSAEndpoints() MSAEndpoints {
	return MSAEndpoints{
		AuthURL:       "https://login.live.com/oauth20_authorize.srf",
		TokenURL:      "https://login.live.com/oauth20_token.srf",
		DeviceAuthURL: "https://login.live.com/oauth20_connect.srf",
		RedirectURL:   "https://login.live.com/oauth20_desktop.srf",
		ProfileURL:    "https://apis.live.net/v5.0/me",
	}
}

// MSAScopes are requested for consumer accounts. wl.offline_access yields a refresh token.
var MSAScopes = []string{"wl.signin", "wl.offline_access", "office.onenote_update"}

// MSAConfig configures MSAAuthenticator.
type MSAConfig struct {
	ClientID  string
	Flow      MSAFlow
	Endpoints MSAEndpoints
	// HTTPClient is used for token and profile requests; nil means http.DefaultClient.
	HTTPClient *http.Client
}

// MSAAuthenticator signs in Microsoft Accounts.
type MSAAuthenticator struct {
	lc         *lifecycle
	oauth      *oauth2.Config
	flow       MSAFlow
	profileURL string
	httpClient *http.Client
}

// NewMSAAuthenticator returns an authenticator backed by store.
func NewMSAAuthenticator(cfg MSAConfig, store *TokenStore, authCfg AuthConfig) *MSAAuthenticator {
	endpoints := cfg.Endpoints
	if endpoints == (MSAEndpoints{}) {
		endpoints = DefaultMSAEndpoints()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	a := &MSAAuthenticator{
		lc: newLifecycle(MicrosoftAccount, store, authCfg),
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			Scopes:      MSAScopes,
			RedirectURL: endpoints.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:       endpoints.AuthURL,
				TokenURL:      endpoints.TokenURL,
				DeviceAuthURL: endpoints.DeviceAuthURL,
				AuthStyle:     oauth2.AuthStyleInParams,
			},
		},
		flow:       cfg.Flow,
		profileURL: endpoints.ProfileURL,
		httpClient: httpClient,
	}
	a.lc.flow = a
	return a
}

// GetAuthToken implements Authenticator.
func (a *MSAAuthenticator) GetAuthToken(ctx context.Context) (string, error) {
	return a.lc.getAuthToken(ctx)
}

// SignOut implements Authenticator. Live tokens are bearer tokens with no
// revocation endpoint, so signing out forgets them.
func (a *MSAAuthenticator) SignOut(ctx context.Context) error {
	a.lc.store.Clear()
	return nil
}

// IsSignedIn implements Authenticator.
func (a *MSAAuthenticator) IsSignedIn() bool {
	return !a.lc.store.Get().Empty()
}

// InvalidateAccessToken drops the access token but keeps the refresh token.
func (a *MSAAuthenticator) InvalidateAccessToken() {
	a.lc.store.InvalidateAccessToken()
}

// GetUserName implements Authenticator by asking the profile endpoint who
// the token belongs to. Failures yield "".
func (a *MSAAuthenticator) GetUserName(ctx context.Context) string {
	state := a.lc.store.Get()
	if state.Empty() {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, a.lc.cfg.Timeout)
	defer cancel()

	u, err := url.Parse(a.profileURL)
	if err != nil {
		a.lc.cfg.Logger.Debugf("invalid profile URL %q: %v", a.profileURL, err)
		return ""
	}
	q := u.Query()
	q.Set("access_token", state.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return ""
	}
	res, err := a.httpClient.Do(req)
	if err != nil {
		a.lc.cfg.Logger.Debugf("profile lookup failed: %v", err)
		return ""
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		a.lc.cfg.Logger.Debugf("profile lookup returned %s", res.Status)
		return ""
	}
	var profile struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		a.lc.cfg.Logger.Debugf("decoding profile: %v", err)
		return ""
	}
	return profile.Name
}

func (a *MSAAuthenticator) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// silent redeems a held refresh token, which is all a consumer account keeps
// between access tokens.
func (a *MSAAuthenticator) silent(ctx context.Context) (TokenState, error) {
	rt := a.lc.store.Get().RefreshToken
	if rt == "" {
		return TokenState{}, errNoCachedCredential
	}
	return a.redeemRefreshToken(ctx, rt)
}

func (a *MSAAuthenticator) refresh(ctx context.Context, current TokenState) (TokenState, error) {
	if current.RefreshToken == "" {
		return TokenState{}, errors.New("no refresh token held")
	}
	return a.redeemRefreshToken(ctx, current.RefreshToken)
}

func (a *MSAAuthenticator) redeemRefreshToken(ctx context.Context, refreshToken string) (TokenState, error) {
	tok, err := a.oauth.TokenSource(a.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return TokenState{}, mapOAuthError(err)
	}
	return a.stateFromToken(tok), nil
}

func (a *MSAAuthenticator) interactive(ctx context.Context) (TokenState, error) {
	if a.lc.cfg.Prompter == nil {
		return TokenState{}, errors.New("interactive sign-in needs a prompter")
	}
	if a.flow == FlowBrowser {
		return a.browserSignIn(ctx)
	}
	return a.deviceCodeSignIn(ctx)
}

func (a *MSAAuthenticator) deviceCodeSignIn(ctx context.Context) (TokenState, error) {
	octx := a.oauthContext(ctx)
	da, err := a.oauth.DeviceAuth(octx, oauth2.SetAuthURLParam("response_type", "device_code"))
	if err != nil {
		return TokenState{}, fmt.Errorf("starting device code flow: %w", mapOAuthError(err))
	}

	a.lc.cfg.Prompter.ShowDeviceCode(da.VerificationURI, da.UserCode,
		fmt.Sprintf("To sign in, open %s and enter the code %s", da.VerificationURI, da.UserCode))
	stop := a.lc.cfg.Prompter.Waiting("Waiting for sign-in")
	defer stop()

	tok, err := a.oauth.DeviceAccessToken(octx, da)
	if err != nil {
		return TokenState{}, mapOAuthError(err)
	}
	return a.stateFromToken(tok), nil
}

func (a *MSAAuthenticator) browserSignIn(ctx context.Context) (TokenState, error) {
	verifier, err := cv.CreateCodeVerifier()
	if err != nil {
		return TokenState{}, fmt.Errorf("creating PKCE code verifier: %w", err)
	}
	state := uuid.NewString()
	authURL := a.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", verifier.CodeChallengeS256()),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	redirected, err := a.lc.cfg.Prompter.RedirectURL(ctx, authURL)
	if err != nil {
		return TokenState{}, err
	}
	code, err := authorizationCode(redirected, state)
	if err != nil {
		return TokenState{}, err
	}

	tok, err := a.oauth.Exchange(a.oauthContext(ctx), code, oauth2.SetAuthURLParam("code_verifier", verifier.String()))
	if err != nil {
		return TokenState{}, fmt.Errorf("exchanging authorization code: %w", mapOAuthError(err))
	}
	return a.stateFromToken(tok), nil
}

// authorizationCode extracts the code from the redirect URL after checking state.
func authorizationCode(redirected, wantState string) (string, error) {
	u, err := url.Parse(redirected)
	if err != nil {
		return "", fmt.Errorf("parsing redirect URL: %w", err)
	}
	q := u.Query()
	if e := q.Get("error"); e != "" {
		return "", fmt.Errorf("%w: %s: %s", ErrAuthorizationDeclined, e, q.Get("error_description"))
	}
	if q.Get("state") != wantState {
		return "", errors.New("redirect URL state does not match the sign-in request")
	}
	code := q.Get("code")
	if code == "" {
		return "", errors.New("redirect URL carries no authorization code")
	}
	return code, nil
}

// stateFromToken converts an oauth2 token, filling Expiry from expires_in
// when the library left it unset.
func (a *MSAAuthenticator) stateFromToken(tok *oauth2.Token) TokenState {
	expiry := tok.Expiry
	if expiry.IsZero() {
		switch v := tok.Extra("expires_in").(type) {
		case float64:
			expiry = a.lc.cfg.Clock().Add(time.Duration(v) * time.Second)
		case string:
			if d, err := time.ParseDuration(v + "s"); err == nil {
				expiry = a.lc.cfg.Clock().Add(d)
			}
		}
	}
	return TokenState{
		AccessToken:  tok.AccessToken,
		ExpiresAt:    expiry,
		RefreshToken: tok.RefreshToken,
	}
}
