// Package onenote (auth.go) defines the token lifecycle shared by both identity
// providers and the Auth facade that dispatches to them.
//
// GetAuthToken follows the same steps for every provider:
//  1. reuse a held access token;
//  2. otherwise try silent acquisition from cached credentials;
//  3. otherwise sign the user in interactively, failing with ErrAuthenticationFailed;
//  4. refresh the token when it expires within the lookahead window, keeping
//     the stale token if the refresh fails.
package onenote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OneNoteDev/onenote-client/internal/logger"
	"golang.org/x/sync/singleflight"
)

// errNoCachedCredential means silent acquisition had nothing to work with.
var errNoCachedCredential = errors.New("no cached credential")

// Authenticator produces access tokens for one identity provider.
type Authenticator interface {
	// GetAuthToken returns a bearer token, prompting the user only when
	// silent acquisition fails. It never returns a non-empty token with an error.
	GetAuthToken(ctx context.Context) (string, error)
	// SignOut drops cached credentials and empties the token store.
	SignOut(ctx context.Context) error
	// IsSignedIn reports whether a token is currently held.
	IsSignedIn() bool
	// GetUserName returns a display name for the signed-in user, or "".
	GetUserName(ctx context.Context) string
}

// Prompter is how an authenticator talks to the user during interactive sign-in.
type Prompter interface {
	// ShowDeviceCode tells the user where to enter the code.
	ShowDeviceCode(verificationURI, userCode, message string)
	// RedirectURL sends the user to authURL and returns the URL the browser
	// was redirected to after consent.
	RedirectURL(ctx context.Context, authURL string) (string, error)
	// Waiting starts a progress indicator and returns the function that stops it.
	Waiting(description string) (stop func())
}

// AuthConfig holds settings shared by both authenticators.
type AuthConfig struct {
	// Lookahead is how close to expiry a token may get before it is refreshed.
	Lookahead time.Duration
	// Timeout bounds each non-interactive network step.
	Timeout  time.Duration
	Retry    RetryPolicy
	Logger   logger.Logger
	Prompter Prompter
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.Lookahead <= 0 {
		c.Lookahead = DefaultRefreshLookahead
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = logger.NoopLogger{}
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// tokenFlow is the provider specific part of GetAuthToken.
type tokenFlow interface {
	silent(ctx context.Context) (TokenState, error)
	interactive(ctx context.Context) (TokenState, error)
	refresh(ctx context.Context, current TokenState) (TokenState, error)
}

// lifecycle runs the provider independent steps of GetAuthToken.
type lifecycle struct {
	provider AuthProvider
	store    *TokenStore
	flow     tokenFlow
	cfg      AuthConfig
	group    singleflight.Group
}

func newLifecycle(provider AuthProvider, store *TokenStore, cfg AuthConfig) *lifecycle {
	if store == nil {
		store = NewTokenStore()
	}
	return &lifecycle{provider: provider, store: store, cfg: cfg.withDefaults()}
}

func (l *lifecycle) getAuthToken(ctx context.Context) (string, error) {
	state := l.store.Get()
	if !state.Empty() && !state.ExpiresWithin(l.cfg.Clock(), l.cfg.Lookahead) {
		return state.AccessToken, nil
	}

	// Concurrent callers share one acquisition or refresh. The shared call runs
	// under the first caller's context, so when that caller gives up the others
	// start their own attempt.
	for {
		v, err, shared := l.group.Do("token", func() (any, error) {
			return l.acquire(ctx)
		})
		if err != nil {
			if shared && errors.Is(err, context.Canceled) && ctx.Err() == nil {
				l.cfg.Logger.Debugf("%s: shared sign-in was cancelled by another caller, retrying", l.provider)
				continue
			}
			return "", err
		}
		return v.(string), nil
	}
}

func (l *lifecycle) acquire(ctx context.Context) (string, error) {
	state := l.store.Get()

	if state.Empty() {
		acquired, err := l.silent(ctx)
		if err != nil {
			if errors.Is(err, errNoCachedCredential) {
				l.cfg.Logger.Debugf("%s: no cached credential, signing in interactively", l.provider)
			} else {
				l.cfg.Logger.Debugf("%s: silent token acquisition failed: %v", l.provider, err)
			}

			acquired, err = l.flow.interactive(ctx)
			if err != nil {
				return "", fmt.Errorf("%w: %s: %w", ErrAuthenticationFailed, l.provider, err)
			}
			if acquired.Empty() {
				return "", fmt.Errorf("%w: %s: sign-in returned no access token", ErrAuthenticationFailed, l.provider)
			}
		}
		l.store.Set(acquired)
		state = acquired
	}

	if state.ExpiresWithin(l.cfg.Clock(), l.cfg.Lookahead) {
		refreshed, err := l.refresh(ctx, state)
		if err != nil {
			l.cfg.Logger.Warnf("%v", fmt.Errorf("%w: %s: keeping current token: %w", ErrTokenRefreshFailed, l.provider, err))
			return state.AccessToken, nil
		}
		l.store.Set(refreshed)
		state = refreshed
	}

	return state.AccessToken, nil
}

func (l *lifecycle) silent(ctx context.Context) (TokenState, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	state, err := l.flow.silent(ctx)
	if err != nil {
		return TokenState{}, err
	}
	if state.Empty() {
		return TokenState{}, errNoCachedCredential
	}
	return state, nil
}

func (l *lifecycle) refresh(ctx context.Context, current TokenState) (TokenState, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	var refreshed TokenState
	err := retryTransient(ctx, l.cfg.Retry, l.cfg.Logger, l.provider.String()+" token refresh", func(ctx context.Context) error {
		var err error
		refreshed, err = l.flow.refresh(ctx, current)
		return err
	})
	if err != nil {
		return TokenState{}, err
	}
	if refreshed.Empty() {
		return TokenState{}, errors.New("refresh returned no access token")
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = current.RefreshToken
	}
	return refreshed, nil
}

// Auth is the single entry point for authentication. Each method dispatches to
// the Authenticator registered for the given provider.
type Auth struct {
	mu             sync.RWMutex
	authenticators map[AuthProvider]Authenticator
}

// NewAuth builds the facade over one authenticator per provider.
func NewAuth(msa, o365 Authenticator) *Auth {
	return &Auth{authenticators: map[AuthProvider]Authenticator{
		MicrosoftAccount: msa,
		O365:             o365,
	}}
}

// Replace swaps the authenticator for p, for example after its application
// registration changed. Tokens held by the old authenticator are dropped.
func (a *Auth) Replace(p AuthProvider, authn Authenticator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authenticators[p] = authn
}

// Authenticator returns the authenticator registered for p.
func (a *Auth) Authenticator(p AuthProvider) (Authenticator, error) {
	return a.lookup(p)
}

func (a *Auth) lookup(p AuthProvider) (Authenticator, error) {
	a.mu.RLock()
	authn, ok := a.authenticators[p]
	a.mu.RUnlock()
	if !ok || authn == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, p)
	}
	return authn, nil
}

// GetAuthToken returns a bearer token for p.
func (a *Auth) GetAuthToken(ctx context.Context, p AuthProvider) (string, error) {
	authn, err := a.lookup(p)
	if err != nil {
		return "", err
	}
	return authn.GetAuthToken(ctx)
}

// SignOut signs p out.
func (a *Auth) SignOut(ctx context.Context, p AuthProvider) error {
	authn, err := a.lookup(p)
	if err != nil {
		return err
	}
	return authn.SignOut(ctx)
}

// IsSignedIn reports whether p holds a token.
func (a *Auth) IsSignedIn(p AuthProvider) bool {
	authn, err := a.lookup(p)
	if err != nil {
		return false
	}
	return authn.IsSignedIn()
}

// GetUserName returns the display name of p's signed-in user, or "".
func (a *Auth) GetUserName(ctx context.Context, p AuthProvider) string {
	authn, err := a.lookup(p)
	if err != nil {
		return ""
	}
	return authn.GetUserName(ctx)
}

// invalidator is implemented by authenticators that can drop a rejected token.
type invalidator interface {
	InvalidateAccessToken()
}

// InvalidateAccessToken drops p's access token after the API rejected it.
func (a *Auth) InvalidateAccessToken(p AuthProvider) {
	authn, err := a.lookup(p)
	if err != nil {
		return
	}
	if inv, ok := authn.(invalidator); ok {
		inv.InvalidateAccessToken()
	}
}
