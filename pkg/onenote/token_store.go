package onenote

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// AuthProvider selects the identity platform used to sign in.
type AuthProvider int

const (
	// MicrosoftAccount is a consumer account (outlook.com, live.com, hotmail.com).
	MicrosoftAccount AuthProvider = iota
	// O365 is a work or school account in Azure AD.
	O365
)

// String implements fmt.Stringer.
func (p AuthProvider) String() string {
	switch p {
	case MicrosoftAccount:
		return "msa"
	case O365:
		return "o365"
	default:
		return fmt.Sprintf("AuthProvider(%d)", int(p))
	}
}

// ParseAuthProvider accepts the names printed by String plus a few aliases.
func ParseAuthProvider(s string) (AuthProvider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "msa", "microsoftaccount", "microsoft-account", "live":
		return MicrosoftAccount, nil
	case "o365", "aad", "office365", "work":
		return O365, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

// MarshalText lets AuthProvider be stored by name in JSON configuration.
func (p AuthProvider) MarshalText() ([]byte, error) {
	if p != MicrosoftAccount && p != O365 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProvider, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *AuthProvider) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthProvider(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// TokenState is the authentication state held for one provider.
// A zero ExpiresAt means the provider does not report expiry.
type TokenState struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}

// Empty reports whether no access token is held.
func (s TokenState) Empty() bool {
	return s.AccessToken == ""
}

// ExpiresWithin reports whether the token expires before now+window.
// Tokens without a known expiry never do.
func (s TokenState) ExpiresWithin(now time.Time, window time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return s.ExpiresAt.Before(now.Add(window))
}

// TokenStore holds the in-memory TokenState of one provider. It is never
// persisted; a new process starts signed out.
type TokenStore struct {
	mu    sync.RWMutex
	state TokenState
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns a copy of the current state.
func (s *TokenStore) Get() TokenState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the state wholesale.
func (s *TokenStore) Set(state TokenState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Clear resets the store to empty.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = TokenState{}
}

// InvalidateAccessToken drops the access token after the API rejected it but
// keeps the refresh token, so the next request can recover silently.
func (s *TokenStore) InvalidateAccessToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = ""
	s.state.ExpiresAt = time.Time{}
}
