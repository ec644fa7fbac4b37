package onenote

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreLifecycle(t *testing.T) {
	store := NewTokenStore()
	assert.True(t, store.Get().Empty(), "a new store starts empty")

	expiry := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.Set(TokenState{AccessToken: "tok1", ExpiresAt: expiry, RefreshToken: "rt1"})
	got := store.Get()
	assert.Equal(t, "tok1", got.AccessToken)
	assert.Equal(t, expiry, got.ExpiresAt)
	assert.Equal(t, "rt1", got.RefreshToken)

	store.Set(TokenState{AccessToken: "tok2"})
	assert.Equal(t, TokenState{AccessToken: "tok2"}, store.Get(), "set replaces wholesale")

	store.Clear()
	assert.Equal(t, TokenState{}, store.Get())
}

func TestTokenStoreInvalidateKeepsRefreshToken(t *testing.T) {
	store := NewTokenStore()
	store.Set(TokenState{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour), RefreshToken: "rt"})

	store.InvalidateAccessToken()

	got := store.Get()
	assert.True(t, got.Empty())
	assert.True(t, got.ExpiresAt.IsZero())
	assert.Equal(t, "rt", got.RefreshToken)
}

func TestTokenStoreConcurrentAccess(t *testing.T) {
	store := NewTokenStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Set(TokenState{AccessToken: "tok"})
		}()
		go func() {
			defer wg.Done()
			_ = store.Get()
		}()
	}
	wg.Wait()
	assert.Equal(t, "tok", store.Get().AccessToken)
}

func TestTokenStateExpiresWithin(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		state TokenState
		want  bool
	}{
		{"no expiry tracked", TokenState{AccessToken: "a"}, false},
		{"expires in two minutes", TokenState{AccessToken: "a", ExpiresAt: now.Add(120 * time.Second)}, true},
		{"already expired", TokenState{AccessToken: "a", ExpiresAt: now.Add(-time.Minute)}, true},
		{"expires in an hour", TokenState{AccessToken: "a", ExpiresAt: now.Add(time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.ExpiresWithin(now, DefaultRefreshLookahead))
		})
	}
}

func TestParseAuthProvider(t *testing.T) {
	tests := map[string]AuthProvider{
		"msa":              MicrosoftAccount,
		"MicrosoftAccount": MicrosoftAccount,
		" live ":           MicrosoftAccount,
		"o365":             O365,
		"Office365":        O365,
		"aad":              O365,
	}
	for in, want := range tests {
		got, err := ParseAuthProvider(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAuthProvider("google")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestAuthProviderJSON(t *testing.T) {
	type settings struct {
		Provider AuthProvider `json:"provider"`
	}

	raw, err := json.Marshal(settings{Provider: O365})
	require.NoError(t, err)
	assert.JSONEq(t, `{"provider":"o365"}`, string(raw))

	var back settings
	require.NoError(t, json.Unmarshal([]byte(`{"provider":"msa"}`), &back))
	assert.Equal(t, MicrosoftAccount, back.Provider)

	assert.Error(t, json.Unmarshal([]byte(`{"provider":"nope"}`), &back))
	assert.Equal(t, "AuthProvider(7)", AuthProvider(7).String())
}
