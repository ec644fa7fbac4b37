package onenote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMSAL stands in for MSAL's public client.
type fakeMSAL struct {
	mu               sync.Mutex
	accounts         []public.Account
	silentFn         func(account public.Account) (public.AuthResult, error)
	interactiveFn    func() (public.AuthResult, error)
	deviceFn         func(show func(public.DeviceCodeResult)) (public.AuthResult, error)
	removed          []public.Account
	silentCalls      int
	interactiveCalls int
}

func (f *fakeMSAL) Accounts(ctx context.Context) ([]public.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]public.Account(nil), f.accounts...), nil
}

func (f *fakeMSAL) AcquireTokenSilent(ctx context.Context, scopes []string, account public.Account) (public.AuthResult, error) {
	f.mu.Lock()
	f.silentCalls++
	fn := f.silentFn
	f.mu.Unlock()
	if fn == nil {
		return public.AuthResult{}, errors.New("no token in cache")
	}
	return fn(account)
}

func (f *fakeMSAL) AcquireTokenInteractive(ctx context.Context, scopes []string) (public.AuthResult, error) {
	f.mu.Lock()
	f.interactiveCalls++
	fn := f.interactiveFn
	f.mu.Unlock()
	if fn == nil {
		return public.AuthResult{}, errors.New("browser closed")
	}
	res, err := fn()
	if err == nil {
		f.mu.Lock()
		f.accounts = append(f.accounts, res.Account)
		f.mu.Unlock()
	}
	return res, err
}

func (f *fakeMSAL) AcquireTokenByDeviceCode(ctx context.Context, scopes []string, show func(public.DeviceCodeResult)) (public.AuthResult, error) {
	if f.deviceFn == nil {
		return public.AuthResult{}, errors.New("device code flow unavailable")
	}
	return f.deviceFn(show)
}

func (f *fakeMSAL) RemoveAccount(ctx context.Context, account public.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, account)
	kept := f.accounts[:0]
	for _, a := range f.accounts {
		if a.HomeAccountID != account.HomeAccountID {
			kept = append(kept, a)
		}
	}
	f.accounts = kept
	return nil
}

var workAccount = public.Account{
	HomeAccountID:     "uid.tid",
	Environment:       "login.microsoftonline.com",
	Realm:             "tid",
	PreferredUsername: "ada@contoso.com",
}

func workResult(token string, expires time.Time) public.AuthResult {
	res := public.AuthResult{AccessToken: token, ExpiresOn: expires, Account: workAccount}
	res.IDToken.GivenName = "Ada"
	res.IDToken.FamilyName = "Lovelace"
	return res
}

func newTestO365(client msalClient, deviceCode bool, store *TokenStore, prompter Prompter) *O365Authenticator {
	return newO365Authenticator(client, deviceCode, store, AuthConfig{Clock: fixedClock, Prompter: prompter})
}

func TestO365SilentUsesCachedAccount(t *testing.T) {
	client := &fakeMSAL{
		accounts: []public.Account{
			{HomeAccountID: "other", Environment: "login.example.org"},
			workAccount,
		},
		silentFn: func(account public.Account) (public.AuthResult, error) {
			assert.Equal(t, workAccount.HomeAccountID, account.HomeAccountID)
			return workResult("silent-token", testNow.Add(time.Hour)), nil
		},
	}
	o365 := newTestO365(client, false, NewTokenStore(), nil)

	tok, err := o365.GetAuthToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "silent-token", tok)
	assert.Equal(t, 1, client.silentCalls, "accounts from other hosts are skipped")
	assert.Zero(t, client.interactiveCalls)
	assert.True(t, o365.IsSignedIn())
}

func TestO365InteractiveWhenCacheEmpty(t *testing.T) {
	client := &fakeMSAL{
		interactiveFn: func() (public.AuthResult, error) {
			return workResult("interactive-token", testNow.Add(time.Hour)), nil
		},
	}
	store := NewTokenStore()
	o365 := newTestO365(client, false, store, nil)

	tok, err := o365.GetAuthToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "interactive-token", tok)
	assert.Equal(t, 1, client.interactiveCalls)
	assert.Equal(t, testNow.Add(time.Hour), store.Get().ExpiresAt)
	assert.Empty(t, store.Get().RefreshToken, "MSAL keeps the refresh token itself")
}

func TestO365InteractiveClearsStaleAccounts(t *testing.T) {
	stale := public.Account{HomeAccountID: "stale", Environment: "login.windows.net"}
	client := &fakeMSAL{
		accounts: []public.Account{stale},
		silentFn: func(account public.Account) (public.AuthResult, error) {
			return public.AuthResult{}, errors.New("interaction required")
		},
		interactiveFn: func() (public.AuthResult, error) {
			return workResult("fresh", testNow.Add(time.Hour)), nil
		},
	}
	o365 := newTestO365(client, false, NewTokenStore(), nil)

	tok, err := o365.GetAuthToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)
	require.Len(t, client.removed, 1)
	assert.Equal(t, "stale", client.removed[0].HomeAccountID)
}

func TestO365InteractiveFailure(t *testing.T) {
	o365 := newTestO365(&fakeMSAL{}, false, NewTokenStore(), nil)

	tok, err := o365.GetAuthToken(context.Background())

	assert.Empty(t, tok)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.False(t, o365.IsSignedIn())
}

func TestO365DeviceCode(t *testing.T) {
	prompter := &fakePrompter{}
	client := &fakeMSAL{
		deviceFn: func(show func(public.DeviceCodeResult)) (public.AuthResult, error) {
			show(public.DeviceCodeResult{
				UserCode:        "XYZ-987",
				VerificationURL: "https://microsoft.com/devicelogin",
				Message:         "To sign in, use a web browser",
			})
			return workResult("device-token", testNow.Add(time.Hour)), nil
		},
	}
	o365 := newTestO365(client, true, NewTokenStore(), prompter)

	tok, err := o365.GetAuthToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "device-token", tok)
	assert.Equal(t, []string{"XYZ-987"}, prompter.codes)
	assert.Equal(t, 1, prompter.waits)
}

func TestO365RefreshNearExpiry(t *testing.T) {
	calls := 0
	client := &fakeMSAL{
		accounts: []public.Account{workAccount},
		silentFn: func(account public.Account) (public.AuthResult, error) {
			calls++
			if calls == 1 {
				return workResult("tok1", testNow.Add(120*time.Second)), nil
			}
			return workResult("tok2", testNow.Add(time.Hour)), nil
		},
	}
	store := NewTokenStore()
	o365 := newTestO365(client, false, store, nil)

	tok, err := o365.GetAuthToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tok2", tok)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "tok2", store.Get().AccessToken)
}

func TestO365RefreshFailureKeepsStaleToken(t *testing.T) {
	calls := 0
	client := &fakeMSAL{
		accounts: []public.Account{workAccount},
		silentFn: func(account public.Account) (public.AuthResult, error) {
			calls++
			if calls == 1 {
				return workResult("tok1", testNow.Add(120*time.Second)), nil
			}
			return public.AuthResult{}, errors.New("AADSTS50173: grant expired")
		},
	}
	o365 := newTestO365(client, false, NewTokenStore(), nil)

	tok, err := o365.GetAuthToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)
}

func TestO365GetUserName(t *testing.T) {
	client := &fakeMSAL{
		interactiveFn: func() (public.AuthResult, error) {
			return workResult("tok", testNow.Add(time.Hour)), nil
		},
	}
	o365 := newTestO365(client, false, NewTokenStore(), nil)
	ctx := context.Background()

	assert.Empty(t, o365.GetUserName(ctx), "no name before sign-in")

	_, err := o365.GetAuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", o365.GetUserName(ctx))
}

func TestO365GetUserNameFallsBackToUsername(t *testing.T) {
	client := &fakeMSAL{
		interactiveFn: func() (public.AuthResult, error) {
			return public.AuthResult{AccessToken: "tok", ExpiresOn: testNow.Add(time.Hour), Account: workAccount}, nil
		},
	}
	o365 := newTestO365(client, false, NewTokenStore(), nil)

	_, err := o365.GetAuthToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@contoso.com", o365.GetUserName(context.Background()))
}

func TestO365SignOut(t *testing.T) {
	client := &fakeMSAL{
		interactiveFn: func() (public.AuthResult, error) {
			return workResult("tok", testNow.Add(time.Hour)), nil
		},
	}
	store := NewTokenStore()
	o365 := newTestO365(client, false, store, nil)
	ctx := context.Background()

	_, err := o365.GetAuthToken(ctx)
	require.NoError(t, err)
	require.True(t, o365.IsSignedIn())

	require.NoError(t, o365.SignOut(ctx))
	assert.False(t, o365.IsSignedIn())
	assert.True(t, store.Get().Empty())
	assert.Empty(t, o365.GetUserName(ctx))
	accounts, _ := client.Accounts(ctx)
	assert.Empty(t, accounts)

	client.interactiveFn = func() (public.AuthResult, error) {
		return workResult("second", testNow.Add(time.Hour)), nil
	}
	tok, err := o365.GetAuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", tok, "a new sign-in is required after sign-out")
}

func TestMicrosoftLoginHost(t *testing.T) {
	for _, host := range []string{"login.windows.net", "login.microsoftonline.com", "login.windows-ppe.net"} {
		assert.True(t, microsoftLoginHost.MatchString(host), host)
	}
	for _, host := range []string{"login.example.org", "windows.net.evil.com", ""} {
		assert.False(t, microsoftLoginHost.MatchString(host), host)
	}
}
