package cmd

import (
	"errors"
	"testing"

	"github.com/OneNoteDev/onenote-client/internal/app/apptest"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLogin(t *testing.T) {
	t.Run("signs in and greets the user", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		auth := &apptest.MockAuth{UserName: "Jordan Example"}
		a.Auth = auth

		var err error
		output := captureOutput(t, func() {
			err = authLoginLogic(a, newTestCmd(t, nil), nil)
		})
		require.NoError(t, err)
		assert.Contains(t, output, "Signed in to msa as Jordan Example.")
		assert.Equal(t, []onenote.AuthProvider{onenote.MicrosoftAccount}, auth.Providers)
	})

	t.Run("does nothing when already signed in", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		auth := &apptest.MockAuth{SignedIn: true}
		a.Auth = auth

		output := captureOutput(t, func() {
			require.NoError(t, authLoginLogic(a, newTestCmd(t, nil), nil))
		})
		assert.Contains(t, output, "Already signed in")
		assert.Empty(t, auth.Providers)
	})

	t.Run("reports sign-in failure", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		a.Auth = &apptest.MockAuth{Err: onenote.ErrAuthenticationFailed}

		err := authLoginLogic(a, newTestCmd(t, nil), nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, onenote.ErrAuthenticationFailed))
		assert.Contains(t, err.Error(), "login failed")
	})
}

func TestAuthLogout(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	auth := &apptest.MockAuth{SignedIn: true}
	a.Auth = auth

	output := captureOutput(t, func() {
		require.NoError(t, authLogoutLogic(a, newTestCmd(t, nil), nil))
	})
	assert.Contains(t, output, "Signed out of msa.")
	assert.Equal(t, 1, auth.SignOuts)
	assert.False(t, auth.SignedIn)
}

func TestAuthStatus(t *testing.T) {
	t.Run("not signed in", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		output := captureOutput(t, func() {
			require.NoError(t, authStatusLogic(a, newTestCmd(t, nil), nil))
		})
		assert.Contains(t, output, "Provider:  msa")
		assert.Contains(t, output, "https://www.onenote.com/api/v1.0/me/notes/")
		assert.Contains(t, output, "not signed in")
	})

	t.Run("signed in", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		a.Auth = &apptest.MockAuth{SignedIn: true}
		output := captureOutput(t, func() {
			require.NoError(t, authStatusLogic(a, newTestCmd(t, nil), nil))
		})
		assert.Contains(t, output, "Status:    signed in")
	})
}

func TestAuthWhoami(t *testing.T) {
	t.Run("prints the user name", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		a.Auth = &apptest.MockAuth{SignedIn: true, UserName: "Jordan Example"}
		output := captureOutput(t, func() {
			require.NoError(t, authWhoamiLogic(a, newTestCmd(t, nil), nil))
		})
		assert.Contains(t, output, "Jordan Example")
	})

	t.Run("name unavailable", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		a.Auth = &apptest.MockAuth{SignedIn: true}
		output := captureOutput(t, func() {
			require.NoError(t, authWhoamiLogic(a, newTestCmd(t, nil), nil))
		})
		assert.Contains(t, output, "user name is not available")
	})

	t.Run("not signed in", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.MockSDK{})
		output := captureOutput(t, func() {
			require.NoError(t, authWhoamiLogic(a, newTestCmd(t, nil), nil))
		})
		assert.Contains(t, output, "You are not signed in")
	})
}
