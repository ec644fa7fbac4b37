package cmd

import (
	"testing"

	"github.com/OneNoteDev/onenote-client/internal/app/apptest"
	"github.com/OneNoteDev/onenote-client/internal/config"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetProvider(t *testing.T) {
	useTempConfig(t)
	a := apptest.NewApp(t, &apptest.MockSDK{})

	var err error
	output := captureOutput(t, func() {
		err = configSetProviderLogic(a, newTestCmd(t, nil), []string{"o365"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Provider set to o365.")
	assert.Equal(t, onenote.O365, a.Provider())

	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, onenote.O365, saved.Provider)
}

func TestConfigSetProviderRejectsUnknown(t *testing.T) {
	useTempConfig(t)
	a := apptest.NewApp(t, &apptest.MockSDK{})

	err := configSetProviderLogic(a, newTestCmd(t, nil), []string{"google"})
	require.Error(t, err)
	assert.ErrorIs(t, err, onenote.ErrUnknownProvider)
	assert.Equal(t, onenote.MicrosoftAccount, a.Provider())
}

func TestConfigSetBeta(t *testing.T) {
	useTempConfig(t)
	a := apptest.NewApp(t, &apptest.MockSDK{})

	output := captureOutput(t, func() {
		require.NoError(t, configSetBetaLogic(a, newTestCmd(t, nil), []string{"true"}))
	})
	assert.Contains(t, output, "https://www.onenote.com/api/beta/me/notes/")

	saved, err := config.Load()
	require.NoError(t, err)
	assert.True(t, saved.UseBeta)

	err = configSetBetaLogic(a, newTestCmd(t, nil), []string{"maybe"})
	assert.Error(t, err)
}

func TestConfigSetMSAClient(t *testing.T) {
	useTempConfig(t)
	a := apptest.NewApp(t, &apptest.MockSDK{})

	captureOutput(t, func() {
		require.NoError(t, configSetMSAClientLogic(a, newTestCmd(t, nil), []string{"0000000048abcdef"}))
	})

	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "0000000048abcdef", saved.MSA.ClientID)
}

func TestConfigShow(t *testing.T) {
	dir := useTempConfig(t)
	a := apptest.NewApp(t, &apptest.MockSDK{})

	var err error
	output := captureOutput(t, func() {
		err = configShowLogic(a, newTestCmd(t, nil), nil)
	})
	require.NoError(t, err)
	assert.Contains(t, output, dir)
	assert.Contains(t, output, `"useBeta": false`)
}
