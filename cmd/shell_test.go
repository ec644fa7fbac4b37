package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/app/apptest"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "empty", line: "   ", want: nil},
		{name: "plain words", line: "notebooks list --top 5", want: []string{"notebooks", "list", "--top", "5"}},
		{name: "double quotes", line: `notebooks create "Work Notes"`, want: []string{"notebooks", "create", "Work Notes"}},
		{name: "single quotes keep backslash", line: `pages list --filter 'a\b'`, want: []string{"pages", "list", "--filter", `a\b`}},
		{name: "escaped space", line: `sections create nb-1 Team\ Sync`, want: []string{"sections", "create", "nb-1", "Team Sync"}},
		{name: "empty quoted argument", line: `pages create --title ""`, want: []string{"pages", "create", "--title", ""}},
		{name: "tabs separate", line: "auth\tstatus", want: []string{"auth", "status"}},
		{name: "unterminated quote", line: `notebooks create "Work`, wantErr: true},
		{name: "trailing escape", line: `auth status \`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := splitArgs(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestShellLogicRunsLinesWithSharedApp(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	input := strings.NewReader("auth status\n\nnotebooks list --top 2\nshell\nbad \"quote\nfail\nexit\nauth whoami\n")

	var lines [][]string
	run := func(ctx context.Context, args []string) error {
		got, err := app.ForCommand(newCommandWithContext(ctx))
		require.NoError(t, err)
		assert.Same(t, a, got)
		lines = append(lines, args)
		if args[0] == "fail" {
			return errors.New("boom")
		}
		return nil
	}

	var err error
	output := captureOutput(t, func() {
		err = shellLogic(a, newTestCmd(t, nil), input, run)
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"auth", "status"},
		{"notebooks", "list", "--top", "2"},
		{"fail"},
	}, lines)
	assert.Contains(t, output, "Already in the shell.")
	assert.Contains(t, output, "unterminated quote")
	assert.Contains(t, output, "Error: boom")
}

func TestShellLogicEndsAtEOF(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	calls := 0
	run := func(ctx context.Context, args []string) error {
		calls++
		return nil
	}

	captureOutput(t, func() {
		require.NoError(t, shellLogic(a, newTestCmd(t, nil), strings.NewReader("auth status"), run))
	})
	assert.Equal(t, 1, calls)
}

type markerKey struct{}

func TestResetCommandsRestoresDefaults(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	child := &cobra.Command{Use: "child", Run: func(cmd *cobra.Command, args []string) {}}
	root.AddCommand(child)
	child.Flags().String("rename-as", "", "")
	child.Flags().Bool("wait", false, "")
	child.Flags().Int("top", 0, "")
	child.Flags().StringArray("attach", nil, "")
	child.Flags().StringSlice("tags", []string{"a", "b"}, "")

	require.NoError(t, child.ParseFlags([]string{
		"--rename-as", "Copy", "--wait", "--top", "3",
		"--attach", "photo=./photo.jpg", "--tags", "x",
	}))

	ctx := context.WithValue(context.Background(), markerKey{}, "marker")
	resetCommands(ctx, root)

	renameAs, _ := child.Flags().GetString("rename-as")
	wait, _ := child.Flags().GetBool("wait")
	top, _ := child.Flags().GetInt("top")
	attach, _ := child.Flags().GetStringArray("attach")
	tags, _ := child.Flags().GetStringSlice("tags")

	assert.Empty(t, renameAs)
	assert.False(t, wait)
	assert.Zero(t, top)
	assert.Empty(t, attach)
	assert.Equal(t, []string{"a", "b"}, tags)
	assert.False(t, child.Flags().Changed("top"))
	assert.Equal(t, ctx, child.Context())
	assert.Equal(t, ctx, root.Context())
}

func TestExecuteLineUsesSharedApp(t *testing.T) {
	useTempConfig(t)
	a := apptest.NewApp(t, &apptest.MockSDK{})
	a.Auth = &apptest.MockAuth{SignedIn: true, UserName: "Jordan Example"}
	ctx := app.WithApp(context.Background(), a)

	var err error
	output := captureOutput(t, func() {
		err = executeLine(ctx, []string{"auth", "whoami"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Jordan Example")

	output = captureOutput(t, func() {
		err = executeLine(ctx, []string{"auth", "status"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, onenote.MicrosoftAccount.String())
}

func newCommandWithContext(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	return cmd
}
