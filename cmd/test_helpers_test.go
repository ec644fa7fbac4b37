package cmd

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/OneNoteDev/onenote-client/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newTestCmd returns a fresh command with the flags added by setup, parsed
// from flags.
func newTestCmd(t *testing.T, setup func(cmd *cobra.Command), flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	if setup != nil {
		setup(cmd)
	}
	require.NoError(t, cmd.ParseFlags(flags))
	return cmd
}

// useTempConfig points the config file at a temporary directory.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.json"))
	return dir
}

// captureOutput returns what f wrote to stdout and stderr, including the
// standard logger.
func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	originalLogOutput := log.Writer()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	oldStderr := os.Stderr
	r2, w2, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w2
	log.SetOutput(w2)

	stdoutC := make(chan string)
	stderrC := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		stdoutC <- string(data)
	}()
	go func() {
		data, _ := io.ReadAll(r2)
		stderrC <- string(data)
	}()

	f()

	w.Close()
	w2.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	log.SetOutput(originalLogOutput)

	return <-stdoutC + <-stderrC
}
