// Package cmd (root.go) defines the root command for the onenote-client CLI.
// It sets up global flags and registers the command groups.
package cmd

import (
	"fmt"
	"os"

	cmdPages "github.com/OneNoteDev/onenote-client/cmd/pages"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "onenote-client",
	Short: "A CLI client for the Microsoft OneNote API",
	Long: `onenote-client is a command-line interface to the OneNote REST API.
It signs in with a Microsoft Account (msa) or a work or school account (o365)
and lets you browse and manage notebooks, sections, section groups and pages.

Every command prints the HTTP status and correlation ID of the call it made,
followed by the result or the raw response body.

Access tokens are kept in memory only. Use 'onenote-client shell' to sign in
once and run several commands with the same session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging for SDK and internal operations")

	cmdPages.InitPagesCommands(rootCmd)

	// Other top-level commands are added in their own files' init functions.
}
