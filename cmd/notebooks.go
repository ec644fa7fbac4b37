package cmd

import (
	"fmt"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/spf13/cobra"
)

var notebooksCmd = &cobra.Command{
	Use:     "notebooks",
	Aliases: []string{"nb"},
	Short:   "Manage notebooks",
}

var notebooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notebooks",
	Long:  "Lists your notebooks. Use --expand sections,sectionGroups to include their contents.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return notebooksListLogic(a, cmd, args)
	},
}

var notebooksGetCmd = &cobra.Command{
	Use:   "get <notebook-id>",
	Short: "Show a notebook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return notebooksGetLogic(a, cmd, args)
	},
}

var notebooksCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a notebook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return notebooksCreateLogic(a, cmd, args)
	},
}

var notebooksCopyCmd = &cobra.Command{
	Use:   "copy <notebook-id>",
	Short: "Copy a notebook",
	Long:  "Starts an asynchronous copy of a notebook. Use --wait to block until it finishes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return notebooksCopyLogic(a, cmd, args)
	},
}

func notebooksListLogic(a *app.App, cmd *cobra.Command, args []string) error {
	q, err := ui.ParseQueryFlags(cmd, "name")
	if err != nil {
		return err
	}
	env, err := a.SDK.ListNotebooks(app.Context(cmd), q)
	if err != nil {
		return fmt.Errorf("listing notebooks: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplayNotebooks)
	return env.Err()
}

func notebooksGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	env, err := a.SDK.GetNotebook(app.Context(cmd), args[0])
	if err != nil {
		return fmt.Errorf("getting notebook: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplayNotebook)
	return env.Err()
}

func notebooksCreateLogic(a *app.App, cmd *cobra.Command, args []string) error {
	env, err := a.SDK.CreateNotebook(app.Context(cmd), args[0])
	if err != nil {
		return fmt.Errorf("creating notebook: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplayNotebook)
	return env.Err()
}

func notebooksCopyLogic(a *app.App, cmd *cobra.Command, args []string) error {
	renameAs, _ := cmd.Flags().GetString("rename-as")
	wait, _ := cmd.Flags().GetBool("wait")

	ctx := app.Context(cmd)
	env, err := a.SDK.CopyNotebook(ctx, args[0], renameAs)
	if err != nil {
		return fmt.Errorf("copying notebook: %w", err)
	}
	rec := &session.Operation{Kind: session.KindNotebook, SourceID: args[0], RenameAs: renameAs}
	return a.HandleCopy(ctx, rec, env, wait)
}

func init() {
	rootCmd.AddCommand(notebooksCmd)
	notebooksCmd.AddCommand(notebooksListCmd)
	notebooksCmd.AddCommand(notebooksGetCmd)
	notebooksCmd.AddCommand(notebooksCreateCmd)
	notebooksCmd.AddCommand(notebooksCopyCmd)

	ui.AddQueryFlags(notebooksListCmd)
	notebooksCopyCmd.Flags().String("rename-as", "", "Name for the copy")
	notebooksCopyCmd.Flags().Bool("wait", false, "Wait for the copy to finish")
}
