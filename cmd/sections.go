package cmd

import (
	"errors"
	"fmt"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Manage sections",
}

var sectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections",
	Long:  "Lists all sections, or those in one notebook (--notebook) or section group (--section-group).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return sectionsListLogic(a, cmd, args)
	},
}

var sectionsGetCmd = &cobra.Command{
	Use:   "get <section-id>",
	Short: "Show a section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return sectionsGetLogic(a, cmd, args)
	},
}

var sectionsCreateCmd = &cobra.Command{
	Use:   "create <notebook-id> <name>",
	Short: "Create a section in a notebook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return sectionsCreateLogic(a, cmd, args)
	},
}

var sectionsCopyCmd = &cobra.Command{
	Use:   "copy <section-id>",
	Short: "Copy a section to a notebook or section group",
	Long:  "Starts an asynchronous copy of a section into --to-notebook or --to-section-group. Use --wait to block until it finishes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return sectionsCopyLogic(a, cmd, args)
	},
}

// parentFlags reads a pair of mutually exclusive parent ID flags.
func parentFlags(cmd *cobra.Command, notebookFlag, groupFlag string) (notebookID, groupID string, err error) {
	notebookID, _ = cmd.Flags().GetString(notebookFlag)
	groupID, _ = cmd.Flags().GetString(groupFlag)
	if notebookID != "" && groupID != "" {
		return "", "", fmt.Errorf("--%s and --%s cannot be combined", notebookFlag, groupFlag)
	}
	return notebookID, groupID, nil
}

func sectionsListLogic(a *app.App, cmd *cobra.Command, args []string) error {
	q, err := ui.ParseQueryFlags(cmd, "name")
	if err != nil {
		return err
	}
	notebookID, groupID, err := parentFlags(cmd, "notebook", "section-group")
	if err != nil {
		return err
	}

	ctx := app.Context(cmd)
	var env onenote.Envelope[[]onenote.Section]
	switch {
	case notebookID != "":
		env, err = a.SDK.ListSectionsInNotebook(ctx, notebookID, q)
	case groupID != "":
		env, err = a.SDK.ListSectionsInSectionGroup(ctx, groupID, q)
	default:
		env, err = a.SDK.ListSections(ctx, q)
	}
	if err != nil {
		return fmt.Errorf("listing sections: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplaySections)
	return env.Err()
}

func sectionsGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	env, err := a.SDK.GetSection(app.Context(cmd), args[0])
	if err != nil {
		return fmt.Errorf("getting section: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplaySection)
	return env.Err()
}

func sectionsCreateLogic(a *app.App, cmd *cobra.Command, args []string) error {
	env, err := a.SDK.CreateSection(app.Context(cmd), args[0], args[1])
	if err != nil {
		return fmt.Errorf("creating section: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplaySection)
	return env.Err()
}

func sectionsCopyLogic(a *app.App, cmd *cobra.Command, args []string) error {
	notebookID, groupID, err := parentFlags(cmd, "to-notebook", "to-section-group")
	if err != nil {
		return err
	}
	if notebookID == "" && groupID == "" {
		return errors.New("one of --to-notebook or --to-section-group is required")
	}
	renameAs, _ := cmd.Flags().GetString("rename-as")
	wait, _ := cmd.Flags().GetBool("wait")

	ctx := app.Context(cmd)
	rec := &session.Operation{Kind: session.KindSection, SourceID: args[0], RenameAs: renameAs}
	var env onenote.Envelope[onenote.CopyOperation]
	if notebookID != "" {
		rec.TargetID = notebookID
		env, err = a.SDK.CopySectionToNotebook(ctx, args[0], notebookID, renameAs)
	} else {
		rec.TargetID = groupID
		env, err = a.SDK.CopySectionToSectionGroup(ctx, args[0], groupID, renameAs)
	}
	if err != nil {
		return fmt.Errorf("copying section: %w", err)
	}
	return a.HandleCopy(ctx, rec, env, wait)
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
	sectionsCmd.AddCommand(sectionsListCmd)
	sectionsCmd.AddCommand(sectionsGetCmd)
	sectionsCmd.AddCommand(sectionsCreateCmd)
	sectionsCmd.AddCommand(sectionsCopyCmd)

	ui.AddQueryFlags(sectionsListCmd)
	sectionsListCmd.Flags().String("notebook", "", "Only list sections in this notebook")
	sectionsListCmd.Flags().String("section-group", "", "Only list sections in this section group")

	sectionsCopyCmd.Flags().String("to-notebook", "", "Destination notebook ID")
	sectionsCopyCmd.Flags().String("to-section-group", "", "Destination section group ID")
	sectionsCopyCmd.Flags().String("rename-as", "", "Name for the copy")
	sectionsCopyCmd.Flags().Bool("wait", false, "Wait for the copy to finish")
}
