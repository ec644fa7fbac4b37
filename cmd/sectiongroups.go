package cmd

import (
	"errors"
	"fmt"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

var sectionGroupsCmd = &cobra.Command{
	Use:     "sectiongroups",
	Aliases: []string{"groups"},
	Short:   "Manage section groups",
}

var sectionGroupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List section groups",
	Long:  "Lists all section groups, or those in one notebook (--notebook) or parent group (--section-group).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return sectionGroupsListLogic(a, cmd, args)
	},
}

var sectionGroupsGetCmd = &cobra.Command{
	Use:   "get <section-group-id>",
	Short: "Show a section group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return sectionGroupsGetLogic(a, cmd, args)
	},
}

var sectionGroupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a section group in a notebook or another section group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return sectionGroupsCreateLogic(a, cmd, args)
	},
}

func sectionGroupsListLogic(a *app.App, cmd *cobra.Command, args []string) error {
	q, err := ui.ParseQueryFlags(cmd, "name")
	if err != nil {
		return err
	}
	notebookID, groupID, err := parentFlags(cmd, "notebook", "section-group")
	if err != nil {
		return err
	}

	ctx := app.Context(cmd)
	var env onenote.Envelope[[]onenote.SectionGroup]
	switch {
	case notebookID != "":
		env, err = a.SDK.ListSectionGroupsInNotebook(ctx, notebookID, q)
	case groupID != "":
		env, err = a.SDK.ListSectionGroupsInSectionGroup(ctx, groupID, q)
	default:
		env, err = a.SDK.ListSectionGroups(ctx, q)
	}
	if err != nil {
		return fmt.Errorf("listing section groups: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplaySectionGroups)
	return env.Err()
}

func sectionGroupsGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	env, err := a.SDK.GetSectionGroup(app.Context(cmd), args[0])
	if err != nil {
		return fmt.Errorf("getting section group: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplaySectionGroup)
	return env.Err()
}

func sectionGroupsCreateLogic(a *app.App, cmd *cobra.Command, args []string) error {
	notebookID, groupID, err := parentFlags(cmd, "notebook", "section-group")
	if err != nil {
		return err
	}

	ctx := app.Context(cmd)
	var env onenote.Envelope[onenote.SectionGroup]
	switch {
	case notebookID != "":
		env, err = a.SDK.CreateSectionGroupInNotebook(ctx, notebookID, args[0])
	case groupID != "":
		env, err = a.SDK.CreateSectionGroupInSectionGroup(ctx, groupID, args[0])
	default:
		return errors.New("one of --notebook or --section-group is required")
	}
	if err != nil {
		return fmt.Errorf("creating section group: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplaySectionGroup)
	return env.Err()
}

func init() {
	rootCmd.AddCommand(sectionGroupsCmd)
	sectionGroupsCmd.AddCommand(sectionGroupsListCmd)
	sectionGroupsCmd.AddCommand(sectionGroupsGetCmd)
	sectionGroupsCmd.AddCommand(sectionGroupsCreateCmd)

	ui.AddQueryFlags(sectionGroupsListCmd)
	sectionGroupsListCmd.Flags().String("notebook", "", "Only list section groups in this notebook")
	sectionGroupsListCmd.Flags().String("section-group", "", "Only list section groups in this parent group")

	sectionGroupsCreateCmd.Flags().String("notebook", "", "Parent notebook ID")
	sectionGroupsCreateCmd.Flags().String("section-group", "", "Parent section group ID")
}
