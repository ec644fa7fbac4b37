package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

var pagesCreateCmd = &cobra.Command{
	Use:   "create [section-id]",
	Short: "Create a page",
	Long: `Creates a page in a section, or in your default section when no section is given.
The body comes from --html, --markdown or --file. Files attached with --attach
are sent in one multipart request and can be referenced from the body, for
example <img src="name:photo" /> for --attach photo=./photo.jpg.
--section-name targets a section of the default notebook by name instead of id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return pagesCreateLogic(a, cmd, args)
	},
}

var pagesAppendCmd = &cobra.Command{
	Use:   "append <page-id>",
	Short: "Add content to a page",
	Long:  "Appends HTML or markdown to a page. Use --target and --action to update a specific element instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return pagesAppendLogic(a, cmd, args)
	},
}

var pagesDeleteCmd = &cobra.Command{
	Use:   "delete <page-id>",
	Short: "Delete a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return pagesDeleteLogic(a, cmd, args)
	},
}

var pagesCopyCmd = &cobra.Command{
	Use:   "copy <page-id> <section-id>",
	Short: "Copy a page to a section",
	Long:  "Starts an asynchronous copy of a page into a section. Use --wait to block until it finishes.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return pagesCopyLogic(a, cmd, args)
	},
}

func pagesCreateLogic(a *app.App, cmd *cobra.Command, args []string) error {
	body, err := bodyFromFlags(cmd)
	if err != nil {
		return err
	}
	title, _ := cmd.Flags().GetString("title")
	attach, _ := cmd.Flags().GetStringArray("attach")
	parts, err := readAttachments(attach)
	if err != nil {
		return err
	}

	sectionID := ""
	if len(args) == 1 {
		sectionID = args[0]
	}
	sectionName, _ := cmd.Flags().GetString("section-name")
	if sectionName != "" && sectionID != "" {
		return errors.New("give either a section id or --section-name, not both")
	}
	if sectionName != "" && len(parts) > 0 {
		return errors.New("--attach cannot be combined with --section-name")
	}
	doc := onenote.PageDocument(title, body, time.Now())

	ctx := app.Context(cmd)
	var env onenote.Envelope[onenote.Page]
	switch {
	case sectionName != "":
		env, err = a.SDK.CreatePageInSectionNamed(ctx, sectionName, doc)
	case len(parts) > 0:
		env, err = a.SDK.CreatePageWithParts(ctx, sectionID, doc, parts...)
	default:
		env, err = a.SDK.CreatePage(ctx, sectionID, doc)
	}
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplayPage)
	return env.Err()
}

func pagesAppendLogic(a *app.App, cmd *cobra.Command, args []string) error {
	content, err := bodyFromFlags(cmd)
	if err != nil {
		return err
	}
	target, _ := cmd.Flags().GetString("target")
	action, _ := cmd.Flags().GetString("action")
	if err := validateAction(action); err != nil {
		return err
	}

	commands := []onenote.PatchCommand{{Target: target, Action: action, Content: content}}
	env, err := a.SDK.UpdatePageContent(app.Context(cmd), args[0], commands)
	if err != nil {
		return fmt.Errorf("updating page: %w", err)
	}
	ui.DisplayEnvelope(env, nil)
	return env.Err()
}

func pagesDeleteLogic(a *app.App, cmd *cobra.Command, args []string) error {
	env, err := a.SDK.DeletePage(app.Context(cmd), args[0])
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	ui.DisplayEnvelope(env, nil)
	return env.Err()
}

func pagesCopyLogic(a *app.App, cmd *cobra.Command, args []string) error {
	renameAs, _ := cmd.Flags().GetString("rename-as")
	wait, _ := cmd.Flags().GetBool("wait")

	ctx := app.Context(cmd)
	env, err := a.SDK.CopyPageToSection(ctx, args[0], args[1], renameAs)
	if err != nil {
		return fmt.Errorf("copying page: %w", err)
	}
	rec := &session.Operation{Kind: session.KindPage, SourceID: args[0], TargetID: args[1], RenameAs: renameAs}
	return a.HandleCopy(ctx, rec, env, wait)
}
