package cmd

import (
	"fmt"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages",
	Long:  "Lists pages across all sections, or in one section with --section. Results come back a page at a time; use --top and --skip to walk them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return pagesListLogic(a, cmd, args)
	},
}

var pagesGetCmd = &cobra.Command{
	Use:   "get <page-id>",
	Short: "Show a page's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return pagesGetLogic(a, cmd, args)
	},
}

var pagesContentCmd = &cobra.Command{
	Use:   "content <page-id>",
	Short: "Print a page's content",
	Long:  "Fetches a page's HTML and prints it as HTML, markdown or plain text.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return pagesContentLogic(a, cmd, args)
	},
}

func pagesListLogic(a *app.App, cmd *cobra.Command, args []string) error {
	q, err := ui.ParseQueryFlags(cmd, "title")
	if err != nil {
		return err
	}
	q.Search, _ = cmd.Flags().GetString("search")
	sectionID, _ := cmd.Flags().GetString("section")

	ctx := app.Context(cmd)
	var env onenote.Envelope[[]onenote.Page]
	if sectionID != "" {
		env, err = a.SDK.ListPagesInSection(ctx, sectionID, q)
	} else {
		env, err = a.SDK.ListPages(ctx, q)
	}
	if err != nil {
		return fmt.Errorf("listing pages: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplayPages)
	return env.Err()
}

func pagesGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	env, err := a.SDK.GetPage(app.Context(cmd), args[0])
	if err != nil {
		return fmt.Errorf("getting page: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplayPage)
	return env.Err()
}

func pagesContentLogic(a *app.App, cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := onenote.ParseContentFormat(formatName)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	env, err := a.SDK.GetPageContent(app.Context(cmd), args[0])
	if err != nil {
		return fmt.Errorf("getting page content: %w", err)
	}
	ui.DisplayStatus(env.StatusCode, env.CorrelationID)
	fmt.Println()
	if env.Entity == nil {
		ui.DisplayBody(env.Body)
		return env.Err()
	}

	content, err := onenote.RenderContent(*env.Entity, format)
	if err != nil {
		return err
	}
	if output == "" {
		ui.DisplayContent(content)
		return nil
	}
	if err := writeContent(output, content, force); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Page content written to %s (%s).", output, format))
	return nil
}
