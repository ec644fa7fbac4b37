package cmd

import (
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/spf13/cobra"
)

var PagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Manage pages",
	Long:  "Provides commands to list, read, create, update, delete and copy OneNote pages.",
}

func InitPagesCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(PagesCmd)

	PagesCmd.AddCommand(pagesListCmd)
	PagesCmd.AddCommand(pagesGetCmd)
	PagesCmd.AddCommand(pagesContentCmd)
	PagesCmd.AddCommand(pagesCreateCmd)
	PagesCmd.AddCommand(pagesAppendCmd)
	PagesCmd.AddCommand(pagesDeleteCmd)
	PagesCmd.AddCommand(pagesCopyCmd)

	ui.AddQueryFlags(pagesListCmd)
	pagesListCmd.Flags().String("section", "", "Only list pages in this section")
	pagesListCmd.Flags().String("search", "", "Full text search across page content")

	pagesContentCmd.Flags().String("format", "html", "Output format: html, markdown or text")
	pagesContentCmd.Flags().String("output", "", "Write the content to this file instead of stdout")
	pagesContentCmd.Flags().Bool("force", false, "Overwrite the --output file if it exists")

	pagesCreateCmd.Flags().String("title", "", "Page title")
	pagesCreateCmd.Flags().String("html", "", "Page body as HTML")
	pagesCreateCmd.Flags().String("markdown", "", "Page body as markdown")
	pagesCreateCmd.Flags().String("file", "", "Read the page body from a file; .md files are treated as markdown")
	pagesCreateCmd.Flags().String("section-name", "", "Create the page in the default notebook's section with this name, creating the section if needed")
	pagesCreateCmd.Flags().StringArray("attach", nil, "Attach a file as name=path; refer to it in the body as name:<name>")

	pagesAppendCmd.Flags().String("html", "", "HTML to append")
	pagesAppendCmd.Flags().String("markdown", "", "Markdown to append")
	pagesAppendCmd.Flags().String("file", "", "Read the content from a file; .md files are treated as markdown")
	pagesAppendCmd.Flags().String("target", "body", "Element to update: body, or #id of an element")
	pagesAppendCmd.Flags().String("action", "append", "Patch action: append, prepend, insert or replace")

	pagesCopyCmd.Flags().String("rename-as", "", "Title for the copy")
	pagesCopyCmd.Flags().Bool("wait", false, "Wait for the copy to finish")
}
