package onenote

import (
	"fmt"
	stdhtml "html"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/jaytaylor/html2text"
)

// ContentFormat selects how page content is rendered for display.
type ContentFormat string

const (
	FormatHTML     ContentFormat = "html"
	FormatMarkdown ContentFormat = "markdown"
	FormatText     ContentFormat = "text"
)

// ParseContentFormat accepts the names above plus "md" and "txt".
func ParseContentFormat(s string) (ContentFormat, error) {
	switch strings.ToLower(s) {
	case "", "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown content format %q", s)
	}
}

// MarkdownToHTML renders markdown as an HTML fragment suitable for a page body.
func MarkdownToHTML(markdownText string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return string(markdown.ToHTML([]byte(markdownText), p, renderer))
}

// HTMLToMarkdown renders page HTML as CommonMark.
func HTMLToMarkdown(pageHTML string) (string, error) {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(pageHTML)
	if err != nil {
		return "", fmt.Errorf("converting page to markdown: %w", err)
	}
	return out, nil
}

// HTMLToText renders page HTML as plain text.
func HTMLToText(pageHTML string) (string, error) {
	out, err := html2text.FromString(pageHTML, html2text.Options{PrettyTables: true})
	if err != nil {
		return "", fmt.Errorf("converting page to text: %w", err)
	}
	return out, nil
}

// RenderContent converts page HTML into format.
func RenderContent(pageHTML string, format ContentFormat) (string, error) {
	switch format {
	case FormatMarkdown:
		return HTMLToMarkdown(pageHTML)
	case FormatText:
		return HTMLToText(pageHTML)
	default:
		return pageHTML, nil
	}
}

// PageDocument wraps a body fragment in the XHTML document the create page
// endpoint expects. The title is escaped; bodyHTML is used verbatim. A zero
// created time lets the service stamp the page.
func PageDocument(title, bodyHTML string, created time.Time) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", stdhtml.EscapeString(title))
	if !created.IsZero() {
		fmt.Fprintf(&b, "<meta name=\"created\" content=\"%s\" />\n", created.Format(time.RFC3339))
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(bodyHTML)
	if !strings.HasSuffix(bodyHTML, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
