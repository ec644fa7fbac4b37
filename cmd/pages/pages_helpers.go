// Package cmd (pages_helpers.go) turns the content flags shared by the page
// commands into HTML and attachment parts.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

// bodyFromFlags returns the HTML given by exactly one of --html, --markdown
// or --file. Markdown, inline or from a .md/.markdown file, is rendered to HTML.
func bodyFromFlags(cmd *cobra.Command) (string, error) {
	htmlText, _ := cmd.Flags().GetString("html")
	markdownText, _ := cmd.Flags().GetString("markdown")
	file, _ := cmd.Flags().GetString("file")

	set := 0
	for _, v := range []string{htmlText, markdownText, file} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return "", errors.New("exactly one of --html, --markdown or --file is required")
	}

	switch {
	case htmlText != "":
		return htmlText, nil
	case markdownText != "":
		return onenote.MarkdownToHTML(markdownText), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown":
		return onenote.MarkdownToHTML(string(data)), nil
	default:
		return string(data), nil
	}
}

// readAttachments loads each name=path pair into a part. The content type is
// detected from the data.
func readAttachments(args []string) ([]onenote.Part, error) {
	parts := make([]onenote.Part, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid attachment %q, expected name=path", arg)
		}
		if seen[name] {
			return nil, fmt.Errorf("attachment name %q is used twice", name)
		}
		seen[name] = true

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading attachment %s: %w", path, err)
		}
		parts = append(parts, onenote.Part{Name: name, Data: data})
	}
	return parts, nil
}

// writeContent writes page content to path. An existing file is only
// replaced when force is set.
func writeContent(path, content string, force bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(filepath.Clean(path), flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists; use --force to overwrite it", path)
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func validateAction(action string) error {
	switch action {
	case onenote.PatchAppend, onenote.PatchInsert, onenote.PatchPrepend, onenote.PatchReplace:
		return nil
	default:
		return fmt.Errorf("invalid action %q, expected append, prepend, insert or replace", action)
	}
}
