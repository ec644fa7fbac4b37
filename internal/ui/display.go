// Package ui (display.go) prints API results to the console. Every command
// shows the HTTP status and correlation id of the call, followed by the
// parsed entity when there is one and the raw response body otherwise.
package ui

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
)

// Success prints a simple success message to standard output.
func Success(msg string) {
	fmt.Println(msg)
}

// PrintError prints an error using the standard logger.
func PrintError(err error) {
	log.Printf("ERROR: %v", err)
}

// DisplayStatus prints the status line and correlation id of a response.
func DisplayStatus(statusCode int, correlationID string) {
	fmt.Printf("Status:         %d %s\n", statusCode, http.StatusText(statusCode))
	if correlationID == "" {
		correlationID = "(none)"
	}
	fmt.Printf("Correlation ID: %s\n", correlationID)
}

// DisplayEnvelope prints the status of env, then renders its entity with
// render, or prints the raw body when there is no entity.
func DisplayEnvelope[T any](env onenote.Envelope[T], render func(T)) {
	DisplayStatus(env.StatusCode, env.CorrelationID)
	fmt.Println()
	if env.Entity != nil && render != nil {
		render(*env.Entity)
		return
	}
	DisplayBody(env.Body)
}

// DisplayBody prints a raw response body.
func DisplayBody(body string) {
	if strings.TrimSpace(body) == "" {
		fmt.Println("(empty body)")
		return
	}
	fmt.Println(body)
}

// DisplayNotebooks prints a table of notebooks.
func DisplayNotebooks(notebooks []onenote.Notebook) {
	if len(notebooks) == 0 {
		fmt.Println("No notebooks found.")
		return
	}

	fmt.Printf("%-40.40s %-10s %-16s %s\n", "Name", "Role", "Modified", "ID")
	fmt.Println(strings.Repeat("-", 110))
	for _, nb := range notebooks {
		role := nb.UserRole
		if role == "" {
			role = "-"
		}
		fmt.Printf("%-40.40s %-10s %-16s %s\n", truncate(nb.Name, 40), role, shortTime(nb.LastModifiedTime), nb.ID)
	}
}

// DisplayNotebook prints the details of one notebook.
func DisplayNotebook(nb onenote.Notebook) {
	fmt.Println("Notebook:")
	fmt.Printf("  Name:             %s\n", nb.Name)
	fmt.Printf("  ID:               %s\n", nb.ID)
	fmt.Printf("  Created:          %s\n", longTime(nb.CreatedTime))
	fmt.Printf("  Last Modified:    %s\n", longTime(nb.LastModifiedTime))
	if nb.CreatedBy != "" {
		fmt.Printf("  Created By:       %s\n", nb.CreatedBy)
	}
	if nb.UserRole != "" {
		fmt.Printf("  Role:             %s\n", nb.UserRole)
	}
	fmt.Printf("  Default:          %t\n", nb.IsDefault)
	fmt.Printf("  Shared:           %t\n", nb.IsShared)
	displayLinks(nb.Links)
}

// DisplaySections prints a table of sections.
func DisplaySections(sections []onenote.Section) {
	if len(sections) == 0 {
		fmt.Println("No sections found.")
		return
	}

	fmt.Printf("%-35.35s %-25.25s %-16s %s\n", "Name", "Notebook", "Modified", "ID")
	fmt.Println(strings.Repeat("-", 120))
	for _, s := range sections {
		fmt.Printf("%-35.35s %-25.25s %-16s %s\n", truncate(s.Name, 35), truncate(refName(s.ParentNotebook), 25), shortTime(s.LastModifiedTime), s.ID)
	}
}

// DisplaySection prints the details of one section.
func DisplaySection(s onenote.Section) {
	fmt.Println("Section:")
	fmt.Printf("  Name:             %s\n", s.Name)
	fmt.Printf("  ID:               %s\n", s.ID)
	fmt.Printf("  Notebook:         %s\n", refName(s.ParentNotebook))
	if s.ParentSectionGroup != nil {
		fmt.Printf("  Section Group:    %s\n", refName(s.ParentSectionGroup))
	}
	fmt.Printf("  Created:          %s\n", longTime(s.CreatedTime))
	fmt.Printf("  Last Modified:    %s\n", longTime(s.LastModifiedTime))
	displayLinks(s.Links)
}

// DisplaySectionGroups prints a table of section groups.
func DisplaySectionGroups(groups []onenote.SectionGroup) {
	if len(groups) == 0 {
		fmt.Println("No section groups found.")
		return
	}

	fmt.Printf("%-35.35s %-25.25s %-16s %s\n", "Name", "Notebook", "Modified", "ID")
	fmt.Println(strings.Repeat("-", 120))
	for _, g := range groups {
		fmt.Printf("%-35.35s %-25.25s %-16s %s\n", truncate(g.Name, 35), truncate(refName(g.ParentNotebook), 25), shortTime(g.LastModifiedTime), g.ID)
	}
}

// DisplaySectionGroup prints the details of one section group.
func DisplaySectionGroup(g onenote.SectionGroup) {
	fmt.Println("Section Group:")
	fmt.Printf("  Name:             %s\n", g.Name)
	fmt.Printf("  ID:               %s\n", g.ID)
	fmt.Printf("  Notebook:         %s\n", refName(g.ParentNotebook))
	if g.ParentSectionGroup != nil {
		fmt.Printf("  Parent Group:     %s\n", refName(g.ParentSectionGroup))
	}
	fmt.Printf("  Created:          %s\n", longTime(g.CreatedTime))
	fmt.Printf("  Last Modified:    %s\n", longTime(g.LastModifiedTime))
}

// DisplayPages prints a table of pages.
func DisplayPages(pages []onenote.Page) {
	if len(pages) == 0 {
		fmt.Println("No pages found.")
		return
	}

	fmt.Printf("%-45.45s %-25.25s %-16s %s\n", "Title", "Section", "Modified", "ID")
	fmt.Println(strings.Repeat("-", 130))
	for _, p := range pages {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		// Subpages are indented by level.
		title = strings.Repeat("  ", p.Level) + title
		fmt.Printf("%-45.45s %-25.25s %-16s %s\n", truncate(title, 45), truncate(refName(p.ParentSection), 25), shortTime(p.LastModifiedTime), p.ID)
	}
}

// DisplayPage prints the metadata of one page.
func DisplayPage(p onenote.Page) {
	fmt.Println("Page:")
	fmt.Printf("  Title:            %s\n", p.Title)
	fmt.Printf("  ID:               %s\n", p.ID)
	fmt.Printf("  Section:          %s\n", refName(p.ParentSection))
	fmt.Printf("  Created:          %s\n", longTime(p.CreatedTime))
	fmt.Printf("  Last Modified:    %s\n", longTime(p.LastModifiedTime))
	if p.ContentURL != "" {
		fmt.Printf("  Content URL:      %s\n", p.ContentURL)
	}
	displayLinks(p.Links)
}

// DisplayCopyOperation prints the state of an async copy.
func DisplayCopyOperation(op onenote.CopyOperation) {
	fmt.Println("Copy Operation:")
	if op.ID != "" {
		fmt.Printf("  ID:               %s\n", op.ID)
	}
	fmt.Printf("  Status:           %s\n", op.Status)
	if op.CreatedDateTime != nil {
		fmt.Printf("  Started:          %s\n", longTime(op.CreatedDateTime))
	}
	if op.ResourceID != "" {
		fmt.Printf("  Resource ID:      %s\n", op.ResourceID)
	}
	if op.ResourceLocation != "" {
		fmt.Printf("  Resource:         %s\n", op.ResourceLocation)
	}
	if op.Error != nil {
		fmt.Printf("  Error:            %s: %s\n", op.Error.Code, op.Error.Message)
	}
}

// DisplayOperationRecords prints the locally tracked copy operations.
func DisplayOperationRecords(ops []session.Operation) {
	if len(ops) == 0 {
		fmt.Println("No copy operations recorded.")
		return
	}

	fmt.Printf("%-10s %-9s %-12s %-8s %-16s %s\n", "ID", "Kind", "Status", "Account", "Started", "Source")
	fmt.Println(strings.Repeat("-", 100))
	for _, op := range ops {
		status := op.Status
		if status == "" {
			status = "Unknown"
		}
		started := op.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("%-10s %-9s %-12s %-8s %-16s %s\n", shortID(op.ID), op.Kind, status, op.Provider, started, op.SourceID)
	}
}

// DisplayContent prints rendered page content.
func DisplayContent(content string) {
	fmt.Println(strings.TrimRight(content, "\n"))
}

func displayLinks(links *onenote.Links) {
	if web := links.WebURL(); web != "" {
		fmt.Printf("  Web URL:          %s\n", web)
	}
	if client := links.ClientURL(); client != "" {
		fmt.Printf("  Client URL:       %s\n", client)
	}
}

func refName(ref *onenote.EntityRef) string {
	if ref == nil {
		return "-"
	}
	if ref.Name != "" {
		return ref.Name
	}
	return ref.ID
}

func shortTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func longTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "unknown"
	}
	return t.Local().Format(time.RFC1123)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
