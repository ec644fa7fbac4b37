package app

import (
	"context"

	"github.com/OneNoteDev/onenote-client/pkg/onenote"
)

// SDK defines the OneNote API operations the commands use.
// This allows for mocking in tests.
type SDK interface {
	ListNotebooks(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Notebook], error)
	GetNotebook(ctx context.Context, id string) (onenote.Envelope[onenote.Notebook], error)
	CreateNotebook(ctx context.Context, name string) (onenote.Envelope[onenote.Notebook], error)
	CopyNotebook(ctx context.Context, id, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)

	ListSections(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Section], error)
	ListSectionsInNotebook(ctx context.Context, notebookID string, q onenote.Query) (onenote.Envelope[[]onenote.Section], error)
	ListSectionsInSectionGroup(ctx context.Context, groupID string, q onenote.Query) (onenote.Envelope[[]onenote.Section], error)
	GetSection(ctx context.Context, id string) (onenote.Envelope[onenote.Section], error)
	CreateSection(ctx context.Context, notebookID, name string) (onenote.Envelope[onenote.Section], error)
	CopySectionToNotebook(ctx context.Context, id, notebookID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)
	CopySectionToSectionGroup(ctx context.Context, id, groupID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)

	ListSectionGroups(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error)
	ListSectionGroupsInNotebook(ctx context.Context, notebookID string, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error)
	ListSectionGroupsInSectionGroup(ctx context.Context, groupID string, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error)
	GetSectionGroup(ctx context.Context, id string) (onenote.Envelope[onenote.SectionGroup], error)
	CreateSectionGroupInNotebook(ctx context.Context, notebookID, name string) (onenote.Envelope[onenote.SectionGroup], error)
	CreateSectionGroupInSectionGroup(ctx context.Context, groupID, name string) (onenote.Envelope[onenote.SectionGroup], error)

	ListPages(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Page], error)
	ListPagesInSection(ctx context.Context, sectionID string, q onenote.Query) (onenote.Envelope[[]onenote.Page], error)
	GetPage(ctx context.Context, id string) (onenote.Envelope[onenote.Page], error)
	GetPageContent(ctx context.Context, id string) (onenote.Envelope[string], error)
	CreatePage(ctx context.Context, sectionID, html string) (onenote.Envelope[onenote.Page], error)
	CreatePageInSectionNamed(ctx context.Context, sectionName, html string) (onenote.Envelope[onenote.Page], error)
	CreatePageWithParts(ctx context.Context, sectionID, html string, parts ...onenote.Part) (onenote.Envelope[onenote.Page], error)
	UpdatePageContent(ctx context.Context, id string, commands []onenote.PatchCommand) (onenote.Envelope[string], error)
	DeletePage(ctx context.Context, id string) (onenote.Envelope[string], error)
	CopyPageToSection(ctx context.Context, id, sectionID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)

	GetOperation(ctx context.Context, operationURL string) (onenote.Envelope[onenote.CopyOperation], error)
	WaitOperation(ctx context.Context, operationURL string, polling onenote.PollingConfig, onPoll func(onenote.CopyOperation)) (onenote.Envelope[onenote.CopyOperation], error)
}

var _ SDK = (*onenote.Client)(nil)

// NewOneNoteSDK returns the SDK backed by real API calls.
func NewOneNoteSDK(client *onenote.Client) SDK {
	return client
}
