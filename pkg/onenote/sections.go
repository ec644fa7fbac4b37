package onenote

import (
	"context"
	"net/http"
	"net/url"
)

// ListSections lists every section across all notebooks.
func (c *Client) ListSections(ctx context.Context, q Query) (Envelope[[]Section], error) {
	c.logger.Debug("ListSections called")
	return getList[Section](ctx, c, "sections", q)
}

// ListSectionsInNotebook lists the sections directly under a notebook.
func (c *Client) ListSectionsInNotebook(ctx context.Context, notebookID string, q Query) (Envelope[[]Section], error) {
	c.logger.Debug("ListSectionsInNotebook called", "notebookId", notebookID)
	return getList[Section](ctx, c, "notebooks/"+url.PathEscape(notebookID)+"/sections", q)
}

// ListSectionsInSectionGroup lists the sections directly under a section group.
func (c *Client) ListSectionsInSectionGroup(ctx context.Context, groupID string, q Query) (Envelope[[]Section], error) {
	c.logger.Debug("ListSectionsInSectionGroup called", "sectionGroupId", groupID)
	return getList[Section](ctx, c, "sectionGroups/"+url.PathEscape(groupID)+"/sections", q)
}

// GetSection fetches one section by ID.
func (c *Client) GetSection(ctx context.Context, id string) (Envelope[Section], error) {
	c.logger.Debug("GetSection called", "id", id)
	return getEntity[Section](ctx, c, "sections/"+url.PathEscape(id))
}

// CreateSection creates a section in a notebook.
func (c *Client) CreateSection(ctx context.Context, notebookID, name string) (Envelope[Section], error) {
	c.logger.Debug("CreateSection called", "notebookId", notebookID, "name", name)
	return sendJSON[Section](ctx, c, http.MethodPost,
		"notebooks/"+url.PathEscape(notebookID)+"/sections", map[string]string{"name": name}, http.StatusCreated)
}

// CopySectionToNotebook starts copying a section into a notebook.
func (c *Client) CopySectionToNotebook(ctx context.Context, id, notebookID, renameAs string) (Envelope[CopyOperation], error) {
	c.logger.Debug("CopySectionToNotebook called", "id", id, "notebookId", notebookID)
	return sendJSON[CopyOperation](ctx, c, http.MethodPost,
		"sections/"+url.PathEscape(id)+"/Microsoft.OneNote.Api.CopyToNotebook",
		copyPayload(notebookID, renameAs), http.StatusAccepted)
}

// CopySectionToSectionGroup starts copying a section into a section group.
func (c *Client) CopySectionToSectionGroup(ctx context.Context, id, groupID, renameAs string) (Envelope[CopyOperation], error) {
	c.logger.Debug("CopySectionToSectionGroup called", "id", id, "sectionGroupId", groupID)
	return sendJSON[CopyOperation](ctx, c, http.MethodPost,
		"sections/"+url.PathEscape(id)+"/Microsoft.OneNote.Api.CopyToSectionGroup",
		copyPayload(groupID, renameAs), http.StatusAccepted)
}

// copyPayload is the body shared by the copy actions that take a destination.
func copyPayload(destinationID, renameAs string) map[string]string {
	payload := map[string]string{"id": destinationID}
	if renameAs != "" {
		payload["renameAs"] = renameAs
	}
	return payload
}
