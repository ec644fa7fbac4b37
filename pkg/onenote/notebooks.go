package onenote

import (
	"context"
	"net/http"
	"net/url"
)

// ListNotebooks lists the user's notebooks. Use Query.Expand with
// "sections,sectionGroups" to fetch the hierarchy in one call.
func (c *Client) ListNotebooks(ctx context.Context, q Query) (Envelope[[]Notebook], error) {
	c.logger.Debug("ListNotebooks called")
	return getList[Notebook](ctx, c, "notebooks", q)
}

// GetNotebook fetches one notebook by ID.
func (c *Client) GetNotebook(ctx context.Context, id string) (Envelope[Notebook], error) {
	c.logger.Debug("GetNotebook called", "id", id)
	return getEntity[Notebook](ctx, c, "notebooks/"+url.PathEscape(id))
}

// CreateNotebook creates a notebook and returns it with status 201.
func (c *Client) CreateNotebook(ctx context.Context, name string) (Envelope[Notebook], error) {
	c.logger.Debug("CreateNotebook called", "name", name)
	return sendJSON[Notebook](ctx, c, http.MethodPost, "notebooks", map[string]string{"name": name}, http.StatusCreated)
}

// CopyNotebook starts copying a notebook to the user's OneDrive. The service
// answers 202 with the operation URL in Envelope.Location.
func (c *Client) CopyNotebook(ctx context.Context, id, renameAs string) (Envelope[CopyOperation], error) {
	c.logger.Debug("CopyNotebook called", "id", id, "renameAs", renameAs)
	payload := map[string]string{}
	if renameAs != "" {
		payload["renameAs"] = renameAs
	}
	return sendJSON[CopyOperation](ctx, c, http.MethodPost,
		"notebooks/"+url.PathEscape(id)+"/Microsoft.OneNote.Api.CopyNotebook", payload, http.StatusAccepted)
}
