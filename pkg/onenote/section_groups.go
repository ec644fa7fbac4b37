package onenote

import (
	"context"
	"net/http"
	"net/url"
)

// ListSectionGroups lists every section group across all notebooks.
func (c *Client) ListSectionGroups(ctx context.Context, q Query) (Envelope[[]SectionGroup], error) {
	c.logger.Debug("ListSectionGroups called")
	return getList[SectionGroup](ctx, c, "sectionGroups", q)
}

// ListSectionGroupsInNotebook lists the section groups directly under a notebook.
func (c *Client) ListSectionGroupsInNotebook(ctx context.Context, notebookID string, q Query) (Envelope[[]SectionGroup], error) {
	c.logger.Debug("ListSectionGroupsInNotebook called", "notebookId", notebookID)
	return getList[SectionGroup](ctx, c, "notebooks/"+url.PathEscape(notebookID)+"/sectionGroups", q)
}

// ListSectionGroupsInSectionGroup lists the groups nested in a section group.
func (c *Client) ListSectionGroupsInSectionGroup(ctx context.Context, groupID string, q Query) (Envelope[[]SectionGroup], error) {
	c.logger.Debug("ListSectionGroupsInSectionGroup called", "sectionGroupId", groupID)
	return getList[SectionGroup](ctx, c, "sectionGroups/"+url.PathEscape(groupID)+"/sectionGroups", q)
}

// GetSectionGroup fetches one section group by ID.
func (c *Client) GetSectionGroup(ctx context.Context, id string) (Envelope[SectionGroup], error) {
	c.logger.Debug("GetSectionGroup called", "id", id)
	return getEntity[SectionGroup](ctx, c, "sectionGroups/"+url.PathEscape(id))
}

// CreateSectionGroupInNotebook creates a section group in a notebook.
func (c *Client) CreateSectionGroupInNotebook(ctx context.Context, notebookID, name string) (Envelope[SectionGroup], error) {
	c.logger.Debug("CreateSectionGroupInNotebook called", "notebookId", notebookID, "name", name)
	return sendJSON[SectionGroup](ctx, c, http.MethodPost,
		"notebooks/"+url.PathEscape(notebookID)+"/sectionGroups", map[string]string{"name": name}, http.StatusCreated)
}

// CreateSectionGroupInSectionGroup nests a new section group in an existing one.
func (c *Client) CreateSectionGroupInSectionGroup(ctx context.Context, groupID, name string) (Envelope[SectionGroup], error) {
	c.logger.Debug("CreateSectionGroupInSectionGroup called", "sectionGroupId", groupID, "name", name)
	return sendJSON[SectionGroup](ctx, c, http.MethodPost,
		"sectionGroups/"+url.PathEscape(groupID)+"/sectionGroups", map[string]string{"name": name}, http.StatusCreated)
}
