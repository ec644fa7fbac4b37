package onenote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// presentationPart is the multipart part that carries the page HTML.
const presentationPart = "Presentation"

// Part is a binary attachment sent alongside page HTML. The HTML refers to it
// as "name:<Name>", for example <img src="name:photo" />.
type Part struct {
	Name        string
	ContentType string
	Data        []byte
}

// ListPages lists pages across all sections. The service pages its results;
// use Query.Top and Query.Skip to walk them.
func (c *Client) ListPages(ctx context.Context, q Query) (Envelope[[]Page], error) {
	c.logger.Debug("ListPages called")
	return getList[Page](ctx, c, "pages", q)
}

// ListPagesInSection lists the pages of one section.
func (c *Client) ListPagesInSection(ctx context.Context, sectionID string, q Query) (Envelope[[]Page], error) {
	c.logger.Debug("ListPagesInSection called", "sectionId", sectionID)
	return getList[Page](ctx, c, "sections/"+url.PathEscape(sectionID)+"/pages", q)
}

// GetPage fetches a page's metadata.
func (c *Client) GetPage(ctx context.Context, id string) (Envelope[Page], error) {
	c.logger.Debug("GetPage called", "id", id)
	return getEntity[Page](ctx, c, "pages/"+url.PathEscape(id))
}

// GetPageContent fetches a page's HTML.
func (c *Client) GetPageContent(ctx context.Context, id string) (Envelope[string], error) {
	c.logger.Debug("GetPageContent called", "id", id)
	res, err := c.apiCall(ctx, http.MethodGet, "pages/"+url.PathEscape(id)+"/content", "", ContentTypeHTML, nil)
	if err != nil {
		return Envelope[string]{}, err
	}
	return TranslateText(res, http.StatusOK)
}

// CreatePage creates a page from an HTML document. An empty sectionID
// creates the page in the user's default section.
func (c *Client) CreatePage(ctx context.Context, sectionID, html string) (Envelope[Page], error) {
	c.logger.Debug("CreatePage called", "sectionId", sectionID)
	res, err := c.apiCall(ctx, http.MethodPost, pagesPath(sectionID), ContentTypeHTML, ContentTypeJSON, strings.NewReader(html))
	if err != nil {
		return Envelope[Page]{}, err
	}
	return Translate[Page](res, http.StatusCreated)
}

// CreatePageInSectionNamed creates a page in the default notebook's section
// with the given display name. The service creates the section if the
// notebook has none by that name.
func (c *Client) CreatePageInSectionNamed(ctx context.Context, sectionName, html string) (Envelope[Page], error) {
	c.logger.Debug("CreatePageInSectionNamed called", "sectionName", sectionName)
	if sectionName == "" {
		return Envelope[Page]{}, errors.New("section name is required")
	}
	res, err := c.apiCall(ctx, http.MethodPost, "pages?sectionName="+url.QueryEscape(sectionName), ContentTypeHTML, ContentTypeJSON, strings.NewReader(html))
	if err != nil {
		return Envelope[Page]{}, err
	}
	return Translate[Page](res, http.StatusCreated)
}

// CreatePageWithParts creates a page whose HTML references binary parts,
// sending everything as one multipart/form-data request.
func (c *Client) CreatePageWithParts(ctx context.Context, sectionID, html string, parts ...Part) (Envelope[Page], error) {
	c.logger.Debug("CreatePageWithParts called", "sectionId", sectionID, "parts", len(parts))
	body, contentType, err := multipartBody(html, parts)
	if err != nil {
		return Envelope[Page]{}, err
	}
	res, err := c.apiCall(ctx, http.MethodPost, pagesPath(sectionID), contentType, ContentTypeJSON, bytes.NewReader(body))
	if err != nil {
		return Envelope[Page]{}, err
	}
	return Translate[Page](res, http.StatusCreated)
}

// UpdatePageContent applies PATCH commands to a page. Success is 204 with no body.
func (c *Client) UpdatePageContent(ctx context.Context, id string, commands []PatchCommand) (Envelope[string], error) {
	c.logger.Debug("UpdatePageContent called", "id", id, "commands", len(commands))
	if len(commands) == 0 {
		return Envelope[string]{}, errors.New("no patch commands given")
	}
	body, err := jsonBody(commands)
	if err != nil {
		return Envelope[string]{}, err
	}
	res, err := c.apiCall(ctx, http.MethodPatch, "pages/"+url.PathEscape(id)+"/content", ContentTypeJSON, ContentTypeJSON, body)
	if err != nil {
		return Envelope[string]{}, err
	}
	return TranslateText(res, http.StatusNoContent)
}

// DeletePage deletes a page. Success is 204 with no body.
func (c *Client) DeletePage(ctx context.Context, id string) (Envelope[string], error) {
	c.logger.Debug("DeletePage called", "id", id)
	res, err := c.apiCall(ctx, http.MethodDelete, "pages/"+url.PathEscape(id), "", ContentTypeJSON, nil)
	if err != nil {
		return Envelope[string]{}, err
	}
	return TranslateText(res, http.StatusNoContent)
}

// CopyPageToSection starts copying a page into another section.
func (c *Client) CopyPageToSection(ctx context.Context, id, sectionID, renameAs string) (Envelope[CopyOperation], error) {
	c.logger.Debug("CopyPageToSection called", "id", id, "sectionId", sectionID)
	return sendJSON[CopyOperation](ctx, c, http.MethodPost,
		"pages/"+url.PathEscape(id)+"/Microsoft.OneNote.Api.CopyToSection",
		copyPayload(sectionID, renameAs), http.StatusAccepted)
}

func pagesPath(sectionID string) string {
	if sectionID == "" {
		return "pages"
	}
	return "sections/" + url.PathEscape(sectionID) + "/pages"
}

// multipartBody lays out the Presentation part followed by each binary part.
func multipartBody(html string, parts []Part) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writePart(w, presentationPart, ContentTypeHTML, []byte(html)); err != nil {
		return nil, "", err
	}
	for _, p := range parts {
		if p.Name == "" || p.Name == presentationPart {
			return nil, "", fmt.Errorf("invalid part name %q", p.Name)
		}
		contentType := p.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(p.Data)
		}
		if err := writePart(w, p.Name, contentType, p.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, name, contentType string, data []byte) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, name))
	h.Set("Content-Type", contentType)
	pw, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating part %q: %w", name, err)
	}
	if _, err := pw.Write(data); err != nil {
		return fmt.Errorf("writing part %q: %w", name, err)
	}
	return nil
}
