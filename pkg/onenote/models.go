package onenote

import "time"

// HrefURL wraps a single link target.
type HrefURL struct {
	Href string `json:"href"`
}

// Links holds the URLs that open an entity in the OneNote clients.
type Links struct {
	OneNoteClientURL *HrefURL `json:"oneNoteClientUrl,omitempty"`
	OneNoteWebURL    *HrefURL `json:"oneNoteWebUrl,omitempty"`
}

// ClientURL returns the rich-client link, or "" when absent.
func (l *Links) ClientURL() string {
	if l == nil || l.OneNoteClientURL == nil {
		return ""
	}
	return l.OneNoteClientURL.Href
}

// WebURL returns the browser link, or "" when absent.
func (l *Links) WebURL() string {
	if l == nil || l.OneNoteWebURL == nil {
		return ""
	}
	return l.OneNoteWebURL.Href
}

// Notebook is a OneNote notebook.
type Notebook struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Self             string         `json:"self,omitempty"`
	CreatedTime      *time.Time     `json:"createdTime,omitempty"`
	LastModifiedTime *time.Time     `json:"lastModifiedTime,omitempty"`
	CreatedBy        string         `json:"createdBy,omitempty"`
	LastModifiedBy   string         `json:"lastModifiedBy,omitempty"`
	IsDefault        bool           `json:"isDefault,omitempty"`
	IsShared         bool           `json:"isShared,omitempty"`
	UserRole         string         `json:"userRole,omitempty"`
	SectionsURL      string         `json:"sectionsUrl,omitempty"`
	SectionGroupsURL string         `json:"sectionGroupsUrl,omitempty"`
	Links            *Links         `json:"links,omitempty"`
	Sections         []Section      `json:"sections,omitempty"`
	SectionGroups    []SectionGroup `json:"sectionGroups,omitempty"`
}

// Section is a OneNote section. Pages always live inside a section.
type Section struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Self               string     `json:"self,omitempty"`
	PagesURL           string     `json:"pagesUrl,omitempty"`
	CreatedTime        *time.Time `json:"createdTime,omitempty"`
	LastModifiedTime   *time.Time `json:"lastModifiedTime,omitempty"`
	IsDefault          bool       `json:"isDefault,omitempty"`
	ParentNotebook     *EntityRef `json:"parentNotebook,omitempty"`
	ParentSectionGroup *EntityRef `json:"parentSectionGroup,omitempty"`
	Links              *Links     `json:"links,omitempty"`
}

// SectionGroup is a OneNote section group, which may nest sections and further groups.
type SectionGroup struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Self               string         `json:"self,omitempty"`
	SectionsURL        string         `json:"sectionsUrl,omitempty"`
	SectionGroupsURL   string         `json:"sectionGroupsUrl,omitempty"`
	CreatedTime        *time.Time     `json:"createdTime,omitempty"`
	LastModifiedTime   *time.Time     `json:"lastModifiedTime,omitempty"`
	ParentNotebook     *EntityRef     `json:"parentNotebook,omitempty"`
	ParentSectionGroup *EntityRef     `json:"parentSectionGroup,omitempty"`
	Sections           []Section      `json:"sections,omitempty"`
	SectionGroups      []SectionGroup `json:"sectionGroups,omitempty"`
}

// Page is the metadata of a OneNote page. Content is fetched separately.
type Page struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Self             string     `json:"self,omitempty"`
	ContentURL       string     `json:"contentUrl,omitempty"`
	CreatedTime      *time.Time `json:"createdTime,omitempty"`
	LastModifiedTime *time.Time `json:"lastModifiedTime,omitempty"`
	CreatedByAppID   string     `json:"createdByAppId,omitempty"`
	Level            int        `json:"level,omitempty"`
	Order            int        `json:"order,omitempty"`
	ParentSection    *EntityRef `json:"parentSection,omitempty"`
	Links            *Links     `json:"links,omitempty"`
}

// EntityRef is the abbreviated form of a parent entity embedded in a child.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Self string `json:"self,omitempty"`
}

// Copy operation states reported by the service.
const (
	OperationNotStarted = "NotStarted"
	OperationRunning    = "Running"
	OperationCompleted  = "Completed"
	OperationFailed     = "Failed"
)

// CopyOperation is the status model returned by the async copy endpoints and
// by polling the operation URL from the Location header.
type CopyOperation struct {
	ID               string          `json:"id"`
	Status           string          `json:"status"`
	CreatedDateTime  *time.Time      `json:"createdDateTime,omitempty"`
	ResourceLocation string          `json:"resourceLocation,omitempty"`
	ResourceID       string          `json:"resourceId,omitempty"`
	Error            *OperationError `json:"error,omitempty"`
}

// Done reports whether the operation reached a terminal state.
func (o CopyOperation) Done() bool {
	return o.Status == OperationCompleted || o.Status == OperationFailed
}

// OperationError describes why a copy operation failed.
type OperationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Patch actions accepted by the page content endpoint.
const (
	PatchAppend  = "append"
	PatchInsert  = "insert"
	PatchPrepend = "prepend"
	PatchReplace = "replace"
)

// PatchCommand is one element of a page content PATCH request.
type PatchCommand struct {
	Target   string `json:"target"`
	Action   string `json:"action"`
	Position string `json:"position,omitempty"`
	Content  string `json:"content"`
}

// serviceError is the error payload the API returns on failures.
type serviceError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		URL     string `json:"@api.url,omitempty"`
	} `json:"error"`
}
