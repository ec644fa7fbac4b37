// Package apptest provides a scriptable SDK and App for command tests.
package apptest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/config"
	"github.com/OneNoteDev/onenote-client/internal/logger"
	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
)

// CorrelationID is the X-CorrelationId every canned response carries.
const CorrelationID = "test-correlation-id"

// MockSDK implements app.SDK with a function field per operation. Unset
// fields return an empty envelope and no error.
type MockSDK struct {
	ListNotebooksFunc  func(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Notebook], error)
	GetNotebookFunc    func(ctx context.Context, id string) (onenote.Envelope[onenote.Notebook], error)
	CreateNotebookFunc func(ctx context.Context, name string) (onenote.Envelope[onenote.Notebook], error)
	CopyNotebookFunc   func(ctx context.Context, id, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)

	ListSectionsFunc               func(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Section], error)
	ListSectionsInNotebookFunc     func(ctx context.Context, notebookID string, q onenote.Query) (onenote.Envelope[[]onenote.Section], error)
	ListSectionsInSectionGroupFunc func(ctx context.Context, groupID string, q onenote.Query) (onenote.Envelope[[]onenote.Section], error)
	GetSectionFunc                 func(ctx context.Context, id string) (onenote.Envelope[onenote.Section], error)
	CreateSectionFunc              func(ctx context.Context, notebookID, name string) (onenote.Envelope[onenote.Section], error)
	CopySectionToNotebookFunc      func(ctx context.Context, id, notebookID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)
	CopySectionToSectionGroupFunc  func(ctx context.Context, id, groupID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)

	ListSectionGroupsFunc                func(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error)
	ListSectionGroupsInNotebookFunc      func(ctx context.Context, notebookID string, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error)
	ListSectionGroupsInSectionGroupFunc  func(ctx context.Context, groupID string, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error)
	GetSectionGroupFunc                  func(ctx context.Context, id string) (onenote.Envelope[onenote.SectionGroup], error)
	CreateSectionGroupInNotebookFunc     func(ctx context.Context, notebookID, name string) (onenote.Envelope[onenote.SectionGroup], error)
	CreateSectionGroupInSectionGroupFunc func(ctx context.Context, groupID, name string) (onenote.Envelope[onenote.SectionGroup], error)

	ListPagesFunc                func(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Page], error)
	ListPagesInSectionFunc       func(ctx context.Context, sectionID string, q onenote.Query) (onenote.Envelope[[]onenote.Page], error)
	GetPageFunc                  func(ctx context.Context, id string) (onenote.Envelope[onenote.Page], error)
	GetPageContentFunc           func(ctx context.Context, id string) (onenote.Envelope[string], error)
	CreatePageFunc               func(ctx context.Context, sectionID, html string) (onenote.Envelope[onenote.Page], error)
	CreatePageInSectionNamedFunc func(ctx context.Context, sectionName, html string) (onenote.Envelope[onenote.Page], error)
	CreatePageWithPartsFunc      func(ctx context.Context, sectionID, html string, parts ...onenote.Part) (onenote.Envelope[onenote.Page], error)
	UpdatePageContentFunc        func(ctx context.Context, id string, commands []onenote.PatchCommand) (onenote.Envelope[string], error)
	DeletePageFunc               func(ctx context.Context, id string) (onenote.Envelope[string], error)
	CopyPageToSectionFunc        func(ctx context.Context, id, sectionID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error)

	GetOperationFunc  func(ctx context.Context, operationURL string) (onenote.Envelope[onenote.CopyOperation], error)
	WaitOperationFunc func(ctx context.Context, operationURL string, polling onenote.PollingConfig, onPoll func(onenote.CopyOperation)) (onenote.Envelope[onenote.CopyOperation], error)
}

var _ app.SDK = (*MockSDK)(nil)

func (m *MockSDK) ListNotebooks(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Notebook], error) {
	if m.ListNotebooksFunc != nil {
		return m.ListNotebooksFunc(ctx, q)
	}
	return onenote.Envelope[[]onenote.Notebook]{}, nil
}

func (m *MockSDK) GetNotebook(ctx context.Context, id string) (onenote.Envelope[onenote.Notebook], error) {
	if m.GetNotebookFunc != nil {
		return m.GetNotebookFunc(ctx, id)
	}
	return onenote.Envelope[onenote.Notebook]{}, nil
}

func (m *MockSDK) CreateNotebook(ctx context.Context, name string) (onenote.Envelope[onenote.Notebook], error) {
	if m.CreateNotebookFunc != nil {
		return m.CreateNotebookFunc(ctx, name)
	}
	return onenote.Envelope[onenote.Notebook]{}, nil
}

func (m *MockSDK) CopyNotebook(ctx context.Context, id, renameAs string) (onenote.Envelope[onenote.CopyOperation], error) {
	if m.CopyNotebookFunc != nil {
		return m.CopyNotebookFunc(ctx, id, renameAs)
	}
	return onenote.Envelope[onenote.CopyOperation]{}, nil
}

func (m *MockSDK) ListSections(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Section], error) {
	if m.ListSectionsFunc != nil {
		return m.ListSectionsFunc(ctx, q)
	}
	return onenote.Envelope[[]onenote.Section]{}, nil
}

func (m *MockSDK) ListSectionsInNotebook(ctx context.Context, notebookID string, q onenote.Query) (onenote.Envelope[[]onenote.Section], error) {
	if m.ListSectionsInNotebookFunc != nil {
		return m.ListSectionsInNotebookFunc(ctx, notebookID, q)
	}
	return onenote.Envelope[[]onenote.Section]{}, nil
}

func (m *MockSDK) ListSectionsInSectionGroup(ctx context.Context, groupID string, q onenote.Query) (onenote.Envelope[[]onenote.Section], error) {
	if m.ListSectionsInSectionGroupFunc != nil {
		return m.ListSectionsInSectionGroupFunc(ctx, groupID, q)
	}
	return onenote.Envelope[[]onenote.Section]{}, nil
}

func (m *MockSDK) GetSection(ctx context.Context, id string) (onenote.Envelope[onenote.Section], error) {
	if m.GetSectionFunc != nil {
		return m.GetSectionFunc(ctx, id)
	}
	return onenote.Envelope[onenote.Section]{}, nil
}

func (m *MockSDK) CreateSection(ctx context.Context, notebookID, name string) (onenote.Envelope[onenote.Section], error) {
	if m.CreateSectionFunc != nil {
		return m.CreateSectionFunc(ctx, notebookID, name)
	}
	return onenote.Envelope[onenote.Section]{}, nil
}

func (m *MockSDK) CopySectionToNotebook(ctx context.Context, id, notebookID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error) {
	if m.CopySectionToNotebookFunc != nil {
		return m.CopySectionToNotebookFunc(ctx, id, notebookID, renameAs)
	}
	return onenote.Envelope[onenote.CopyOperation]{}, nil
}

func (m *MockSDK) CopySectionToSectionGroup(ctx context.Context, id, groupID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error) {
	if m.CopySectionToSectionGroupFunc != nil {
		return m.CopySectionToSectionGroupFunc(ctx, id, groupID, renameAs)
	}
	return onenote.Envelope[onenote.CopyOperation]{}, nil
}

func (m *MockSDK) ListSectionGroups(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error) {
	if m.ListSectionGroupsFunc != nil {
		return m.ListSectionGroupsFunc(ctx, q)
	}
	return onenote.Envelope[[]onenote.SectionGroup]{}, nil
}

func (m *MockSDK) ListSectionGroupsInNotebook(ctx context.Context, notebookID string, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error) {
	if m.ListSectionGroupsInNotebookFunc != nil {
		return m.ListSectionGroupsInNotebookFunc(ctx, notebookID, q)
	}
	return onenote.Envelope[[]onenote.SectionGroup]{}, nil
}

func (m *MockSDK) ListSectionGroupsInSectionGroup(ctx context.Context, groupID string, q onenote.Query) (onenote.Envelope[[]onenote.SectionGroup], error) {
	if m.ListSectionGroupsInSectionGroupFunc != nil {
		return m.ListSectionGroupsInSectionGroupFunc(ctx, groupID, q)
	}
	return onenote.Envelope[[]onenote.SectionGroup]{}, nil
}

func (m *MockSDK) GetSectionGroup(ctx context.Context, id string) (onenote.Envelope[onenote.SectionGroup], error) {
	if m.GetSectionGroupFunc != nil {
		return m.GetSectionGroupFunc(ctx, id)
	}
	return onenote.Envelope[onenote.SectionGroup]{}, nil
}

func (m *MockSDK) CreateSectionGroupInNotebook(ctx context.Context, notebookID, name string) (onenote.Envelope[onenote.SectionGroup], error) {
	if m.CreateSectionGroupInNotebookFunc != nil {
		return m.CreateSectionGroupInNotebookFunc(ctx, notebookID, name)
	}
	return onenote.Envelope[onenote.SectionGroup]{}, nil
}

func (m *MockSDK) CreateSectionGroupInSectionGroup(ctx context.Context, groupID, name string) (onenote.Envelope[onenote.SectionGroup], error) {
	if m.CreateSectionGroupInSectionGroupFunc != nil {
		return m.CreateSectionGroupInSectionGroupFunc(ctx, groupID, name)
	}
	return onenote.Envelope[onenote.SectionGroup]{}, nil
}

func (m *MockSDK) ListPages(ctx context.Context, q onenote.Query) (onenote.Envelope[[]onenote.Page], error) {
	if m.ListPagesFunc != nil {
		return m.ListPagesFunc(ctx, q)
	}
	return onenote.Envelope[[]onenote.Page]{}, nil
}

func (m *MockSDK) ListPagesInSection(ctx context.Context, sectionID string, q onenote.Query) (onenote.Envelope[[]onenote.Page], error) {
	if m.ListPagesInSectionFunc != nil {
		return m.ListPagesInSectionFunc(ctx, sectionID, q)
	}
	return onenote.Envelope[[]onenote.Page]{}, nil
}

func (m *MockSDK) GetPage(ctx context.Context, id string) (onenote.Envelope[onenote.Page], error) {
	if m.GetPageFunc != nil {
		return m.GetPageFunc(ctx, id)
	}
	return onenote.Envelope[onenote.Page]{}, nil
}

func (m *MockSDK) GetPageContent(ctx context.Context, id string) (onenote.Envelope[string], error) {
	if m.GetPageContentFunc != nil {
		return m.GetPageContentFunc(ctx, id)
	}
	return onenote.Envelope[string]{}, nil
}

func (m *MockSDK) CreatePage(ctx context.Context, sectionID, html string) (onenote.Envelope[onenote.Page], error) {
	if m.CreatePageFunc != nil {
		return m.CreatePageFunc(ctx, sectionID, html)
	}
	return onenote.Envelope[onenote.Page]{}, nil
}

func (m *MockSDK) CreatePageInSectionNamed(ctx context.Context, sectionName, html string) (onenote.Envelope[onenote.Page], error) {
	if m.CreatePageInSectionNamedFunc != nil {
		return m.CreatePageInSectionNamedFunc(ctx, sectionName, html)
	}
	return onenote.Envelope[onenote.Page]{}, nil
}

func (m *MockSDK) CreatePageWithParts(ctx context.Context, sectionID, html string, parts ...onenote.Part) (onenote.Envelope[onenote.Page], error) {
	if m.CreatePageWithPartsFunc != nil {
		return m.CreatePageWithPartsFunc(ctx, sectionID, html, parts...)
	}
	return onenote.Envelope[onenote.Page]{}, nil
}

func (m *MockSDK) UpdatePageContent(ctx context.Context, id string, commands []onenote.PatchCommand) (onenote.Envelope[string], error) {
	if m.UpdatePageContentFunc != nil {
		return m.UpdatePageContentFunc(ctx, id, commands)
	}
	return onenote.Envelope[string]{}, nil
}

func (m *MockSDK) DeletePage(ctx context.Context, id string) (onenote.Envelope[string], error) {
	if m.DeletePageFunc != nil {
		return m.DeletePageFunc(ctx, id)
	}
	return onenote.Envelope[string]{}, nil
}

func (m *MockSDK) CopyPageToSection(ctx context.Context, id, sectionID, renameAs string) (onenote.Envelope[onenote.CopyOperation], error) {
	if m.CopyPageToSectionFunc != nil {
		return m.CopyPageToSectionFunc(ctx, id, sectionID, renameAs)
	}
	return onenote.Envelope[onenote.CopyOperation]{}, nil
}

func (m *MockSDK) GetOperation(ctx context.Context, operationURL string) (onenote.Envelope[onenote.CopyOperation], error) {
	if m.GetOperationFunc != nil {
		return m.GetOperationFunc(ctx, operationURL)
	}
	return onenote.Envelope[onenote.CopyOperation]{}, nil
}

func (m *MockSDK) WaitOperation(ctx context.Context, operationURL string, polling onenote.PollingConfig, onPoll func(onenote.CopyOperation)) (onenote.Envelope[onenote.CopyOperation], error) {
	if m.WaitOperationFunc != nil {
		return m.WaitOperationFunc(ctx, operationURL, polling, onPoll)
	}
	return onenote.Envelope[onenote.CopyOperation]{}, nil
}

// MockAuth is an app.AuthService whose state is set by the test.
type MockAuth struct {
	SignedIn  bool
	UserName  string
	Err       error
	SignOuts  int
	Providers []onenote.AuthProvider
}

func (m *MockAuth) GetAuthToken(ctx context.Context, p onenote.AuthProvider) (string, error) {
	m.Providers = append(m.Providers, p)
	if m.Err != nil {
		return "", m.Err
	}
	m.SignedIn = true
	return "token", nil
}

func (m *MockAuth) SignOut(ctx context.Context, p onenote.AuthProvider) error {
	m.SignOuts++
	m.SignedIn = false
	return nil
}

func (m *MockAuth) IsSignedIn(p onenote.AuthProvider) bool {
	return m.SignedIn
}

func (m *MockAuth) GetUserName(ctx context.Context, p onenote.AuthProvider) string {
	if !m.SignedIn {
		return ""
	}
	return m.UserName
}

// NewApp returns an App over sdk with default configuration, a MockAuth and
// an operation store in a temporary directory.
func NewApp(t *testing.T, sdk app.SDK) *app.App {
	t.Helper()
	return &app.App{
		Config:   config.Default(),
		Auth:     &MockAuth{},
		SDK:      sdk,
		Sessions: session.NewManagerWithConfigDir(t.TempDir()),
		Logger:   logger.NoopLogger{},
	}
}

func response(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	header.Set(onenote.HeaderCorrelationID, CorrelationID)
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// Entity builds the envelope a call expecting the expected status would
// return for a response with status and body.
func Entity[T any](status, expected int, body string) onenote.Envelope[T] {
	env, _ := onenote.Translate[T](response(status, body, nil), expected)
	return env
}

// List is Entity for list responses.
func List[T any](status, expected int, body string) onenote.Envelope[[]T] {
	env, _ := onenote.TranslateList[T](response(status, body, nil), expected)
	return env
}

// Text is Entity for responses whose body is the entity.
func Text(status, expected int, body string) onenote.Envelope[string] {
	env, _ := onenote.TranslateText(response(status, body, nil), expected)
	return env
}

// Accepted builds the 202 envelope a copy request returns, pointing at operationURL.
func Accepted(operationURL, status string) onenote.Envelope[onenote.CopyOperation] {
	header := http.Header{}
	header.Set(onenote.HeaderLocation, operationURL)
	body := `{"id":"copy-1","status":"` + status + `"}`
	env, _ := onenote.Translate[onenote.CopyOperation](response(http.StatusAccepted, body, header), http.StatusAccepted)
	return env
}
