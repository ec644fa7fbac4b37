//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/config"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

// E2ETestHelper signs in against the live service and owns a fresh section
// for the test to work in.
type E2ETestHelper struct {
	App     *app.App
	Config  *Config
	TestID  string
	Section onenote.Section

	pages []string
}

// NewE2ETestHelper creates a new E2E test helper
func NewE2ETestHelper(t *testing.T) *E2ETestHelper {
	t.Helper()

	cfg := LoadConfig()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		t.Fatalf(`
E2E Testing Setup Required:

1. Copy a config.json with your provider and client IDs to the project root:
   cp ~/.onenote-client/config.json ./config.json

2. The config.json will be ignored by git (safe)

3. Run E2E tests; you will be asked to sign in once:
   go test -tags=e2e -v ./e2e/...

Config lookup failed: %v
`, err)
	}
	t.Setenv(config.EnvConfigPath, cfg.ConfigPath)

	a, err := app.NewApp(&cobra.Command{})
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if _, err := a.Login(ctx); err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}

	helper := &E2ETestHelper{
		App:    a,
		Config: cfg,
		TestID: generateTestID(),
	}

	notebook := helper.ensureNotebook(t)
	env, err := a.SDK.CreateSection(context.Background(), notebook.ID, helper.TestID)
	if err != nil || env.Err() != nil {
		t.Fatalf("Failed to create test section: %v %v", err, env.Err())
	}
	helper.Section = *env.Entity

	t.Cleanup(func() {
		helper.Cleanup(t)
	})

	return helper
}

// ensureNotebook returns the shared test notebook, creating it on first use.
func (h *E2ETestHelper) ensureNotebook(t *testing.T) onenote.Notebook {
	t.Helper()

	q := onenote.Query{Filter: fmt.Sprintf("name eq '%s'", h.Config.Notebook)}
	list, err := h.App.SDK.ListNotebooks(context.Background(), q)
	if err != nil || list.Err() != nil {
		t.Fatalf("Failed to list notebooks: %v %v", err, list.Err())
	}
	if len(*list.Entity) > 0 {
		return (*list.Entity)[0]
	}

	created, err := h.App.SDK.CreateNotebook(context.Background(), h.Config.Notebook)
	if err != nil || created.Err() != nil {
		t.Fatalf("Failed to create notebook %s: %v %v", h.Config.Notebook, err, created.Err())
	}
	return *created.Entity
}

// CreatePage creates a page in the test section and schedules it for deletion.
func (h *E2ETestHelper) CreatePage(t *testing.T, title, bodyHTML string) onenote.Page {
	t.Helper()

	doc := onenote.PageDocument(title, bodyHTML, time.Now())
	env, err := h.App.SDK.CreatePage(context.Background(), h.Section.ID, doc)
	if err != nil {
		t.Fatalf("Failed to create page: %v", err)
	}
	if env.StatusCode != http.StatusCreated || env.Entity == nil {
		t.Fatalf("Create page returned %d (%s): %s", env.StatusCode, env.CorrelationID, env.Body)
	}
	h.TrackPage(env.Entity.ID)
	return *env.Entity
}

// TrackPage schedules a page for deletion during cleanup.
func (h *E2ETestHelper) TrackPage(id string) {
	h.pages = append(h.pages, id)
}

// Cleanup deletes the pages the test created. Sections cannot be deleted
// through the API, so the test section is left behind.
func (h *E2ETestHelper) Cleanup(t *testing.T) {
	t.Helper()

	if !h.Config.Cleanup {
		t.Logf("Cleanup disabled; leaving %d page(s) in section %s", len(h.pages), h.TestID)
		return
	}
	for _, id := range h.pages {
		env, err := h.App.SDK.DeletePage(context.Background(), id)
		if err != nil {
			t.Logf("Warning: failed to delete page %s: %v", id, err)
			continue
		}
		if env.StatusCode != http.StatusNoContent && env.StatusCode != http.StatusNotFound {
			t.Logf("Warning: deleting page %s returned %d", id, env.StatusCode)
		}
	}
	t.Logf("Note: section %s must be removed by hand", h.TestID)
}

// generateTestID creates a unique test identifier
func generateTestID() string {
	return fmt.Sprintf("test-%d", time.Now().UnixNano())
}

// LogTestInfo logs useful information about the test setup
func (h *E2ETestHelper) LogTestInfo(t *testing.T) {
	t.Helper()
	t.Logf("Test ID: %s", h.TestID)
	t.Logf("Provider: %s", h.App.Provider())
	t.Logf("Test Section: %s (%s)", h.Section.Name, h.Section.ID)
}
