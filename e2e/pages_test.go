//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLifecycle(t *testing.T) {
	helper := NewE2ETestHelper(t)
	helper.LogTestInfo(t)
	ctx := context.Background()

	page := helper.CreatePage(t, "E2E "+helper.TestID, "<p>first paragraph</p>")

	t.Run("GetPage", func(t *testing.T) {
		env, err := helper.App.SDK.GetPage(ctx, page.ID)
		require.NoError(t, err)
		require.NoError(t, env.Err())
		assert.NotEmpty(t, env.CorrelationID)
		assert.Equal(t, page.ID, env.Entity.ID)
	})

	t.Run("AppendContent", func(t *testing.T) {
		env, err := helper.App.SDK.UpdatePageContent(ctx, page.ID, []onenote.PatchCommand{
			{Target: "body", Action: onenote.PatchAppend, Content: "<p>appended paragraph</p>"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, env.StatusCode, env.Body)
	})

	t.Run("GetContent", func(t *testing.T) {
		env, err := helper.App.SDK.GetPageContent(ctx, page.ID)
		require.NoError(t, err)
		require.NoError(t, env.Err())
		assert.Contains(t, *env.Entity, "first paragraph")

		text, err := onenote.RenderContent(*env.Entity, onenote.FormatText)
		require.NoError(t, err)
		assert.False(t, strings.Contains(text, "<p>"))
	})

	t.Run("ListPagesInSection", func(t *testing.T) {
		env, err := helper.App.SDK.ListPagesInSection(ctx, helper.Section.ID, onenote.Query{Top: 10})
		require.NoError(t, err)
		require.NoError(t, env.Err())
		require.NotNil(t, env.Entity)

		found := false
		for _, p := range *env.Entity {
			if p.ID == page.ID {
				found = true
			}
		}
		assert.True(t, found, "new page should be listed; the service may take a moment to index it")
	})

	t.Run("CopyPage", func(t *testing.T) {
		env, err := helper.App.SDK.CopyPageToSection(ctx, page.ID, helper.Section.ID, "E2E copy "+helper.TestID)
		require.NoError(t, err)
		require.NoError(t, env.Err())
		require.NotEmpty(t, env.Location)

		final, err := helper.App.SDK.WaitOperation(ctx, env.Location, helper.App.Config.PollingSchedule(), func(op onenote.CopyOperation) {
			t.Logf("copy status: %s", op.Status)
		})
		require.NoError(t, err)
		require.NotNil(t, final.Entity)
		assert.Equal(t, onenote.OperationCompleted, final.Entity.Status)
		if final.Entity.ResourceID != "" {
			helper.TrackPage(final.Entity.ResourceID)
		}
	})

	t.Run("MissingPage", func(t *testing.T) {
		env, err := helper.App.SDK.GetPage(ctx, "0-doesnotexist")
		require.NoError(t, err)
		assert.ErrorIs(t, env.Err(), onenote.ErrUnexpectedStatus)
		assert.NotEmpty(t, env.Body)
	})
}
