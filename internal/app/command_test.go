package app_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/app/apptest"
	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const operationURL = "https://www.onenote.com/api/v1.0/me/notes/operations/copy-1"

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	fn()

	w.Close()
	os.Stdout = oldStdout
	return <-done
}

func TestForCommandUsesContextApp(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	cmd := &cobra.Command{}
	cmd.SetContext(app.WithApp(context.Background(), a))

	got, err := app.ForCommand(cmd)
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestContextDefaultsToBackground(t *testing.T) {
	assert.NotNil(t, app.Context(&cobra.Command{}))
}

func TestTrackCopy(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	rec := &session.Operation{Kind: session.KindPage, SourceID: "page-1", TargetID: "section-1"}

	require.NoError(t, a.TrackCopy(rec, apptest.Accepted(operationURL, onenote.OperationNotStarted)))

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, operationURL, rec.OperationURL)
	assert.Equal(t, onenote.OperationNotStarted, rec.Status)
	assert.Equal(t, a.Provider().String(), rec.Provider)

	stored, err := a.Sessions.Load(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "page-1", stored.SourceID)
}

func TestTrackCopyRequiresLocation(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	env := apptest.Entity[onenote.CopyOperation](http.StatusAccepted, http.StatusAccepted, `{"status":"Running"}`)

	err := a.TrackCopy(&session.Operation{Kind: session.KindPage}, env)
	require.Error(t, err)

	ops, err := a.Sessions.List()
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestWaitCopyStoresFinalStatus(t *testing.T) {
	sdk := &apptest.MockSDK{
		WaitOperationFunc: func(ctx context.Context, url string, polling onenote.PollingConfig, onPoll func(onenote.CopyOperation)) (onenote.Envelope[onenote.CopyOperation], error) {
			assert.Equal(t, operationURL, url)
			onPoll(onenote.CopyOperation{Status: onenote.OperationRunning})
			return apptest.Entity[onenote.CopyOperation](http.StatusOK, http.StatusOK, `{"id":"copy-1","status":"Completed"}`), nil
		},
	}
	a := apptest.NewApp(t, sdk)
	rec := &session.Operation{Kind: session.KindSection, SourceID: "section-1"}
	require.NoError(t, a.TrackCopy(rec, apptest.Accepted(operationURL, onenote.OperationRunning)))

	env, err := a.WaitCopy(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, env.Entity)
	assert.Equal(t, onenote.OperationCompleted, env.Entity.Status)

	stored, err := a.Sessions.Load(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, onenote.OperationCompleted, stored.Status)
}

func TestHandleCopyWithoutWait(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	rec := &session.Operation{Kind: session.KindNotebook, SourceID: "nb-1"}

	var err error
	output := captureStdout(t, func() {
		err = a.HandleCopy(context.Background(), rec, apptest.Accepted(operationURL, onenote.OperationNotStarted), false)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "202")
	assert.Contains(t, output, apptest.CorrelationID)
	assert.Contains(t, output, "operations wait "+rec.ID[:8])

	ops, err := a.Sessions.List()
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestHandleCopyWaits(t *testing.T) {
	polled := false
	sdk := &apptest.MockSDK{
		WaitOperationFunc: func(ctx context.Context, url string, polling onenote.PollingConfig, onPoll func(onenote.CopyOperation)) (onenote.Envelope[onenote.CopyOperation], error) {
			polled = true
			return apptest.Entity[onenote.CopyOperation](http.StatusOK, http.StatusOK, `{"id":"copy-1","status":"Completed","resourceId":"nb-2"}`), nil
		},
	}
	a := apptest.NewApp(t, sdk)
	rec := &session.Operation{Kind: session.KindNotebook, SourceID: "nb-1"}

	var err error
	output := captureStdout(t, func() {
		err = a.HandleCopy(context.Background(), rec, apptest.Accepted(operationURL, onenote.OperationNotStarted), true)
	})
	require.NoError(t, err)
	assert.True(t, polled)
	assert.Contains(t, output, "Completed")
	assert.NotContains(t, output, "operations wait")
}

func TestHandleCopyRejectedRequest(t *testing.T) {
	a := apptest.NewApp(t, &apptest.MockSDK{})
	env := apptest.Entity[onenote.CopyOperation](http.StatusNotFound, http.StatusAccepted, `{"error":{"code":"20102","message":"The requested resource does not exist."}}`)

	var err error
	output := captureStdout(t, func() {
		err = a.HandleCopy(context.Background(), &session.Operation{Kind: session.KindPage}, env, true)
	})
	require.Error(t, err)
	assert.Contains(t, output, "404")
	assert.Contains(t, output, "does not exist")

	ops, listErr := a.Sessions.List()
	require.NoError(t, listErr)
	assert.Empty(t, ops)
}

func TestWaitCopyPropagatesError(t *testing.T) {
	wantErr := errors.New("polling stopped")
	sdk := &apptest.MockSDK{
		WaitOperationFunc: func(ctx context.Context, url string, polling onenote.PollingConfig, onPoll func(onenote.CopyOperation)) (onenote.Envelope[onenote.CopyOperation], error) {
			return onenote.Envelope[onenote.CopyOperation]{}, wantErr
		},
	}
	a := apptest.NewApp(t, sdk)
	rec := &session.Operation{Kind: session.KindPage, OperationURL: operationURL}

	_, err := a.WaitCopy(context.Background(), rec)
	assert.ErrorIs(t, err, wantErr)
}
