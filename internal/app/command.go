package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/OneNoteDev/onenote-client/internal/session"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

type appKey struct{}

// WithApp returns a context carrying a. Commands run under that context reuse
// a instead of building their own, which is how the shell keeps tokens alive
// between commands.
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// ForCommand returns the App carried by the command's context, or a new one.
func ForCommand(cmd *cobra.Command) (*App, error) {
	if a, ok := Context(cmd).Value(appKey{}).(*App); ok && a != nil {
		a.applyDebugFlag(cmd)
		return a, nil
	}
	a, err := NewApp(cmd)
	if err != nil {
		return nil, fmt.Errorf("error creating app: %w", err)
	}
	return a, nil
}

// Context returns the command's context, or context.Background when the
// command is run outside Execute, as in tests.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// TrackCopy records the copy started by env so it can be waited on later.
// rec carries what the command knows about the copy; the operation URL and
// status come from env.
func (a *App) TrackCopy(rec *session.Operation, env onenote.Envelope[onenote.CopyOperation]) error {
	if env.Location == "" {
		return errors.New("copy response did not include an operation location")
	}
	rec.OperationURL = env.Location
	rec.Provider = a.Provider().String()
	if env.Entity != nil {
		rec.Status = env.Entity.Status
	}
	if err := a.Sessions.Save(rec); err != nil {
		return fmt.Errorf("recording copy operation: %w", err)
	}
	return nil
}

// WaitCopy polls a recorded copy until it finishes, showing a spinner, and
// stores the final status.
func (a *App) WaitCopy(ctx context.Context, rec *session.Operation) (onenote.Envelope[onenote.CopyOperation], error) {
	bar := ui.NewSpinner(os.Stderr, fmt.Sprintf("Copying %s %s", rec.Kind, rec.SourceID))
	onPoll := func(op onenote.CopyOperation) {
		bar.Describe(fmt.Sprintf("Copying %s %s: %s", rec.Kind, rec.SourceID, op.Status))
		_ = bar.Add(1)
	}

	env, err := a.SDK.WaitOperation(ctx, rec.OperationURL, a.Config.PollingSchedule(), onPoll)
	_ = bar.Finish()

	if env.Entity != nil {
		rec.Status = env.Entity.Status
		if saveErr := a.Sessions.Save(rec); saveErr != nil {
			a.Logger.Warn("could not update copy operation record", "id", rec.ID, "error", saveErr)
		}
	}
	return env, err
}

// HandleCopy prints the response to a copy request, records the operation
// and, when wait is set, polls it to completion.
func (a *App) HandleCopy(ctx context.Context, rec *session.Operation, env onenote.Envelope[onenote.CopyOperation], wait bool) error {
	ui.DisplayEnvelope(env, ui.DisplayCopyOperation)
	if err := env.Err(); err != nil {
		return err
	}
	if err := a.TrackCopy(rec, env); err != nil {
		return err
	}
	if !wait {
		fmt.Printf("\nCopy started. Run 'onenote-client operations wait %s' to follow it.\n", shortID(rec.ID))
		return nil
	}

	final, err := a.WaitCopy(ctx, rec)
	if final.Entity != nil {
		fmt.Println()
		ui.DisplayCopyOperation(*final.Entity)
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
