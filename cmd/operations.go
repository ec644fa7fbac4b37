package cmd

import (
	"fmt"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/spf13/cobra"
)

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"ops"},
	Short:   "Follow asynchronous copy operations",
	Long:    "Copies of notebooks, sections and pages run in the background. Each one started from this CLI is recorded locally so it can be checked later.",
}

var operationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded copy operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return operationsListLogic(a, cmd, args)
	},
}

var operationsStatusCmd = &cobra.Command{
	Use:   "status <operation-id>",
	Short: "Check a copy operation once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return operationsStatusLogic(a, cmd, args)
	},
}

var operationsWaitCmd = &cobra.Command{
	Use:   "wait <operation-id>",
	Short: "Wait for a copy operation to finish",
	Long:  "Polls a recorded copy operation until it completes or fails. The ID may be shortened to any unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return operationsWaitLogic(a, cmd, args)
	},
}

var operationsForgetCmd = &cobra.Command{
	Use:   "forget <operation-id>",
	Short: "Delete a copy operation record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return operationsForgetLogic(a, cmd, args)
	},
}

func operationsListLogic(a *app.App, cmd *cobra.Command, args []string) error {
	ops, err := a.Sessions.List()
	if err != nil {
		return fmt.Errorf("listing copy operations: %w", err)
	}
	ui.DisplayOperationRecords(ops)
	return nil
}

func operationsStatusLogic(a *app.App, cmd *cobra.Command, args []string) error {
	rec, err := a.Sessions.Load(args[0])
	if err != nil {
		return err
	}
	env, err := a.SDK.GetOperation(app.Context(cmd), rec.OperationURL)
	if err != nil {
		return fmt.Errorf("checking copy operation: %w", err)
	}
	ui.DisplayEnvelope(env, ui.DisplayCopyOperation)
	if env.Entity != nil && env.Entity.Status != rec.Status {
		rec.Status = env.Entity.Status
		if err := a.Sessions.Save(rec); err != nil {
			return err
		}
	}
	return env.Err()
}

func operationsWaitLogic(a *app.App, cmd *cobra.Command, args []string) error {
	rec, err := a.Sessions.Load(args[0])
	if err != nil {
		return err
	}
	if rec.Done() {
		fmt.Printf("Operation %s already finished: %s\n", args[0], rec.Status)
		return nil
	}

	env, err := a.WaitCopy(app.Context(cmd), rec)
	if env.StatusCode != 0 {
		ui.DisplayEnvelope(env, ui.DisplayCopyOperation)
	}
	return err
}

func operationsForgetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.Sessions.Delete(args[0]); err != nil {
		return err
	}
	ui.Success("Operation record deleted.")
	return nil
}

func init() {
	rootCmd.AddCommand(operationsCmd)
	operationsCmd.AddCommand(operationsListCmd)
	operationsCmd.AddCommand(operationsStatusCmd)
	operationsCmd.AddCommand(operationsWaitCmd)
	operationsCmd.AddCommand(operationsForgetCmd)
}
