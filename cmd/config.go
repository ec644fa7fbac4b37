package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/config"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return configShowLogic(a, cmd, args)
	},
}

var configSetProviderCmd = &cobra.Command{
	Use:       "set-provider <msa|o365>",
	Short:     "Choose the identity provider",
	Long:      "Selects Microsoft Account (msa) or work or school account (o365) sign-in for every later command.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"msa", "o365"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return configSetProviderLogic(a, cmd, args)
	},
}

var configSetBetaCmd = &cobra.Command{
	Use:   "set-beta <true|false>",
	Short: "Use the beta API instead of v1.0",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return configSetBetaLogic(a, cmd, args)
	},
}

var configSetMSAClientCmd = &cobra.Command{
	Use:   "set-msa-client <client-id>",
	Short: "Set the application ID used for Microsoft Account sign-in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return configSetMSAClientLogic(a, cmd, args)
	},
}

func configShowLogic(a *app.App, cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(a.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	fmt.Printf("# %s\n%s\n", path, data)
	return nil
}

func configSetProviderLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.Config.SetProvider(args[0]); err != nil {
		return err
	}
	return saveConfig(a, fmt.Sprintf("Provider set to %s.", a.Provider()))
}

func configSetBetaLogic(a *app.App, cmd *cobra.Command, args []string) error {
	useBeta, err := strconv.ParseBool(args[0])
	if err != nil {
		return fmt.Errorf("invalid value %q, expected true or false", args[0])
	}
	a.Config.SetUseBeta(useBeta)
	return saveConfig(a, fmt.Sprintf("API route set to %s.", a.Config.APIRoute()))
}

func configSetMSAClientLogic(a *app.App, cmd *cobra.Command, args []string) error {
	a.Config.SetMSAClientID(args[0])
	return saveConfig(a, "Microsoft Account client ID saved.")
}

func saveConfig(a *app.App, msg string) error {
	if err := a.Config.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	a.Reconfigure()
	ui.Success(msg)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetProviderCmd)
	configCmd.AddCommand(configSetBetaCmd)
	configCmd.AddCommand(configSetMSAClientCmd)
}
