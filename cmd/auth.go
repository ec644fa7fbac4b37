// Package cmd (auth.go) defines the commands that sign in and out of the
// configured identity provider.
package cmd

import (
	"fmt"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/OneNoteDev/onenote-client/internal/ui"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with OneNote",
	Long:  `Sign in to or out of the provider selected with 'config set-provider', and check who is signed in.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the configured provider",
	Long: `Signs in to the configured provider. A cached account is used silently
when possible; otherwise you are asked to sign in with a device code or in a
browser. The token lasts for the life of this process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return authLoginLogic(a, cmd, args)
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the configured provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return authLogoutLogic(a, cmd, args)
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured provider and whether it holds a token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return authStatusLogic(a, cmd, args)
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user's name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return authWhoamiLogic(a, cmd, args)
	},
}

func authLoginLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if a.Auth.IsSignedIn(a.Provider()) {
		fmt.Printf("Already signed in to %s.\n", a.Provider())
		return nil
	}
	name, err := a.Login(app.Context(cmd))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if name == "" {
		ui.Success(fmt.Sprintf("Signed in to %s.", a.Provider()))
		return nil
	}
	ui.Success(fmt.Sprintf("Signed in to %s as %s.", a.Provider(), name))
	return nil
}

func authLogoutLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.Logout(app.Context(cmd)); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Signed out of %s.", a.Provider()))
	return nil
}

func authStatusLogic(a *app.App, cmd *cobra.Command, args []string) error {
	p := a.Provider()
	fmt.Printf("Provider:  %s\n", p)
	fmt.Printf("API route: %s\n", a.Config.APIRoute())
	if a.Auth.IsSignedIn(p) {
		fmt.Println("Status:    signed in")
	} else {
		fmt.Println("Status:    not signed in (run 'auth login')")
	}
	return nil
}

func authWhoamiLogic(a *app.App, cmd *cobra.Command, args []string) error {
	p := a.Provider()
	if !a.Auth.IsSignedIn(p) {
		fmt.Println("You are not signed in. Run 'onenote-client auth login' first.")
		return nil
	}
	name := a.Auth.GetUserName(app.Context(cmd), p)
	if name == "" {
		fmt.Printf("Signed in to %s; the user name is not available.\n", p)
		return nil
	}
	fmt.Println(name)
	return nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authWhoamiCmd)
}
