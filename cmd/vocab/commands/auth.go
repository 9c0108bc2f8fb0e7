package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	contextutils "vocabapp/internal/utils"
	"vocabapp/internal/view"

	"github.com/spf13/cobra"
)

// AuthCommands returns the authentication command group.
func AuthCommands(app *App) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
		Long: `Authentication commands for the vocabulary service.

Available commands:
  login    - Log in and persist the session
  register - Create a new account
  logout   - Clear the persisted session
  whoami   - Show the logged-in user`,
	}

	authCmd.AddCommand(loginCmd(app))
	authCmd.AddCommand(registerCmd(app))
	authCmd.AddCommand(logoutCmd(app))
	authCmd.AddCommand(whoamiCmd(app))

	return authCmd
}

func loginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in to the vocabulary service",
		Long:  `Log in with your username and password. The session token is persisted so later commands stay authenticated.`,
		RunE:  runLogin(app),
	}
}

func registerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create a new account",
		Long:  `Create a new account. You still log in explicitly afterwards.`,
		RunE:  runRegister(app),
	}
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Long:  `Clear the persisted session. Running it while already logged out is harmless.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Coordinator.Dispatch(context.Background(), view.IntentLogout, view.Args{})
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !app.Session.IsLoggedIn() {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("Logged in as: %s\n", app.Session.Username())
			if app.Session.IsAdmin() {
				fmt.Println("Role: admin")
			}
			if word := app.Session.CurrentWord(); word != nil {
				fmt.Printf("Current word: %s\n", word.Text)
			}
			return nil
		},
	}
}

func runLogin(app *App) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, args []string) error {
		username, password, err := promptCredentials(args, false)
		if err != nil {
			return err
		}
		return app.Coordinator.Dispatch(context.Background(), view.IntentLogin, view.Args{
			Username: username,
			Password: password,
		})
	}
}

func runRegister(app *App) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, args []string) error {
		username, password, err := promptCredentials(args, true)
		if err != nil {
			return err
		}
		return app.Coordinator.Dispatch(context.Background(), view.IntentRegister, view.Args{
			Username: username,
			Password: password,
		})
	}
}

// promptCredentials reads the username from args or stdin and the password
// from the terminal without echo. Registration asks for confirmation.
func promptCredentials(args []string, confirm bool) (string, string, error) {
	var username string
	if len(args) > 0 {
		username = strings.TrimSpace(args[0])
	}
	if username == "" {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", contextutils.WrapError(err, "failed to read username")
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return "", "", contextutils.ErrorWithContextf("username cannot be empty")
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", "", contextutils.WrapError(err, "failed to read password")
	}
	password := string(passwordBytes)
	fmt.Println() // New line after password input

	if password == "" {
		return "", "", contextutils.ErrorWithContextf("password cannot be empty")
	}

	if confirm {
		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", "", contextutils.WrapError(err, "failed to read password confirmation")
		}
		fmt.Println()
		if password != string(confirmBytes) {
			return "", "", contextutils.ErrorWithContextf("passwords do not match")
		}
	}

	return username, password, nil
}
