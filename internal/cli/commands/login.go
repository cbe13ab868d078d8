package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
	"github.com/deliverydesk/deliverydesk/internal/cli/client"
)

// ErrInvalidLogin is returned when the API rejects the credentials
var ErrInvalidLogin = errors.New("invalid email or password")

// NewLoginCmd creates the login command
func NewLoginCmd(a *app.App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunLogin(cmd.Context(), a, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set DESK_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set DESK_PASSWORD, will prompt if not provided)")

	return cmd
}

// RunLogin is the login page. It is also shown when a protected page redirects here.
func RunLogin(ctx context.Context, a *app.App, email, password string) error {
	if a.Session == nil {
		return app.ErrNotInitialized
	}

	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("DESK_EMAIL")
	}
	if password == "" {
		password = os.Getenv("DESK_PASSWORD")
	}

	if email == "" {
		if !a.Interactive() {
			return fmt.Errorf("email is required (use --email flag or DESK_EMAIL env var)")
		}
		prompted, err := promptEmail()
		if err != nil {
			return err
		}
		email = prompted
	}

	if password == "" {
		if !a.Interactive() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or DESK_PASSWORD env var)")
		}
		prompted, err := readPassword(a)
		if err != nil {
			return err
		}
		password = prompted
	}

	fmt.Fprintf(a.Out, "Logging in to %s (%s)...\n", a.Env.Name, a.Env.APIURL)

	if err := a.Session.Login(ctx, email, password); err != nil {
		if client.IsAuthFailure(err) {
			fmt.Fprintln(a.Err, "Invalid email or password")
			return ErrInvalidLogin
		}
		return fmt.Errorf("login failed: %w", err)
	}

	admin := a.Session.State().Admin
	fmt.Fprintln(a.Out, "✓ Login successful!")
	fmt.Fprintf(a.Out, "  Admin: %s\n", displayName(admin))
	if admin.Role != "" {
		fmt.Fprintf(a.Out, "  Role: %s\n", admin.Role)
	}

	return nil
}

func promptEmail() (string, error) {
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if !strings.Contains(input, "@") {
				return errors.New("enter a valid email address")
			}
			return nil
		},
	}

	email, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("login cancelled: %w", err)
	}
	return strings.TrimSpace(email), nil
}

func readPassword(a *app.App) (string, error) {
	f, ok := a.In.(*os.File)
	if !ok {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or DESK_PASSWORD env var)")
	}

	fmt.Fprint(a.Out, "Password: ")
	bytePassword, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.Out) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}
