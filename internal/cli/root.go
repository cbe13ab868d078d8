package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
	"github.com/deliverydesk/deliverydesk/internal/cli/commands"
	"github.com/deliverydesk/deliverydesk/internal/cli/config"
	"github.com/deliverydesk/deliverydesk/internal/cli/guard"
)

var (
	version   = "dev"        // Will be set during build
	buildMode = "production" // -X .../internal/cli.buildMode=development for local builds
)

// NewRootCmd builds the command tree around a
func NewRootCmd(a *app.App) *cobra.Command {
	var envName string

	rootCmd := &cobra.Command{
		Use:   "desk",
		Short: "DeliveryDesk - Admin console for the delivery platform",
		Long: `DeliveryDesk CLI - Manage restaurants and admin accounts.

Log in once per environment; the session is kept in your system keyring
and checked against the admin API every time a page is opened.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mode := commands.SessionMode(cmd)
			if mode == commands.SessionNone {
				return nil
			}

			cfg, err := config.Load(buildMode)
			if err != nil {
				return err
			}
			if err := a.Init(cfg, envName); err != nil {
				return err
			}

			route := guard.Route(cmd)
			a.Shell.Enter(route)

			if mode == commands.SessionSkip {
				return nil
			}

			a.Session.Start(cmd.Context())

			// Startup validation rejected the stored token and left this page
			if to, hard, ok := a.Shell.Pending(); ok && hard {
				return &guard.RedirectError{From: route, To: to}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "Environment to use (overrides DESK_ENV and the saved selection)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.Out, "desk version %s (%s)\n", version, buildMode)
		},
	}
	versionCmd.Annotations = map[string]string{commands.AnnotationSession: commands.SessionNone}
	rootCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(commands.NewLoginCmd(a))
	rootCmd.AddCommand(commands.NewLogoutCmd(a))
	rootCmd.AddCommand(commands.NewWhoamiCmd(a))
	rootCmd.AddCommand(commands.NewRestaurantsCmd(a))
	rootCmd.AddCommand(commands.NewAdminsCmd(a))
	rootCmd.AddCommand(commands.NewDashCmd(a))
	rootCmd.AddCommand(commands.NewUseEnvCmd(a))

	return rootCmd
}

// Run executes args against a fresh command tree. A page that redirects to the login route
// shows the login page when the console is interactive and then retries the page once.
func Run(ctx context.Context, a *app.App, args []string) error {
	err := execute(ctx, a, args)

	var redirect *guard.RedirectError
	if !errors.As(err, &redirect) {
		return err
	}

	_, hard, _ := a.Shell.Pending()
	a.Shell.Follow()
	if hard {
		fmt.Fprintln(a.Err, "Your session has expired. Please log in again.")
	} else {
		fmt.Fprintln(a.Err, "You are not logged in.")
	}

	if !a.Interactive() || a.Session == nil {
		return fmt.Errorf("not logged in. Please run 'desk login' first")
	}

	if err := commands.RunLogin(ctx, a, "", ""); err != nil {
		return err
	}

	return execute(ctx, a, args)
}

func execute(ctx context.Context, a *app.App, args []string) error {
	rootCmd := NewRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.Out)
	rootCmd.SetErr(a.Err)
	return rootCmd.ExecuteContext(ctx)
}

// Execute runs the console against the process arguments
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(os.Stdout, os.Stderr, os.Stdin)
	if err := Run(ctx, a, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
