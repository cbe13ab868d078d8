package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
)

// NewDashCmd creates the dash command
func NewDashCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the web dashboard in browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(a)
		},
	}

	return withSession(cmd, SessionSkip)
}

func runDash(a *app.App) error {
	dashboardURL := a.Env.DashboardURL
	if dashboardURL == "" {
		return fmt.Errorf("environment '%s' has no dashboard URL", a.Env.Name)
	}

	fmt.Fprintf(a.Out, "Opening dashboard for %s...\n", a.Env.Name)
	fmt.Fprintf(a.Out, "URL: %s\n", dashboardURL)

	// Open browser based on OS
	if err := openBrowser(dashboardURL); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, dashboardURL)
	}

	return nil
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
