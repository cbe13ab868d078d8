package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
	"github.com/deliverydesk/deliverydesk/internal/cli/config"
	"github.com/deliverydesk/deliverydesk/internal/cli/envselect"
	"github.com/deliverydesk/deliverydesk/internal/cli/userconfig"
)

// NewUseEnvCmd creates the use-env command
func NewUseEnvCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use-env [name]",
		Short: "Select the environment to use for commands",
		Long: `Select the environment to use for commands.

If no name is provided, an interactive prompt will be shown.
Each environment keeps its own login.

Examples:
  $ desk use-env              # Interactive selection
  $ desk use-env production   # Select by name`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			return runUseEnv(a, name)
		},
	}

	return withSession(cmd, SessionSkip)
}

func runUseEnv(a *app.App, name string) error {
	userCfg, err := userconfig.Load(a.Config.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load user config: %w", err)
	}

	envs := a.Config.Environments(userCfg.Environments)

	var env *config.Environment
	if name != "" {
		env, err = envselect.Find(envs, name)
	} else {
		env, err = envselect.Prompt(envs)
	}
	if err != nil {
		return err
	}

	if err := userconfig.SetSelectedEnvironment(a.Config.ConfigDir, env.Name); err != nil {
		return fmt.Errorf("failed to save selected environment: %w", err)
	}

	fmt.Fprintf(a.Out, "Selected environment: %s (%s)\n", env.Name, env.APIURL)
	return nil
}
