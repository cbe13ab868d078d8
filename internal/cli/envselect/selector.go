package envselect

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/deliverydesk/deliverydesk/internal/cli/config"
	"github.com/deliverydesk/deliverydesk/internal/cli/userconfig"
)

// Resolve determines which environment to use based on the following priority:
// 1. If name is provided (--env flag or DESK_ENV), use that environment
// 2. If the user selected an environment with use-env, use that
// 3. Otherwise use the default environment of the build mode
//
// DESK_API_URL replaces the API URL of whichever environment wins.
func Resolve(cfg *config.Config, name string) (*config.Environment, error) {
	userCfg, err := userconfig.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	envs := cfg.Environments(userCfg.Environments)

	var env *config.Environment
	switch {
	case name != "":
		env, err = Find(envs, name)
		if err != nil {
			return nil, err
		}
	case cfg.Environment != "":
		env, err = Find(envs, cfg.Environment)
		if err != nil {
			return nil, err
		}
	case userCfg.SelectedEnvironment != "":
		env, err = Find(envs, userCfg.SelectedEnvironment)
		if err != nil {
			// Selected environment no longer exists, clear it and continue
			_ = userconfig.SetSelectedEnvironment(cfg.ConfigDir, "")
			def := cfg.DefaultEnvironment()
			env = &def
		}
	default:
		def := cfg.DefaultEnvironment()
		env = &def
	}

	if cfg.APIURL != "" {
		env.APIURL = cfg.APIURL
	}

	return env, nil
}

// Find returns the environment called name
func Find(envs []config.Environment, name string) (*config.Environment, error) {
	for i := range envs {
		if envs[i].Name == name {
			found := envs[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("environment '%s' not found", name)
}

// Prompt shows an interactive prompt for the user to select an environment
func Prompt(envs []config.Environment) (*config.Environment, error) {
	if len(envs) == 0 {
		return nil, fmt.Errorf("no environments configured")
	}

	type envOption struct {
		Label string
		Env   *config.Environment
	}

	options := make([]envOption, len(envs))
	for i := range envs {
		env := &envs[i]
		options[i] = envOption{
			Label: fmt.Sprintf("%s (%s)", env.Name, env.APIURL),
			Env:   env,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select an environment",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("environment selection cancelled: %w", err)
	}

	return options[index].Env, nil
}
