package serverselect

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/dirportal-dev/dirportal/internal/cli/config"
	"github.com/dirportal-dev/dirportal/internal/credstore"
)

// ResolveServer determines which portal server to use:
// 1. If serverAlias flag is provided, use that server
// 2. If the user has a sticky selection in local state, use that
// 3. If only one server is configured, use that
// 4. Otherwise, prompt the user to select a server interactively
func ResolveServer(projectConfig *config.Config, serverAlias string, state *credstore.Store) (*config.Server, error) {
	if serverAlias != "" {
		server, err := projectConfig.GetServerByAlias(serverAlias)
		if err != nil {
			return nil, err
		}
		return server, nil
	}

	if state != nil {
		selected, err := state.SelectedServer()
		if err == nil && selected != "" {
			if server, err := projectConfig.GetServerByAlias(selected); err == nil {
				return server, nil
			}
			// Stale selection, fall through to the other strategies
		}
	}

	if len(projectConfig.Servers) == 1 {
		return &projectConfig.Servers[0], nil
	}

	return Prompt(projectConfig, state)
}

// Prompt interactively selects one of the configured servers and persists
// the choice.
func Prompt(projectConfig *config.Config, state *credstore.Store) (*config.Server, error) {
	if len(projectConfig.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", config.ConfigFileName)
	}

	items := make([]string, len(projectConfig.Servers))
	for i, server := range projectConfig.Servers {
		items[i] = fmt.Sprintf("%s (%s)", server.Alias, server.URL)
	}

	prompt := promptui.Select{
		Label: "Select portal server",
		Items: items,
		Templates: &promptui.SelectTemplates{
			Selected: "Using server: {{ . }}",
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection cancelled: %w", err)
	}

	server := &projectConfig.Servers[index]
	if state != nil {
		if err := state.SetSelectedServer(server.Alias); err != nil {
			return nil, err
		}
	}

	return server, nil
}
