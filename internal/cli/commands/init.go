package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/cli/config"
	"github.com/dirportal-dev/dirportal/internal/cli/serverselect"
	"github.com/dirportal-dev/dirportal/internal/credstore"
	"github.com/dirportal-dev/dirportal/internal/logger"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a dirportal.json configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}

			configPath := filepath.Join(cwd, config.ConfigFileName)
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists", config.ConfigFileName)
			}

			if err := config.Save(configPath, config.DefaultConfig()); err != nil {
				return err
			}

			fmt.Printf("✓ Created %s\n", configPath)
			fmt.Println("Edit it to add your portal server URL, then run 'dirportal login'.")
			return nil
		},
	}
}

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select-server",
		Short: "Choose which configured portal server to use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromCurrentDir()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			statePath, err := credstore.DefaultPath()
			if err != nil {
				return err
			}
			state, err := credstore.Open(statePath, logger.GetLogger())
			if err != nil {
				return err
			}
			defer state.Close()

			server, err := serverselect.Prompt(cfg, state)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Selected server %s (%s)\n", server.Alias, server.URL)
			return nil
		},
	}
}

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently visited destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			visits, err := app.State.RecentVisits(limit)
			if err != nil {
				return err
			}

			if len(visits) == 0 {
				fmt.Println("No history yet")
				return nil
			}

			for _, visit := range visits {
				fmt.Printf("%s  %-40s %s\n", visit.CreatedAt.Format("2006-01-02 15:04"), visit.Path, visit.Username)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")

	return cmd
}
