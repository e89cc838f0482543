package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/api"
)

const settingsDest = "/settings"

// NewSettingsCmd creates the settings command group
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change portal settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the portal settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, settingsDest, func(ctx context.Context) error {
				settings, err := app.Client.GetSettings(ctx)
				if err != nil {
					return err
				}
				return printJSON(settings)
			})
		},
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Update the portal settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, settingsDest, func(ctx context.Context) error {
				current, err := app.Client.GetSettings(ctx)
				if err != nil {
					return err
				}

				// Flags override the current values, everything else is kept.
				req := api.SettingsRequest{
					SessionTimeoutMinutes: current.SessionTimeoutMinutes,
					AuditRetentionDays:    current.AuditRetentionDays,
					DefaultPageSize:       current.DefaultPageSize,
					Locale:                current.Locale,
				}
				if cmd.Flags().Changed("session-timeout") {
					req.SessionTimeoutMinutes, _ = cmd.Flags().GetInt("session-timeout")
				}
				if cmd.Flags().Changed("audit-retention") {
					req.AuditRetentionDays, _ = cmd.Flags().GetInt("audit-retention")
				}
				if cmd.Flags().Changed("page-size") {
					req.DefaultPageSize, _ = cmd.Flags().GetInt("page-size")
				}
				if cmd.Flags().Changed("locale") {
					req.Locale, _ = cmd.Flags().GetString("locale")
				}

				updated, err := app.Client.UpdateSettings(ctx, req)
				if err != nil {
					return err
				}
				fmt.Println("✓ Settings updated")
				return printJSON(updated)
			})
		},
	}
	update.Flags().Int("session-timeout", 0, "Session timeout in minutes")
	update.Flags().Int("audit-retention", 0, "Audit log retention in days")
	update.Flags().Int("page-size", 0, "Default page size")
	update.Flags().String("locale", "", "Default locale, e.g. en or de")

	cmd.AddCommand(show, update)
	return cmd
}
