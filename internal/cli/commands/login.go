package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/models"
	"github.com/dirportal-dev/dirportal/internal/router"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			fmt.Printf("Logging in to %s (%s)...\n", app.Server.Alias, app.Server.URL)

			return navigate(cmd.Context(), app, router.LoginPath, func(ctx context.Context) error {
				if err := promptLogin(ctx, app, username, password); err != nil {
					return err
				}
				if principal, ok := app.Sessions.Principal(); ok {
					if principal.AccountType == models.AccountSuperadmin {
						fmt.Println("  Role: Superadmin")
					}
					if principal.TenantID != "" {
						fmt.Printf("  Tenant: %s\n", principal.TenantID)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set DIRPORTAL_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set DIRPORTAL_PASSWORD, will prompt if not provided)")

	return cmd
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			if err := app.Sessions.Logout(cmd.Context()); err != nil {
				// Local state is already cleared; the server-side session
				// may still be alive.
				fmt.Printf("Warning: server logout failed: %v\n", err)
				return nil
			}

			fmt.Println("✓ Logged out")
			return nil
		},
	}
}
