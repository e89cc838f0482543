package commands

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}

			if err := app.Sessions.Restore(cmd.Context()); err != nil {
				return err
			}

			principal, ok := app.Sessions.Principal()
			if !ok {
				fmt.Println("Not logged in")
				return nil
			}

			fmt.Printf("User: %s (id %d)\n", principal.Username, principal.ID)
			fmt.Printf("Role: %s\n", principal.AccountType)
			if principal.TenantID != "" {
				fmt.Printf("Tenant: %s\n", principal.TenantID)
			}

			if app.Mode == session.ModeBearer {
				if expiry := tokenExpiry(app); expiry != nil {
					fmt.Printf("Token expires: %s\n", expiry.Format(time.RFC3339))
				}
			}

			return nil
		},
	}
}

// tokenExpiry decodes the stored token without verification, purely to
// report its expiry. Trust decisions stay with the server.
func tokenExpiry(app *App) *time.Time {
	token, err := app.State.Token()
	if err != nil || token == "" {
		return nil
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil
	}
	return &expiry.Time
}
