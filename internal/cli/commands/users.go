package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/api"
)

func usersDest(dirID int64) string {
	return fmt.Sprintf("/directories/%d/users", dirID)
}

// NewUsersCmd creates the users command group
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage directory users",
	}
	cmd.PersistentFlags().String("directory", "", "Directory id (required)")

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search directory users",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			ou, _ := cmd.Flags().GetString("ou")
			return navigate(cmd.Context(), app, usersDest(dirID), func(ctx context.Context) error {
				page, err := app.Client.SearchUsers(ctx, dirID, api.SearchParams{Query: query, OU: ou})
				if err != nil {
					return err
				}
				if len(page.Items) == 0 {
					fmt.Println("No users found")
					return nil
				}
				for _, user := range page.Items {
					state := "enabled"
					if !user.Enabled {
						state = "disabled"
					}
					fmt.Printf("%-20s %-24s %-10s %s\n", user.Username, user.Email, state, user.DN)
				}
				fmt.Printf("(%d of %d)\n", len(page.Items), page.Total)
				return nil
			})
		},
	}
	search.Flags().String("ou", "", "Restrict to an organizational unit")

	show := &cobra.Command{
		Use:   "show <dn>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, usersDest(dirID), func(ctx context.Context) error {
				user, err := app.Client.GetUser(ctx, dirID, args[0])
				if err != nil {
					return err
				}
				return printJSON(user)
			})
		},
	}

	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			first, _ := cmd.Flags().GetString("first-name")
			last, _ := cmd.Flags().GetString("last-name")
			ou, _ := cmd.Flags().GetString("ou")
			return navigate(cmd.Context(), app, usersDest(dirID), func(ctx context.Context) error {
				user, err := app.Client.CreateUser(ctx, dirID, api.UserRequest{
					Username:  args[0],
					Email:     email,
					FirstName: first,
					LastName:  last,
					OU:        ou,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created %s\n", user.DN)
				return nil
			})
		},
	}
	create.Flags().String("email", "", "Email address")
	create.Flags().String("first-name", "", "First name")
	create.Flags().String("last-name", "", "Last name")
	create.Flags().String("ou", "", "Organizational unit")

	update := &cobra.Command{
		Use:   "update <dn>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			first, _ := cmd.Flags().GetString("first-name")
			last, _ := cmd.Flags().GetString("last-name")
			return navigate(cmd.Context(), app, usersDest(dirID), func(ctx context.Context) error {
				user, err := app.Client.UpdateUser(ctx, dirID, args[0], api.UserRequest{
					Username:  username,
					Email:     email,
					FirstName: first,
					LastName:  last,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Updated %s\n", user.DN)
				return nil
			})
		},
	}
	update.Flags().String("username", "", "Username")
	update.Flags().String("email", "", "Email address")
	update.Flags().String("first-name", "", "First name")
	update.Flags().String("last-name", "", "Last name")

	del := userActionCmd("delete <dn>", "Delete a user", func(ctx context.Context, app *App, dirID int64, dn string) error {
		if err := app.Client.DeleteUser(ctx, dirID, dn); err != nil {
			return err
		}
		fmt.Println("✓ User deleted")
		return nil
	})

	enable := userActionCmd("enable <dn>", "Enable a user account", func(ctx context.Context, app *App, dirID int64, dn string) error {
		if err := app.Client.EnableUser(ctx, dirID, dn); err != nil {
			return err
		}
		fmt.Println("✓ User enabled")
		return nil
	})

	disable := userActionCmd("disable <dn>", "Disable a user account", func(ctx context.Context, app *App, dirID int64, dn string) error {
		if err := app.Client.DisableUser(ctx, dirID, dn); err != nil {
			return err
		}
		fmt.Println("✓ User disabled")
		return nil
	})

	move := &cobra.Command{
		Use:   "move <dn>",
		Short: "Move a user to another organizational unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			target, _ := cmd.Flags().GetString("target-ou")
			return navigate(cmd.Context(), app, usersDest(dirID), func(ctx context.Context) error {
				if err := app.Client.MoveUser(ctx, dirID, args[0], api.MoveUserRequest{TargetOU: target}); err != nil {
					return err
				}
				fmt.Println("✓ User moved")
				return nil
			})
		},
	}
	move.Flags().String("target-ou", "", "Destination organizational unit (required)")

	cmd.AddCommand(search, show, create, update, del, enable, disable, move)
	return cmd
}

// userActionCmd builds the shared shape of the single-DN user subcommands.
func userActionCmd(use, short string, action func(ctx context.Context, app *App, dirID int64, dn string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, usersDest(dirID), func(ctx context.Context) error {
				return action(ctx, app, dirID, args[0])
			})
		},
	}
}
