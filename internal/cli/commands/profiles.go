package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/api"
)

func profilesDest(dirID int64) string {
	return fmt.Sprintf("/directories/%d/profiles", dirID)
}

// NewProfilesCmd creates the profiles command group
func NewProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage attribute display profiles",
	}
	cmd.PersistentFlags().String("directory", "", "Directory id (required)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List attribute profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, profilesDest(dirID), func(ctx context.Context) error {
				list, err := app.Client.ListAttributeProfiles(ctx, dirID)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("No attribute profiles")
					return nil
				}
				for _, profile := range list {
					marker := " "
					if profile.Default {
						marker = "*"
					}
					fmt.Printf("%s %-6d %-24s %s\n", marker, profile.ID, profile.Name, strings.Join(profile.Attributes, ","))
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <profile-id>",
		Short: "Show one attribute profile",
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
			profileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid profile id %q", args[0])
			}
			return navigate(cmd.Context(), app, profilesDest(dirID), func(ctx context.Context) error {
				profile, err := app.Client.GetAttributeProfile(ctx, dirID, profileID)
				if err != nil {
					return err
				}
				return printJSON(profile)
			})
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an attribute profile",
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
			attrs, _ := cmd.Flags().GetStringSlice("attributes")
			isDefault, _ := cmd.Flags().GetBool("default")
			return navigate(cmd.Context(), app, profilesDest(dirID), func(ctx context.Context) error {
				profile, err := app.Client.CreateAttributeProfile(ctx, dirID, api.AttributeProfileRequest{
					Name:       args[0],
					Attributes: attrs,
					Default:    isDefault,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created profile %d (%s)\n", profile.ID, profile.Name)
				return nil
			})
		},
	}
	create.Flags().StringSlice("attributes", nil, "Comma-separated attribute names")
	create.Flags().Bool("default", false, "Make this the default profile")

	update := &cobra.Command{
		Use:   "update <profile-id>",
		Short: "Update an attribute profile",
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
			profileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid profile id %q", args[0])
			}
			name, _ := cmd.Flags().GetString("name")
			attrs, _ := cmd.Flags().GetStringSlice("attributes")
			isDefault, _ := cmd.Flags().GetBool("default")
			return navigate(cmd.Context(), app, profilesDest(dirID), func(ctx context.Context) error {
				profile, err := app.Client.UpdateAttributeProfile(ctx, dirID, profileID, api.AttributeProfileRequest{
					Name:       name,
					Attributes: attrs,
					Default:    isDefault,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Updated profile %d (%s)\n", profile.ID, profile.Name)
				return nil
			})
		},
	}
	update.Flags().String("name", "", "Profile name")
	update.Flags().StringSlice("attributes", nil, "Comma-separated attribute names")
	update.Flags().Bool("default", false, "Make this the default profile")

	del := &cobra.Command{
		Use:   "delete <profile-id>",
		Short: "Delete an attribute profile",
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
			profileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid profile id %q", args[0])
			}
			return navigate(cmd.Context(), app, profilesDest(dirID), func(ctx context.Context) error {
				if err := app.Client.DeleteAttributeProfile(ctx, dirID, profileID); err != nil {
					return err
				}
				fmt.Println("✓ Profile deleted")
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, create, update, del)
	return cmd
}
