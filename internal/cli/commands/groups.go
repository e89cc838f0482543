package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/api"
)

func groupsDest(dirID int64) string {
	return fmt.Sprintf("/directories/%d/groups", dirID)
}

// NewGroupsCmd creates the groups command group
func NewGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage directory groups",
	}
	cmd.PersistentFlags().String("directory", "", "Directory id (required)")

	list := &cobra.Command{
		Use:   "list [query]",
		Short: "Search directory groups",
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
			return navigate(cmd.Context(), app, groupsDest(dirID), func(ctx context.Context) error {
				page, err := app.Client.SearchGroups(ctx, dirID, api.SearchParams{Query: query})
				if err != nil {
					return err
				}
				if len(page.Items) == 0 {
					fmt.Println("No groups found")
					return nil
				}
				for _, group := range page.Items {
					fmt.Printf("%-24s %3d members  %s\n", group.Name, len(group.Members), group.DN)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <dn>",
		Short: "Show one group",
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
			return navigate(cmd.Context(), app, groupsDest(dirID), func(ctx context.Context) error {
				group, err := app.Client.GetGroup(ctx, dirID, args[0])
				if err != nil {
					return err
				}
				return printJSON(group)
			})
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
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
			description, _ := cmd.Flags().GetString("description")
			ou, _ := cmd.Flags().GetString("ou")
			return navigate(cmd.Context(), app, groupsDest(dirID), func(ctx context.Context) error {
				group, err := app.Client.CreateGroup(ctx, dirID, api.GroupRequest{
					Name:        args[0],
					Description: description,
					OU:          ou,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created %s\n", group.DN)
				return nil
			})
		},
	}
	create.Flags().String("description", "", "Group description")
	create.Flags().String("ou", "", "Organizational unit")

	del := &cobra.Command{
		Use:   "delete <dn>",
		Short: "Delete a group",
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
			return navigate(cmd.Context(), app, groupsDest(dirID), func(ctx context.Context) error {
				if err := app.Client.DeleteGroup(ctx, dirID, args[0]); err != nil {
					return err
				}
				fmt.Println("✓ Group deleted")
				return nil
			})
		},
	}

	member := &cobra.Command{
		Use:   "member",
		Short: "Manage group members",
	}

	memberAdd := &cobra.Command{
		Use:   "add <group-dn> <member-dn>",
		Short: "Add a member to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, groupsDest(dirID), func(ctx context.Context) error {
				if err := app.Client.AddGroupMember(ctx, dirID, args[0], api.AddMemberRequest{MemberDN: args[1]}); err != nil {
					return err
				}
				fmt.Println("✓ Member added")
				return nil
			})
		},
	}

	memberRemove := &cobra.Command{
		Use:   "remove <group-dn> <member-dn>",
		Short: "Remove a member from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, groupsDest(dirID), func(ctx context.Context) error {
				if err := app.Client.RemoveGroupMember(ctx, dirID, args[0], args[1]); err != nil {
					return err
				}
				fmt.Println("✓ Member removed")
				return nil
			})
		},
	}

	member.AddCommand(memberAdd, memberRemove)
	cmd.AddCommand(list, show, create, del, member)
	return cmd
}
