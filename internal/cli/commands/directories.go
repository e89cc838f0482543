package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/api"
	"github.com/dirportal-dev/dirportal/internal/router"
)

// NewDirectoriesCmd creates the directories command group
func NewDirectoriesCmd() *cobra.Command {
	var tenant string

	cmd := &cobra.Command{
		Use:   "directories",
		Short: "Manage directory connections",
	}
	cmd.PersistentFlags().StringVar(&tenant, "tenant", "", "Tenant scope (defaults to the logged-in tenant)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List directory connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, router.DefaultPath, func(ctx context.Context) error {
				tenantID, err := tenantFor(app, tenant)
				if err != nil {
					return err
				}
				dirs, err := app.Client.ListDirectories(ctx, tenantID)
				if err != nil {
					return err
				}
				if len(dirs) == 0 {
					fmt.Println("No directories configured")
					return nil
				}
				for _, dir := range dirs {
					tls := ""
					if dir.UseTLS {
						tls = " (tls)"
					}
					fmt.Printf("%-6d %-24s %s:%d%s  base=%s\n", dir.ID, dir.Name, dir.Host, dir.Port, tls, dir.BaseDN)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <directory-id>",
		Short: "Show one directory connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid directory id %q", args[0])
			}
			return navigate(cmd.Context(), app, router.DefaultPath, func(ctx context.Context) error {
				tenantID, err := tenantFor(app, tenant)
				if err != nil {
					return err
				}
				dir, err := app.Client.GetDirectory(ctx, tenantID, dirID)
				if err != nil {
					return err
				}
				return printJSON(dir)
			})
		},
	}

	test := &cobra.Command{
		Use:   "test <directory-id>",
		Short: "Test a directory connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid directory id %q", args[0])
			}
			return navigate(cmd.Context(), app, router.DefaultPath, func(ctx context.Context) error {
				tenantID, err := tenantFor(app, tenant)
				if err != nil {
					return err
				}
				result, err := app.Client.TestDirectory(ctx, tenantID, dirID)
				if err != nil {
					return err
				}
				if result.Success {
					fmt.Printf("✓ Connection OK: %s\n", result.Message)
				} else {
					fmt.Printf("✗ Connection failed: %s\n", result.Message)
				}
				return nil
			})
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a directory connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			req := directoryRequestFlags(cmd, args[0])
			return navigate(cmd.Context(), app, router.DefaultPath, func(ctx context.Context) error {
				tenantID, err := tenantFor(app, tenant)
				if err != nil {
					return err
				}
				dir, err := app.Client.CreateDirectory(ctx, tenantID, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created directory %d (%s)\n", dir.ID, dir.Name)
				return nil
			})
		},
	}
	addDirectoryFlags(create)

	update := &cobra.Command{
		Use:   "update <directory-id> <name>",
		Short: "Update a directory connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid directory id %q", args[0])
			}
			req := directoryRequestFlags(cmd, args[1])
			return navigate(cmd.Context(), app, router.DefaultPath, func(ctx context.Context) error {
				tenantID, err := tenantFor(app, tenant)
				if err != nil {
					return err
				}
				dir, err := app.Client.UpdateDirectory(ctx, tenantID, dirID, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Updated directory %d (%s)\n", dir.ID, dir.Name)
				return nil
			})
		},
	}
	addDirectoryFlags(update)

	del := &cobra.Command{
		Use:   "delete <directory-id>",
		Short: "Delete a directory connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid directory id %q", args[0])
			}
			return navigate(cmd.Context(), app, router.DefaultPath, func(ctx context.Context) error {
				tenantID, err := tenantFor(app, tenant)
				if err != nil {
					return err
				}
				if err := app.Client.DeleteDirectory(ctx, tenantID, dirID); err != nil {
					return err
				}
				fmt.Println("✓ Directory deleted")
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, create, update, test, del)
	return cmd
}

func addDirectoryFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "Directory host")
	cmd.Flags().Int("port", 389, "Directory port")
	cmd.Flags().String("base-dn", "", "Base DN")
	cmd.Flags().String("bind-dn", "", "Bind DN")
	cmd.Flags().String("bind-password", "", "Bind password")
	cmd.Flags().Bool("tls", false, "Connect over TLS")
}

func directoryRequestFlags(cmd *cobra.Command, name string) api.DirectoryRequest {
	req := api.DirectoryRequest{Name: name}
	req.Host, _ = cmd.Flags().GetString("host")
	req.Port, _ = cmd.Flags().GetInt("port")
	req.BaseDN, _ = cmd.Flags().GetString("base-dn")
	req.BindDN, _ = cmd.Flags().GetString("bind-dn")
	req.BindPassword, _ = cmd.Flags().GetString("bind-password")
	req.UseTLS, _ = cmd.Flags().GetBool("tls")
	return req
}
