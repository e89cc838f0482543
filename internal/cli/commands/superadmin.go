package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/api"
)

const (
	superadminDest        = "/superadmin"
	superadminTenantsDest = "/superadmin/tenants"
)

// NewSuperadminCmd creates the superadmin command group
func NewSuperadminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "superadmin",
		Short: "Portal-wide administration (superadmin only)",
	}

	cmd.AddCommand(
		newAdminsCmd(),
		newSuperadminsCmd(),
		newPermissionsCmd(),
		newSuperadminAuditCmd(),
		newTenantsCmd(),
	)
	return cmd
}

func newAdminsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Manage tenant administrator accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tenant administrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				admins, err := app.Client.ListAdmins(ctx)
				if err != nil {
					return err
				}
				printAdmins(admins)
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <admin-id>",
		Short: "Show one administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := parseAdminID(args[0])
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				admin, err := app.Client.GetAdmin(ctx, adminID)
				if err != nil {
					return err
				}
				return printJSON(admin)
			})
		},
	}

	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a tenant administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			tenant, _ := cmd.Flags().GetString("tenant")
			password, _ := cmd.Flags().GetString("password")
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				admin, err := app.Client.CreateAdmin(ctx, api.AdminRequest{
					Username: args[0],
					Password: password,
					TenantID: tenant,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created admin %d (%s)\n", admin.ID, admin.Username)
				return nil
			})
		},
	}
	create.Flags().String("tenant", "", "Tenant the admin belongs to")
	create.Flags().String("password", "", "Initial password")

	update := &cobra.Command{
		Use:   "update <admin-id>",
		Short: "Update a tenant administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := parseAdminID(args[0])
			if err != nil {
				return err
			}
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			tenant, _ := cmd.Flags().GetString("tenant")
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				admin, err := app.Client.UpdateAdmin(ctx, adminID, api.AdminRequest{
					Username: username,
					Password: password,
					TenantID: tenant,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Updated admin %d (%s)\n", admin.ID, admin.Username)
				return nil
			})
		},
	}
	update.Flags().String("username", "", "New username")
	update.Flags().String("password", "", "New password")
	update.Flags().String("tenant", "", "New tenant")

	del := &cobra.Command{
		Use:   "delete <admin-id>",
		Short: "Delete a tenant administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := parseAdminID(args[0])
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				if err := app.Client.DeleteAdmin(ctx, adminID); err != nil {
					return err
				}
				fmt.Println("✓ Admin deleted")
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, create, update, del)
	return cmd
}

func newSuperadminsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "superadmins",
		Short: "Manage superadmin accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List superadmins",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				admins, err := app.Client.ListSuperadmins(ctx)
				if err != nil {
					return err
				}
				printAdmins(admins)
				return nil
			})
		},
	}

	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a superadmin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			password, _ := cmd.Flags().GetString("password")
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				admin, err := app.Client.CreateSuperadmin(ctx, api.AdminRequest{
					Username: args[0],
					Password: password,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created superadmin %d (%s)\n", admin.ID, admin.Username)
				return nil
			})
		},
	}
	create.Flags().String("password", "", "Initial password")

	del := &cobra.Command{
		Use:   "delete <admin-id>",
		Short: "Delete a superadmin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := parseAdminID(args[0])
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				if err := app.Client.DeleteSuperadmin(ctx, adminID); err != nil {
					return err
				}
				fmt.Println("✓ Superadmin deleted")
				return nil
			})
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func newPermissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Manage administrator permissions",
	}
	cmd.PersistentFlags().Int64("admin", 0, "Administrator id (required)")

	adminFlag := func(cmd *cobra.Command) (int64, error) {
		adminID, _ := cmd.Flags().GetInt64("admin")
		if adminID == 0 {
			return 0, fmt.Errorf("--admin is required")
		}
		return adminID, nil
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show an administrator's permission set",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := adminFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				perms, err := app.Client.GetAdminPermissions(ctx, adminID)
				if err != nil {
					return err
				}
				return printJSON(perms)
			})
		},
	}

	setRole := &cobra.Command{
		Use:   "set-role <realm-id> <role>",
		Short: "Assign a realm role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := adminFlag(cmd)
			if err != nil {
				return err
			}
			realmID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid realm id %q", args[0])
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				if err := app.Client.SetRealmRole(ctx, adminID, api.RealmRoleRequest{RealmID: realmID, Role: args[1]}); err != nil {
					return err
				}
				fmt.Println("✓ Realm role set")
				return nil
			})
		},
	}

	removeRole := &cobra.Command{
		Use:   "remove-role <realm-id>",
		Short: "Remove a realm role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := adminFlag(cmd)
			if err != nil {
				return err
			}
			realmID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid realm id %q", args[0])
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				if err := app.Client.RemoveRealmRole(ctx, adminID, realmID); err != nil {
					return err
				}
				fmt.Println("✓ Realm role removed")
				return nil
			})
		},
	}

	setBranches := &cobra.Command{
		Use:   "set-branches <base-dn> [base-dn...]",
		Short: "Restrict an administrator to directory subtrees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := adminFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				if err := app.Client.SetBranchRestrictions(ctx, adminID, api.BranchRestrictionsRequest{BaseDNs: args}); err != nil {
					return err
				}
				fmt.Println("✓ Branch restrictions set")
				return nil
			})
		},
	}

	setFeatures := &cobra.Command{
		Use:   "set-features <key=bool> [key=bool...]",
		Short: "Replace an administrator's feature flags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := adminFlag(cmd)
			if err != nil {
				return err
			}
			features := map[string]bool{}
			for _, arg := range args {
				key, value, found := strings.Cut(arg, "=")
				if !found {
					return fmt.Errorf("expected key=bool, got %q", arg)
				}
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("expected key=bool, got %q", arg)
				}
				features[key] = enabled
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				if err := app.Client.SetFeaturePermissions(ctx, adminID, features); err != nil {
					return err
				}
				fmt.Println("✓ Feature flags set")
				return nil
			})
		},
	}

	clearFeature := &cobra.Command{
		Use:   "clear-feature <key>",
		Short: "Remove one feature flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			adminID, err := adminFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				if err := app.Client.ClearFeaturePermission(ctx, adminID, args[0]); err != nil {
					return err
				}
				fmt.Println("✓ Feature flag cleared")
				return nil
			})
		},
	}

	cmd.AddCommand(show, setRole, removeRole, setBranches, setFeatures, clearFeature)
	return cmd
}

func newSuperadminAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the portal-wide audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			query, err := auditQueryFlags(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminDest, func(ctx context.Context) error {
				page, err := app.Client.GetSuperadminAuditLog(ctx, query)
				if err != nil {
					return err
				}
				printAuditPage(page)
				return nil
			})
		},
	}
	addAuditQueryFlags(cmd)
	return cmd
}

func newTenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Manage tenant-level audit sources",
	}
	cmd.PersistentFlags().String("tenant", "", "Tenant id (required)")

	tenantFlag := func(cmd *cobra.Command) (string, error) {
		tenant, _ := cmd.Flags().GetString("tenant")
		if tenant == "" {
			return "", fmt.Errorf("--tenant is required")
		}
		return tenant, nil
	}

	list := &cobra.Command{
		Use:   "sources",
		Short: "List tenant audit sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			tenant, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, superadminTenantsDest, func(ctx context.Context) error {
				sources, err := app.Client.ListTenantAuditSources(ctx, tenant)
				if err != nil {
					return err
				}
				if len(sources) == 0 {
					fmt.Println("No audit sources")
					return nil
				}
				for _, source := range sources {
					fmt.Printf("%-6d %-20s %-10s %s\n", source.ID, source.Name, source.Kind, source.Endpoint)
				}
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add-source <name>",
		Short: "Attach an audit source to a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			tenant, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			kind, _ := cmd.Flags().GetString("kind")
			endpoint, _ := cmd.Flags().GetString("endpoint")
			return navigate(cmd.Context(), app, superadminTenantsDest, func(ctx context.Context) error {
				source, err := app.Client.CreateTenantAuditSource(ctx, tenant, api.AuditSourceRequest{
					Name:     args[0],
					Kind:     kind,
					Endpoint: endpoint,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Attached source %d (%s)\n", source.ID, source.Name)
				return nil
			})
		},
	}
	add.Flags().String("kind", "", "Source kind, e.g. syslog or splunk")
	add.Flags().String("endpoint", "", "Source endpoint URL")

	show := &cobra.Command{
		Use:   "show-source <source-id>",
		Short: "Show one tenant audit source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			tenant, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			sourceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			return navigate(cmd.Context(), app, superadminTenantsDest, func(ctx context.Context) error {
				source, err := app.Client.GetTenantAuditSource(ctx, tenant, sourceID)
				if err != nil {
					return err
				}
				return printJSON(source)
			})
		},
	}

	update := &cobra.Command{
		Use:   "update-source <source-id>",
		Short: "Update a tenant audit source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			tenant, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			sourceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			kind, _ := cmd.Flags().GetString("kind")
			endpoint, _ := cmd.Flags().GetString("endpoint")
			name, _ := cmd.Flags().GetString("name")
			return navigate(cmd.Context(), app, superadminTenantsDest, func(ctx context.Context) error {
				source, err := app.Client.UpdateTenantAuditSource(ctx, tenant, sourceID, api.AuditSourceRequest{
					Name:     name,
					Kind:     kind,
					Endpoint: endpoint,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Updated source %d (%s)\n", source.ID, source.Name)
				return nil
			})
		},
	}
	update.Flags().String("name", "", "Source name")
	update.Flags().String("kind", "", "Source kind")
	update.Flags().String("endpoint", "", "Source endpoint URL")

	remove := &cobra.Command{
		Use:   "remove-source <source-id>",
		Short: "Detach a tenant audit source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			tenant, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			sourceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			return navigate(cmd.Context(), app, superadminTenantsDest, func(ctx context.Context) error {
				if err := app.Client.DeleteTenantAuditSource(ctx, tenant, sourceID); err != nil {
					return err
				}
				fmt.Println("✓ Source detached")
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, add, update, remove)
	return cmd
}

func parseAdminID(raw string) (int64, error) {
	adminID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid admin id %q", raw)
	}
	return adminID, nil
}

func printAdmins(admins []api.AdminAccount) {
	if len(admins) == 0 {
		fmt.Println("No accounts")
		return
	}
	for _, admin := range admins {
		fmt.Printf("%-6d %-20s %-12s %s\n", admin.ID, admin.Username, admin.AccountType, admin.TenantID)
	}
}
