package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dirportal-dev/dirportal/internal/api"
)

func auditDest(dirID int64) string {
	return fmt.Sprintf("/directories/%d/audit", dirID)
}

// NewAuditCmd creates the audit command group
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect directory audit logs",
	}
	cmd.PersistentFlags().String("directory", "", "Directory id (required)")

	log := &cobra.Command{
		Use:   "log",
		Short: "Show the directory audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			query, err := auditQueryFlags(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, auditDest(dirID), func(ctx context.Context) error {
				page, err := app.Client.GetAuditLog(ctx, dirID, query)
				if err != nil {
					return err
				}
				printAuditPage(page)
				return nil
			})
		},
	}
	addAuditQueryFlags(log)

	sources := &cobra.Command{
		Use:   "sources",
		Short: "Manage audit data sources",
	}

	sourcesList := &cobra.Command{
		Use:   "list",
		Short: "List audit data sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, auditDest(dirID), func(ctx context.Context) error {
				list, err := app.Client.ListAuditSources(ctx, dirID)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("No audit sources configured")
					return nil
				}
				for _, source := range list {
					synced := "never"
					if source.LastSyncedAt != nil {
						synced = source.LastSyncedAt.Format(time.RFC3339)
					}
					fmt.Printf("%-6d %-20s %-10s synced=%s  %s\n", source.ID, source.Name, source.Kind, synced, source.Endpoint)
				}
				return nil
			})
		},
	}

	sourcesAdd := &cobra.Command{
		Use:   "add <name>",
		Short: "Attach an audit data source",
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
			kind, _ := cmd.Flags().GetString("kind")
			endpoint, _ := cmd.Flags().GetString("endpoint")
			return navigate(cmd.Context(), app, auditDest(dirID), func(ctx context.Context) error {
				source, err := app.Client.CreateAuditSource(ctx, dirID, api.AuditSourceRequest{
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
	sourcesAdd.Flags().String("kind", "", "Source kind, e.g. syslog or splunk")
	sourcesAdd.Flags().String("endpoint", "", "Source endpoint URL")

	sourcesRemove := &cobra.Command{
		Use:   "remove <source-id>",
		Short: "Detach an audit data source",
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
			sourceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			return navigate(cmd.Context(), app, auditDest(dirID), func(ctx context.Context) error {
				if err := app.Client.DeleteAuditSource(ctx, dirID, sourceID); err != nil {
					return err
				}
				fmt.Println("✓ Source detached")
				return nil
			})
		},
	}

	sourcesSync := &cobra.Command{
		Use:   "sync <source-id>",
		Short: "Trigger an immediate source synchronization",
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
			sourceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			return navigate(cmd.Context(), app, auditDest(dirID), func(ctx context.Context) error {
				if err := app.Client.SyncAuditSource(ctx, dirID, sourceID); err != nil {
					return err
				}
				fmt.Println("✓ Sync started")
				return nil
			})
		},
	}

	sources.AddCommand(sourcesList, sourcesAdd, sourcesRemove, sourcesSync)
	cmd.AddCommand(log, sources)
	return cmd
}

func addAuditQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("actor", "", "Filter by actor username")
	cmd.Flags().String("action", "", "Filter by action")
	cmd.Flags().String("from", "", "Start of the time range (RFC 3339)")
	cmd.Flags().String("to", "", "End of the time range (RFC 3339)")
	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("size", 0, "Page size")
}

func auditQueryFlags(cmd *cobra.Command) (api.AuditQuery, error) {
	query := api.AuditQuery{}
	query.Actor, _ = cmd.Flags().GetString("actor")
	query.Action, _ = cmd.Flags().GetString("action")
	query.Page, _ = cmd.Flags().GetInt("page")
	query.Size, _ = cmd.Flags().GetInt("size")

	if raw, _ := cmd.Flags().GetString("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return query, fmt.Errorf("invalid --from %q: %w", raw, err)
		}
		query.From = from
	}
	if raw, _ := cmd.Flags().GetString("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return query, fmt.Errorf("invalid --to %q: %w", raw, err)
		}
		query.To = to
	}
	return query, nil
}

func printAuditPage(page *api.AuditPage) {
	if len(page.Items) == 0 {
		fmt.Println("No audit events")
		return
	}
	for _, event := range page.Items {
		fmt.Printf("%s  %-16s %-20s %s\n", event.Timestamp.Format("2006-01-02 15:04:05"), event.Actor, event.Action, event.TargetDN)
	}
	fmt.Printf("(%d of %d)\n", len(page.Items), page.Total)
}
