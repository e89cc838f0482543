package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dirportal-dev/dirportal/internal/api"
)

func bulkDest(dirID int64) string {
	return fmt.Sprintf("/directories/%d/bulk", dirID)
}

// loadCsvTemplateFile reads a CSV mapping template from a YAML file.
func loadCsvTemplateFile(path string) (api.CsvTemplateRequest, error) {
	var req api.CsvTemplateRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read template file: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse template file %s: %w", path, err)
	}
	return req, nil
}

// NewBulkCmd creates the bulk command group
func NewBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Bulk import and export users",
	}
	cmd.PersistentFlags().String("directory", "", "Directory id (required)")

	importCmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import users from a CSV file",
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
			templateID, _ := cmd.Flags().GetInt64("template")
			ou, _ := cmd.Flags().GetString("ou")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open CSV file: %w", err)
			}
			defer file.Close()

			return navigate(cmd.Context(), app, bulkDest(dirID), func(ctx context.Context) error {
				result, err := app.Client.ImportUsers(ctx, dirID, filepath.Base(args[0]), file, api.ImportRequest{
					TemplateID: templateID,
					OU:         ou,
					DryRun:     dryRun,
				})
				if err != nil {
					return err
				}
				if dryRun {
					fmt.Println("Dry run, no changes applied")
				}
				fmt.Printf("Created: %d  Updated: %d  Skipped: %d\n", result.Created, result.Updated, result.Skipped)
				for _, line := range result.Errors {
					fmt.Printf("  ! %s\n", line)
				}
				return nil
			})
		},
	}
	importCmd.Flags().Int64("template", 0, "CSV mapping template id")
	importCmd.Flags().String("ou", "", "Target organizational unit")
	importCmd.Flags().Bool("dry-run", false, "Validate without applying changes")

	export := &cobra.Command{
		Use:   "export",
		Short: "Export users to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			ou, _ := cmd.Flags().GetString("ou")
			out, _ := cmd.Flags().GetString("out")
			return navigate(cmd.Context(), app, bulkDest(dirID), func(ctx context.Context) error {
				data, filename, err := app.Client.ExportUsers(ctx, dirID, api.SearchParams{OU: ou})
				if err != nil {
					return err
				}
				if out == "" {
					out = filename
				}
				if out == "" {
					out = "users-export.csv"
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Printf("✓ Export written to %s (%d bytes)\n", out, len(data))
				return nil
			})
		},
	}
	export.Flags().String("ou", "", "Restrict to an organizational unit")
	export.Flags().String("out", "", "Output file (defaults to the server-suggested name)")

	templates := &cobra.Command{
		Use:   "templates",
		Short: "Manage CSV mapping templates",
	}

	templatesList := &cobra.Command{
		Use:   "list",
		Short: "List CSV mapping templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, bulkDest(dirID), func(ctx context.Context) error {
				list, err := app.Client.ListCsvTemplates(ctx, dirID)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("No templates")
					return nil
				}
				for _, template := range list {
					fmt.Printf("%-6d %-24s delimiter=%q  %d columns\n", template.ID, template.Name, template.Delimiter, len(template.Columns))
				}
				return nil
			})
		},
	}

	templatesShow := &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show one CSV mapping template",
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
			templateID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template id %q", args[0])
			}
			return navigate(cmd.Context(), app, bulkDest(dirID), func(ctx context.Context) error {
				template, err := app.Client.GetCsvTemplate(ctx, dirID, templateID)
				if err != nil {
					return err
				}
				return printJSON(template)
			})
		},
	}

	templatesCreate := &cobra.Command{
		Use:   "create",
		Short: "Create a CSV mapping template from a YAML definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			req, err := loadCsvTemplateFile(file)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, bulkDest(dirID), func(ctx context.Context) error {
				template, err := app.Client.CreateCsvTemplate(ctx, dirID, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created template %d (%s)\n", template.ID, template.Name)
				return nil
			})
		},
	}
	templatesCreate.Flags().String("file", "", "YAML file with the template definition (required)")

	templatesUpdate := &cobra.Command{
		Use:   "update <template-id>",
		Short: "Update a CSV mapping template from a YAML definition",
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
			templateID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template id %q", args[0])
			}
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			req, err := loadCsvTemplateFile(file)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, bulkDest(dirID), func(ctx context.Context) error {
				template, err := app.Client.UpdateCsvTemplate(ctx, dirID, templateID, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Updated template %d (%s)\n", template.ID, template.Name)
				return nil
			})
		},
	}
	templatesUpdate.Flags().String("file", "", "YAML file with the template definition (required)")

	templatesDelete := &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete a CSV mapping template",
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
			templateID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template id %q", args[0])
			}
			return navigate(cmd.Context(), app, bulkDest(dirID), func(ctx context.Context) error {
				if err := app.Client.DeleteCsvTemplate(ctx, dirID, templateID); err != nil {
					return err
				}
				fmt.Println("✓ Template deleted")
				return nil
			})
		},
	}

	templates.AddCommand(templatesList, templatesShow, templatesCreate, templatesUpdate, templatesDelete)
	cmd.AddCommand(importCmd, export, templates)
	return cmd
}
