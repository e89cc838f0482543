package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dirportal-dev/dirportal/internal/api"
)

func reportsDest(dirID int64) string {
	return fmt.Sprintf("/directories/%d/reports", dirID)
}

// loadReportJobFile reads a report job definition from a YAML file.
func loadReportJobFile(path string) (api.ReportJobRequest, error) {
	var req api.ReportJobRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read job file: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	return req, nil
}

// NewReportsCmd creates the reports command group
func NewReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage scheduled reports",
	}
	cmd.PersistentFlags().String("directory", "", "Directory id (required)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List report jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, reportsDest(dirID), func(ctx context.Context) error {
				jobs, err := app.Client.ListReportJobs(ctx, dirID, api.SearchParams{})
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Println("No report jobs")
					return nil
				}
				for _, job := range jobs {
					state := "enabled"
					if !job.Enabled {
						state = "disabled"
					}
					schedule := job.Schedule
					if schedule == "" {
						schedule = "manual"
					}
					fmt.Printf("%-6d %-24s %-10s %-8s %-10s %s\n", job.ID, job.Name, job.Kind, job.Format, state, schedule)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one report job",
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
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return navigate(cmd.Context(), app, reportsDest(dirID), func(ctx context.Context) error {
				job, err := app.Client.GetReportJob(ctx, dirID, jobID)
				if err != nil {
					return err
				}
				return printJSON(job)
			})
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a report job from a YAML definition",
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
			req, err := loadReportJobFile(file)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, reportsDest(dirID), func(ctx context.Context) error {
				job, err := app.Client.CreateReportJob(ctx, dirID, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created report job %d (%s)\n", job.ID, job.Name)
				return nil
			})
		},
	}
	create.Flags().String("file", "", "YAML file with the job definition (required)")

	update := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Update a report job from a YAML definition",
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
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			req, err := loadReportJobFile(file)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, reportsDest(dirID), func(ctx context.Context) error {
				job, err := app.Client.UpdateReportJob(ctx, dirID, jobID, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Updated report job %d (%s)\n", job.ID, job.Name)
				return nil
			})
		},
	}
	update.Flags().String("file", "", "YAML file with the job definition (required)")

	del := &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a report job",
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
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return navigate(cmd.Context(), app, reportsDest(dirID), func(ctx context.Context) error {
				if err := app.Client.DeleteReportJob(ctx, dirID, jobID); err != nil {
					return err
				}
				fmt.Println("✓ Report job deleted")
				return nil
			})
		},
	}

	enable := reportToggleCmd("enable <job-id>", "Enable a report job", true)
	disable := reportToggleCmd("disable <job-id>", "Disable a report job", false)

	run := &cobra.Command{
		Use:   "run",
		Short: "Run a report now and save the output",
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
			format, _ := cmd.Flags().GetString("format")
			filter, _ := cmd.Flags().GetString("filter")
			out, _ := cmd.Flags().GetString("out")
			return navigate(cmd.Context(), app, reportsDest(dirID), func(ctx context.Context) error {
				data, filename, err := app.Client.RunReport(ctx, dirID, api.RunReportRequest{
					Kind:   kind,
					Format: format,
					Filter: filter,
				})
				if err != nil {
					return err
				}
				if out == "" {
					out = filename
				}
				if out == "" {
					out = fmt.Sprintf("report-%s.%s", time.Now().Format("20060102-150405"), format)
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Printf("✓ Report written to %s (%d bytes)\n", out, len(data))
				return nil
			})
		},
	}
	run.Flags().String("kind", "", "Report kind, e.g. users or logins")
	run.Flags().String("format", "csv", "Output format: csv or pdf")
	run.Flags().String("filter", "", "Optional report filter expression")
	run.Flags().String("out", "", "Output file (defaults to the server-suggested name)")

	cmd.AddCommand(list, show, create, update, del, enable, disable, run)
	return cmd
}

func reportToggleCmd(use, short string, enabled bool) *cobra.Command {
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
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return navigate(cmd.Context(), app, reportsDest(dirID), func(ctx context.Context) error {
				if err := app.Client.SetReportJobEnabled(ctx, dirID, jobID, enabled); err != nil {
					return err
				}
				if enabled {
					fmt.Println("✓ Report job enabled")
				} else {
					fmt.Println("✓ Report job disabled")
				}
				return nil
			})
		},
	}
}
