package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// TestCommandStructure checks the shape of the top-level command groups.
func TestCommandStructure(t *testing.T) {
	tests := []struct {
		cmd         *cobra.Command
		use         string
		subcommands []string
	}{
		{cmd: NewUsersCmd(), use: "users", subcommands: []string{"search", "show", "create", "delete", "enable", "disable", "move"}},
		{cmd: NewGroupsCmd(), use: "groups", subcommands: []string{"list", "show", "create", "delete", "member"}},
		{cmd: NewReportsCmd(), use: "reports", subcommands: []string{"list", "show", "create", "update", "delete", "enable", "disable", "run"}},
		{cmd: NewBulkCmd(), use: "bulk", subcommands: []string{"import", "export", "templates"}},
		{cmd: NewSuperadminCmd(), use: "superadmin", subcommands: []string{"admins", "superadmins", "permissions", "audit", "tenants"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			if tt.cmd.Use != tt.use && tt.cmd.Name() != tt.use {
				t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.use)
			}

			names := map[string]bool{}
			for _, sub := range tt.cmd.Commands() {
				names[sub.Name()] = true
			}
			for _, want := range tt.subcommands {
				if !names[want] {
					t.Errorf("missing subcommand %q", want)
				}
			}
		})
	}
}

func TestDirectoryFlagParsing(t *testing.T) {
	newCmd := func(value string) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("directory", "", "")
		if value != "" {
			if err := cmd.Flags().Set("directory", value); err != nil {
				t.Fatalf("failed to set flag: %v", err)
			}
		}
		return cmd
	}

	if _, err := directoryFlag(newCmd("")); err == nil {
		t.Error("expected error when --directory is missing")
	}

	if _, err := directoryFlag(newCmd("abc")); err == nil {
		t.Error("expected error for non-numeric directory id")
	}

	dirID, err := directoryFlag(newCmd("42"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dirID != 42 {
		t.Errorf("dirID = %d, want 42", dirID)
	}
}

func TestLoadReportJobFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	content := `name: weekly logins
kind: logins
schedule: "0 6 * * 1"
format: csv
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write job file: %v", err)
	}

	req, err := loadReportJobFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Name != "weekly logins" || req.Kind != "logins" || req.Format != "csv" {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Schedule != "0 6 * * 1" {
		t.Errorf("schedule = %q", req.Schedule)
	}

	if _, err := loadReportJobFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadCsvTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	content := `name: new hires
delimiter: ";"
columns:
  - header: Login
    attribute: uid
  - header: Mail
    attribute: mail
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write template file: %v", err)
	}

	req, err := loadCsvTemplateFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Name != "new hires" || req.Delimiter != ";" {
		t.Errorf("unexpected request: %+v", req)
	}
	if len(req.Columns) != 2 || req.Columns[0].Attribute != "uid" {
		t.Errorf("unexpected columns: %+v", req.Columns)
	}
}

func TestDestinationHelpers(t *testing.T) {
	if got := usersDest(5); got != "/directories/5/users" {
		t.Errorf("usersDest = %q", got)
	}
	if got := groupsDest(5); got != "/directories/5/groups" {
		t.Errorf("groupsDest = %q", got)
	}
	if got := auditDest(5); got != "/directories/5/audit" {
		t.Errorf("auditDest = %q", got)
	}
	if got := reportsDest(5); got != "/directories/5/reports" {
		t.Errorf("reportsDest = %q", got)
	}
	if got := bulkDest(5); got != "/directories/5/bulk" {
		t.Errorf("bulkDest = %q", got)
	}
}
