package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{
		"servers": [
			{"url": "https://portal.example.com", "alias": "production"}
		]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Servers) != 1 {
		t.Fatalf("servers = %d, want 1", len(cfg.Servers))
	}
	if cfg.Servers[0].Alias != "production" {
		t.Errorf("alias = %q, want %q", cfg.Servers[0].Alias, "production")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no servers",
			content: `{"servers": []}`,
		},
		{
			name:    "missing url",
			content: `{"servers": [{"alias": "production"}]}`,
		},
		{
			name:    "malformed url",
			content: `{"servers": [{"url": "not a url", "alias": "production"}]}`,
		},
		{
			name:    "unknown auth mode",
			content: `{"servers": [{"url": "https://a.example.com", "alias": "a"}], "authMode": "basic"}`,
		},
		{
			name:    "not json",
			content: `servers:`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAuthModeFor(t *testing.T) {
	tests := []struct {
		name       string
		configMode string
		serverMode string
		want       string
	}{
		{name: "default is bearer", want: "bearer"},
		{name: "config-wide mode", configMode: "cookie", want: "cookie"},
		{name: "server override wins", configMode: "bearer", serverMode: "cookie", want: "cookie"},
		{name: "server override without config mode", serverMode: "cookie", want: "cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AuthMode: tt.configMode}
			server := &Server{AuthMode: tt.serverMode}
			if got := cfg.AuthModeFor(server); got != tt.want {
				t.Errorf("AuthModeFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetServerByAlias(t *testing.T) {
	cfg := &Config{
		Servers: []Server{
			{URL: "https://a.example.com", Alias: "a"},
			{URL: "https://b.example.com", Alias: "b"},
		},
	}

	server, err := cfg.GetServerByAlias("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.URL != "https://b.example.com" {
		t.Errorf("url = %q, want %q", server.URL, "https://b.example.com")
	}

	if _, err := cfg.GetServerByAlias("missing"); err == nil {
		t.Error("expected error for unknown alias")
	}
}

func TestFindConfigFileSearchesUpwards(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{"servers": [{"url": "https://a.example.com", "alias": "a"}]}`)

	nested := filepath.Join(root, "child", "grandchild")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	originalDir, _ := os.Getwd()
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(originalDir)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// macOS tempdirs resolve through symlinks, compare the file itself
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read found config: %v", err)
	}
	if len(data) == 0 {
		t.Error("found config is empty")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := &Config{
		Servers:  []Server{{URL: "https://portal.example.com", Alias: "production", AuthMode: "cookie"}},
		AuthMode: "bearer",
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Servers[0].AuthMode != "cookie" {
		t.Errorf("authMode = %q, want %q", loaded.Servers[0].AuthMode, "cookie")
	}
}
