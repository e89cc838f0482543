package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const ConfigFileName = "dirportal.json"

var validate = validator.New()

// Server is one portal deployment the console can talk to.
type Server struct {
	URL   string `json:"url" validate:"required,url"`
	Alias string `json:"alias" validate:"required"`
	// AuthMode overrides the config-wide credential model for this server:
	// "bearer" or "cookie".
	AuthMode string `json:"authMode,omitempty" validate:"omitempty,oneof=bearer cookie"`
}

// Config represents the console configuration file
type Config struct {
	Servers []Server `json:"servers" validate:"required,min=1,dive"`
	// AuthMode is the deployment-wide credential model. Defaults to bearer.
	AuthMode string `json:"authMode,omitempty" validate:"omitempty,oneof=bearer cookie"`
}

// DefaultConfig returns a default configuration with an example server
func DefaultConfig() *Config {
	return &Config{
		Servers: []Server{
			{
				URL:   "",
				Alias: "e.g. production portal",
			},
		},
		AuthMode: "bearer",
	}
}

// AuthModeFor returns the effective credential model for a server.
func (c *Config) AuthModeFor(server *Server) string {
	if server.AuthMode != "" {
		return server.AuthMode
	}
	if c.AuthMode != "" {
		return c.AuthMode
	}
	return "bearer"
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// FindConfigFile searches for dirportal.json in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Search upwards until we find dirportal.json or reach root
	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent directories
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for _, server := range c.Servers {
		if server.Alias == alias {
			return &server, nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}

// Env holds environment-driven settings, loaded from the process environment
// after applying .env files.
type Env struct {
	LogLevel  string
	LogFormat string
}

// LoadEnv loads .env files (silently skipped when absent) and reads the
// logging settings.
func LoadEnv() Env {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	return Env{LogLevel: logLevel, LogFormat: logFormat}
}
