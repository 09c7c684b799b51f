package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Workspace WorkspaceConfig
	Storage   StorageConfig
	Remote    RemoteConfig
	Audit     AuditConfig
	Log       LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// WorkspaceConfig pins the active workspace scope and operator identity.
// Every operation runs fenced to this (owner, workspace) pair.
type WorkspaceConfig struct {
	OwnerID      int64
	WorkspaceID  int64
	Storage      string // local or server
	OperatorID   int64
	OperatorName string
}

// StorageConfig holds embedded database settings
type StorageConfig struct {
	Path string // database file path, or :memory:
}

// RemoteConfig holds sync server settings for server-stored workspaces
type RemoteConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// AuditConfig holds audit trail retention settings
type AuditConfig struct {
	RetentionDays int
	SweepInterval time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load reads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with AGRISALE_ prefix (e.g., AGRISALE_REMOTE_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.agrisale")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("AGRISALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Workspace: WorkspaceConfig{
			OwnerID:      v.GetInt64("workspace.owner_id"),
			WorkspaceID:  v.GetInt64("workspace.workspace_id"),
			Storage:      v.GetString("workspace.storage"),
			OperatorID:   v.GetInt64("workspace.operator_id"),
			OperatorName: v.GetString("workspace.operator_name"),
		},
		Storage: StorageConfig{
			Path: v.GetString("storage.path"),
		},
		Remote: RemoteConfig{
			BaseURL: v.GetString("remote.base_url"),
			Token:   v.GetString("remote.token"),
			Timeout: v.GetDuration("remote.timeout"),
		},
		Audit: AuditConfig{
			RetentionDays: v.GetInt("audit.retention_days"),
			SweepInterval: v.GetDuration("audit.sweep_interval"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "agrisale-manager"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Workspace.Storage == "" {
		cfg.Workspace.Storage = "local"
	}
	if cfg.Workspace.OperatorName == "" {
		cfg.Workspace.OperatorName = "owner"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "agrisale.db"
	}
	if cfg.Remote.Timeout == 0 {
		cfg.Remote.Timeout = 15 * time.Second
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = 730
	}
	if cfg.Audit.SweepInterval == 0 {
		cfg.Audit.SweepInterval = 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	if c.Workspace.OwnerID <= 0 {
		return fmt.Errorf("workspace.owner_id must be set")
	}
	if c.Workspace.WorkspaceID <= 0 {
		return fmt.Errorf("workspace.workspace_id must be set")
	}
	switch c.Workspace.Storage {
	case "local", "server":
	default:
		return fmt.Errorf("workspace.storage must be local or server, got %q", c.Workspace.Storage)
	}
	if c.Workspace.Storage == "server" {
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote.base_url must be set for server-stored workspaces")
		}
		if _, err := url.ParseRequestURI(c.Remote.BaseURL); err != nil {
			return fmt.Errorf("remote.base_url is not a valid URL: %w", err)
		}
		if c.Remote.Token == "" {
			return fmt.Errorf("remote.token must be set for server-stored workspaces")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Audit.RetentionDays < 0 {
		return fmt.Errorf("audit.retention_days cannot be negative")
	}
	return nil
}

// RetentionWindow returns the audit retention as a duration.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.Audit.RetentionDays) * 24 * time.Hour
}
