package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/stshell/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultBaseURL is the public SmartThings IDE
	DefaultBaseURL = "https://graph.api.smartthings.com"

	// DefaultTimeout is the per-request HTTP timeout in seconds
	DefaultTimeout = 30

	// DefaultUserAgent identifies the client to the IDE
	DefaultUserAgent = "stshell/1.0"

	// DefaultDestRoot is where bundles are written when no destination is given
	DefaultDestRoot = "st-shell"

	// DefaultDirPerm and DefaultFilePerm are applied to created directories and files
	DefaultDirPerm  = 0o755
	DefaultFilePerm = 0o644

	// DefaultVerbose is the info level on the 1 (error) to 5 (trace) scale
	DefaultVerbose = 3
)

// Verbosity presets for [ConfigOverride.LogLvl]
const (
	ErrorVerbose = util.MinVerbosity + iota
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for the IDE client.
type Config struct {
	BaseURL   string        // Scheme and host of the IDE (Default https://graph.api.smartthings.com)
	Username  string        // Account login
	Password  string        // Account password
	Timeout   time.Duration // Per-request HTTP timeout (Default 30s)
	UserAgent string        // User-Agent header sent with every request
	LogLvl    util.LogLevel // Internal log level derived from CLI verbosity (Default info)
	DestRoot  string        // Default download destination (Default "st-shell")
	DirPerm   os.FileMode   // Mode for created directories (Default 0755)
	FilePerm  os.FileMode   // Mode for written files (Default 0644)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	BaseURL   *string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Username  *string `yaml:"username,omitempty" json:"username,omitempty"`
	Password  *string `yaml:"password,omitempty" json:"password,omitempty"`
	Timeout   *int    `yaml:"timeout,omitempty" json:"timeout,omitempty"` // seconds
	UserAgent *string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	// LogLvl is the CLI verbosity 1 (error) to 5 (trace), clamped
	LogLvl   *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	DestRoot *string `yaml:"dest_root,omitempty" json:"dest_root,omitempty"`
	DirPerm  *uint32 `yaml:"dir_perm,omitempty" json:"dir_perm,omitempty"`
	FilePerm *uint32 `yaml:"file_perm,omitempty" json:"file_perm,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout * time.Second,
		UserAgent: DefaultUserAgent,
		LogLvl:    util.VerbosityLevel(DefaultVerbose),
		DestRoot:  DefaultDestRoot,
		DirPerm:   DefaultDirPerm,
		FilePerm:  DefaultFilePerm,
	}
}

// NewConfig creates a Config from defaults with override applied (may be nil)
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.BaseURL != nil {
		c.BaseURL = strings.TrimRight(*override.BaseURL, "/")
	}
	if override.Username != nil {
		c.Username = *override.Username
	}
	if override.Password != nil {
		c.Password = *override.Password
	}
	if override.Timeout != nil {
		c.Timeout = time.Duration(*override.Timeout) * time.Second
	}
	if override.UserAgent != nil {
		c.UserAgent = *override.UserAgent
	}
	if override.LogLvl != nil {
		c.LogLvl = util.VerbosityLevel(*override.LogLvl)
	}
	if override.DestRoot != nil {
		c.DestRoot = *override.DestRoot
	}
	if override.DirPerm != nil {
		c.DirPerm = os.FileMode(*override.DirPerm)
	}
	if override.FilePerm != nil {
		c.FilePerm = os.FileMode(*override.FilePerm)
	}
}

// Validate checks the fields required to talk to the IDE
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base url must be http(s): %q", c.BaseURL)
	}
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
