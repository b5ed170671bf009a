// FILE: config.go
package beacon

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
)

// Config holds all beacon logger configuration values
type Config struct {
	// Basic settings
	Name      string `toml:"name"`      // Channel identity
	Directory string `toml:"directory"` // Root of the per-day directories
	Extension string `toml:"extension"` // Hour file extension

	// Path and record formatting
	DateFormat      string `toml:"date_format"`      // Layout of the per-day directory name
	TimestampFormat string `toml:"timestamp_format"` // Layout of the record timestamp

	// Rotation
	RotationIntervalS int64  `toml:"rotation_interval_s"` // Lifetime of an open hour file
	RotationMode      string `toml:"rotation_mode"`       // "elapsed" or "calendar"
	StrictDirectory   bool   `toml:"strict_directory"`    // Fail construction on a missing directory

	// Size cap within an hour file, 0 disables
	MaxSizeMB  int64 `toml:"max_size_mb"`
	MaxBackups int64 `toml:"max_backups"`

	// Diagnostics
	Level               int64  `toml:"level"`
	DiagTarget          string `toml:"diag_target"` // "stderr", "stdout" or "discard"
	HeartbeatIntervalMs int64  `toml:"heartbeat_interval_ms"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Name:      "beacon",
	Directory: "./logs",
	Extension: "txt",

	DateFormat:      time.DateOnly,
	TimestampFormat: time.RFC3339Nano,

	RotationIntervalS: int64(defaultRotationInterval / time.Second),
	RotationMode:      RotationElapsed,
	StrictDirectory:   false,

	MaxSizeMB:  0,
	MaxBackups: 0,

	Level:               LevelInfo,
	DiagTarget:          DiagStderr,
	HeartbeatIntervalMs: 0,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and CLI arguments and returns a validated Config.
// Keys live under the "beacon." prefix, a missing file leaves defaults in place.
func NewConfigFromFile(path string, args []string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("beacon.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, args); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "beacon.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		tomlTag := t.Field(i).Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			// TOML decoders may hand back whole numbers as float64
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if err := validateChannelName(c.Name); err != nil {
		return err
	}

	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if strings.TrimSpace(c.DateFormat) == "" {
		return fmtErrorf("date_format cannot be empty")
	}
	if strings.ContainsAny(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC).Format(c.DateFormat), `/\`) {
		return fmtErrorf("date_format must not produce path separators: '%s'", c.DateFormat)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.RotationIntervalS <= 0 {
		return fmtErrorf("rotation_interval_s must be positive: %d", c.RotationIntervalS)
	}

	if c.RotationMode != RotationElapsed && c.RotationMode != RotationCalendar {
		return fmtErrorf("invalid rotation_mode: '%s' (use %s or %s)", c.RotationMode, RotationElapsed, RotationCalendar)
	}

	if c.MaxSizeMB < 0 || c.MaxBackups < 0 {
		return fmtErrorf("size limits cannot be negative")
	}

	if c.Level < LevelDebug || c.Level > LevelError {
		return fmtErrorf("level out of range: %d", c.Level)
	}

	if c.DiagTarget != DiagStderr && c.DiagTarget != DiagStdout && c.DiagTarget != DiagDiscard {
		return fmtErrorf("invalid diag_target: '%s' (use stderr, stdout or discard)", c.DiagTarget)
	}

	if c.HeartbeatIntervalMs < 0 {
		return fmtErrorf("heartbeat_interval_ms cannot be negative: %d", c.HeartbeatIntervalMs)
	}

	return nil
}

// Validate checks the configuration without applying it
func (c *Config) Validate() error {
	return c.validate()
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// rotationInterval returns the configured sink lifetime
func (c *Config) rotationInterval() time.Duration {
	return time.Duration(c.RotationIntervalS) * time.Second
}
