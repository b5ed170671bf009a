// FILE: override.go
package beacon

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to a copy of cfg and returns the validated result.
// Each override should be in the format "key=value".
//
// Example:
//
//	cfg, err := beacon.ApplyOverride(beacon.DefaultConfig(),
//	    "directory=/var/log/beacons",
//	    "rotation_mode=calendar",
//	)
func ApplyOverride(cfg *Config, overrides ...string) (*Config, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(out, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, combineConfigErrors(errors)
	}

	if err := out.validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("beacon: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "beacon: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "extension":
		cfg.Extension = value

	// Formatting
	case "date_format":
		cfg.DateFormat = value
	case "timestamp_format":
		cfg.TimestampFormat = value

	// Rotation
	case "rotation_interval_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for rotation_interval_s '%s': %w", value, err)
		}
		cfg.RotationIntervalS = intVal
	case "rotation_mode":
		cfg.RotationMode = strings.ToLower(value)
	case "strict_directory":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for strict_directory '%s': %w", value, err)
		}
		cfg.StrictDirectory = boolVal

	// Size cap
	case "max_size_mb":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_size_mb '%s': %w", value, err)
		}
		cfg.MaxSizeMB = intVal
	case "max_backups":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_backups '%s': %w", value, err)
		}
		cfg.MaxBackups = intVal

	// Diagnostics
	case "level":
		// Accept both numeric and named values
		if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Level = numVal
		} else {
			levelVal, err := Level(value)
			if err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.Level = levelVal
		}
	case "diag_target":
		cfg.DiagTarget = value
	case "heartbeat_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for heartbeat_interval_ms '%s': %w", value, err)
		}
		cfg.HeartbeatIntervalMs = intVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
