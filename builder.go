// FILE: lixenwraith/beacon/builder.go
package beacon

import (
	"io"
	"time"
)

// Builder provides a fluent API for building beacon logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.cfg.Clone(), b.opts...)
}

// Config returns a copy of the configuration assembled so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Name sets the channel identity.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the base log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Extension sets the hour file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// TimestampFormat sets the record timestamp layout.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// RotationInterval sets the sink lifetime.
func (b *Builder) RotationInterval(d time.Duration) *Builder {
	b.cfg.RotationIntervalS = int64(d / time.Second)
	return b
}

// RotationMode sets elapsed or calendar rotation.
func (b *Builder) RotationMode(mode string) *Builder {
	b.cfg.RotationMode = mode
	return b
}

// Strict makes a missing base directory a construction error.
func (b *Builder) Strict(strict bool) *Builder {
	b.cfg.StrictDirectory = strict
	return b
}

// MaxSizeMB caps an hour file's size.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxSizeMB = size
	return b
}

// LevelString sets the diagnostic level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// DiagTarget sets where diagnostics go.
func (b *Builder) DiagTarget(target string) *Builder {
	b.cfg.DiagTarget = target
	return b
}

// Heartbeat sets the stats heartbeat interval, 0 disables.
func (b *Builder) Heartbeat(interval time.Duration) *Builder {
	b.cfg.HeartbeatIntervalMs = interval.Milliseconds()
	return b
}

// Override applies "key=value" strings on top of the current values.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	cfg, err := ApplyOverride(b.cfg, overrides...)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg = cfg
	return b
}

// Clock injects the time source.
func (b *Builder) Clock(now func() time.Time) *Builder {
	b.opts = append(b.opts, WithClock(now))
	return b
}

// OnWarning injects the construction warning handler.
func (b *Builder) OnWarning(fn func(string)) *Builder {
	b.opts = append(b.opts, WithWarningHandler(fn))
	return b
}

// DiagWriter overrides the diagnostic writer selected by DiagTarget.
func (b *Builder) DiagWriter(w io.Writer) *Builder {
	b.opts = append(b.opts, WithDiagnosticWriter(w))
	return b
}

// Example usage:
// logger, err := beacon.NewBuilder().
//
//	Directory("/var/log/beacons").
//	RotationMode("calendar").
//	Strict(true).
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 _ = logger.Record("B1", "-61")
//
// }
