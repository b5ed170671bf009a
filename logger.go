// FILE: lixenwraith/beacon/logger.go
package beacon

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/beacon/formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger appends beacon readings to per-hour files under per-day directories,
// swapping its single sink once the current one expires
type Logger struct {
	mu        sync.Mutex // guards openedAt and the check-expire, rotate, append sequence
	cfg       *Config
	channel   *Channel
	formatter *formatter.Formatter
	clock     func() time.Time
	openedAt  time.Time // zero until the first rotation, always expired
	state     State
	roller    *lumberjack.Logger // size-capped writer, reused by every rolling sink

	warnFn   func(string)
	warnMu   sync.Mutex
	warnings []string

	diagMu  sync.Mutex
	diagOut io.Writer
	diagFmt *formatter.Formatter

	hbStop chan struct{}
	hbDone chan struct{}
	hbOnce sync.Once
}

// Option customizes a Logger at construction
type Option func(*Logger)

// WithClock replaces time.Now as the logger's time source
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.clock = now
		}
	}
}

// WithWarningHandler receives non-fatal construction warnings
func WithWarningHandler(fn func(string)) Option {
	return func(l *Logger) {
		l.warnFn = fn
	}
}

// WithDiagnosticWriter sends diagnostics to w instead of the configured target
func WithDiagnosticWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.diagOut = w
	}
}

// New creates a logger rooted at cfg.Directory.
// A missing directory is only a warning unless cfg.StrictDirectory is set, the directory
// tree is created on demand by the first rotation.
func New(cfg *Config, opts ...Option) (*Logger, error) {
	if cfg == nil {
		return nil, fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}

	channel, err := NewChannel(cfg.Name, LevelInfo)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		cfg:     cfg.Clone(),
		channel: channel,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.diagOut == nil {
		switch l.cfg.DiagTarget {
		case DiagStdout:
			l.diagOut = os.Stdout
		case DiagDiscard:
			l.diagOut = io.Discard
		default:
			l.diagOut = os.Stderr
		}
	}

	l.formatter = formatter.New().TimestampFormat(l.cfg.TimestampFormat)
	l.diagFmt = formatter.New().TimestampFormat(time.RFC3339)
	l.state.LoggerStartTime.Store(l.now())

	if !directoryExists(l.cfg.Directory) {
		if l.cfg.StrictDirectory {
			return nil, fmt.Errorf("%w: '%s'", ErrDirectoryMissing, l.cfg.Directory)
		}
		l.warn(fmt.Sprintf("specified log directory '%s' does not exist", l.cfg.Directory))
	}

	l.startHeartbeat()

	return l, nil
}

// Record appends "<timestamp>\t<beaconID>\t<rssi>\n" to the current hour file, rotating first if expired.
// Open and write errors are returned, the record is lost in that case.
func (l *Logger) Record(beaconID, rssi string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Closed.Load() {
		return ErrClosed
	}

	now := l.now()
	if l.isExpiredAt(now) {
		if err := l.rotateLocked(now); err != nil {
			return err
		}
	}

	line := l.formatter.Record(now, beaconID, rssi)
	if err := l.channel.Emit(LevelInfo, line); err != nil {
		l.state.WriteFailures.Add(1)
		return err
	}

	l.state.TotalRecords.Add(1)
	l.state.TotalBytes.Add(uint64(len(line)))
	return nil
}

// IsExpired reports whether the next Record will rotate
func (l *Logger) IsExpired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isExpiredAt(l.now())
}

// isExpiredAt is true when no sink is attached or the sink has lived for at least the rotation interval.
// In calendar mode a change of date/hour bucket also expires the sink.
func (l *Logger) isExpiredAt(now time.Time) bool {
	if l.channel.Sink() == nil {
		return true
	}
	if now.Sub(l.openedAt) >= l.cfg.rotationInterval() {
		return true
	}
	if l.cfg.RotationMode == RotationCalendar && l.pathFor(now) != l.pathFor(l.openedAt) {
		return true
	}
	return false
}

// TargetPath returns the hour file path for the current time and creates its day directory
func (l *Logger) TargetPath() string {
	return l.targetPathAt(l.now())
}

// Rotate opens the hour file for the current time and swaps it in as the only sink
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Closed.Load() {
		return ErrClosed
	}
	return l.rotateLocked(l.now())
}

// rotateLocked opens the new sink before releasing the old one, a failed open leaves the old sink
// attached with its original open time so the logger stays expired and the next call retries
func (l *Logger) rotateLocked(now time.Time) error {
	path := l.targetPathAt(now)

	s, err := l.openSink(path)
	if err != nil {
		l.state.RotateFailures.Add(1)
		return fmtErrorf("failed to rotate log file: %w", err)
	}

	prev := l.channel.Attach(s)
	l.openedAt = now
	l.state.TotalRotations.Add(1)

	if err := l.releaseSink(prev); err != nil {
		l.internalLog(LevelWarn, "failed to release previous sink", "error", err)
	}
	l.internalLog(LevelDebug, "rotated", "path", path)

	return nil
}

// CurrentPath returns the path of the attached sink, empty if none
func (l *Logger) CurrentPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentPathLocked()
}

func (l *Logger) currentPathLocked() string {
	if s := l.channel.Sink(); s != nil {
		return s.Path()
	}
	return ""
}

// OpenedAt returns when the attached sink was opened, zero before the first rotation
func (l *Logger) OpenedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openedAt
}

// Flush syncs the attached sink to disk
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Closed.Load() {
		return ErrClosed
	}
	s := l.channel.Sink()
	if s == nil {
		return nil
	}
	if err := s.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", s.Path(), err)
	}
	return nil
}

// Close stops the heartbeat and releases the attached sink. Safe to call multiple times.
func (l *Logger) Close() error {
	// Heartbeat takes the lock through Stats, stop it first
	l.stopHeartbeat()

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.Closed.CompareAndSwap(false, true) {
		return nil
	}

	err := l.releaseSink(l.channel.Detach())
	l.openedAt = time.Time{}
	return err
}

// Name returns the channel identity
func (l *Logger) Name() string {
	return l.channel.Name()
}

// GetConfig returns a copy of the configuration in use
func (l *Logger) GetConfig() *Config {
	return l.cfg.Clone()
}

// Warnings returns the non-fatal warnings raised so far
func (l *Logger) Warnings() []string {
	l.warnMu.Lock()
	defer l.warnMu.Unlock()
	out := make([]string, len(l.warnings))
	copy(out, l.warnings)
	return out
}

// now returns the current time from the configured clock
func (l *Logger) now() time.Time {
	return l.clock()
}

// warn records a non-fatal warning and forwards it to the handler and diagnostics
func (l *Logger) warn(msg string) {
	l.warnMu.Lock()
	l.warnings = append(l.warnings, msg)
	l.warnMu.Unlock()

	if l.warnFn != nil {
		l.warnFn(msg)
	}
	l.internalLog(LevelWarn, "warning", "msg", msg)
}
