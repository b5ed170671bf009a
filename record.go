// FILE: lixenwraith/beacon/record.go
package beacon

import (
	"fmt"
	"os"
)

// Debug writes a diagnostic line at debug level
func (l *Logger) Debug(args ...any) {
	l.diagnose(LevelDebug, args...)
}

// Info writes a diagnostic line at info level
func (l *Logger) Info(args ...any) {
	l.diagnose(LevelInfo, args...)
}

// Warn writes a diagnostic line at warning level
func (l *Logger) Warn(args ...any) {
	l.diagnose(LevelWarn, args...)
}

// Error writes a diagnostic line at error level
func (l *Logger) Error(args ...any) {
	l.diagnose(LevelError, args...)
}

// internalLog is the logger's own diagnostic path, a message followed by key value pairs
func (l *Logger) internalLog(level int64, msg string, kv ...any) {
	args := make([]any, 0, len(kv)+1)
	args = append(args, msg)
	args = append(args, kv...)
	l.diagnose(level, args...)
}

// diagnose applies the level filter before writing
func (l *Logger) diagnose(level int64, args ...any) {
	if level < l.cfg.Level {
		return
	}
	l.writeDiagnostic(level, args)
}

// writeDiagnostic formats and writes one diagnostic line, never touching the record channel
func (l *Logger) writeDiagnostic(level int64, args []any) {
	l.diagMu.Lock()
	defer l.diagMu.Unlock()

	line := l.diagFmt.Diagnostic(l.now(), level, l.channel.Name(), args)
	if _, err := l.diagOut.Write(line); err != nil {
		// Last resort, the diagnostic writer itself is broken
		fmt.Fprintf(os.Stderr, "beacon: failed to write diagnostic: %v\n", err)
	}
}
