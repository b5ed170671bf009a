// FILE: lixenwraith/beacon/constant.go
package beacon

import (
	"time"
)

// Diagnostic level constants
const (
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
)

// Rotation modes
const (
	// RotationElapsed expires the sink once the interval has elapsed since it was opened
	RotationElapsed = "elapsed"
	// RotationCalendar additionally expires the sink when the date/hour bucket changes
	RotationCalendar = "calendar"
)

// Diagnostic output targets
const (
	DiagStderr  = "stderr"
	DiagStdout  = "stdout"
	DiagDiscard = "discard"
)

// Storage
const (
	dirPerm  = 0755
	filePerm = 0644
	// Size multiplier for MB
	sizeMultiplier = 1024 * 1024
)

// Timers
const (
	// Default expiry of an open sink
	defaultRotationInterval = 3600 * time.Second
	// Lower bound for the heartbeat ticker
	minHeartbeatInterval = 10 * time.Millisecond
)
