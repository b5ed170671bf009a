// FILE: state.go
package beacon

import (
	"sync/atomic"
	"time"
)

// State holds the runtime counters of the logger
type State struct {
	Closed atomic.Bool

	LoggerStartTime atomic.Value  // stores time.Time for uptime calculation
	TotalRecords    atomic.Uint64 // Records successfully appended
	TotalRotations  atomic.Uint64 // Successful sink swaps
	WriteFailures   atomic.Uint64 // Appends that returned an error
	RotateFailures  atomic.Uint64 // Sink opens that returned an error
	TotalBytes      atomic.Uint64 // Bytes appended across all sinks
}

// Stats is a point-in-time snapshot of the logger
type Stats struct {
	Name           string    `json:"name"`
	Directory      string    `json:"directory"`
	CurrentPath    string    `json:"current_path"`
	OpenedAt       time.Time `json:"opened_at"`
	Expired        bool      `json:"expired"`
	Uptime         string    `json:"uptime"`
	Records        uint64    `json:"records"`
	Rotations      uint64    `json:"rotations"`
	WriteFailures  uint64    `json:"write_failures"`
	RotateFailures uint64    `json:"rotate_failures"`
	BytesWritten   uint64    `json:"bytes_written"`
	DayDirectories int       `json:"day_directories"`
	HourFiles      int       `json:"hour_files"`
	StoredBytes    int64     `json:"stored_bytes"`
	DiskFreeBytes  int64     `json:"disk_free_bytes"` // -1 when unavailable
}

// Stats returns counters and a storage scan of the base directory
func (l *Logger) Stats() Stats {
	l.mu.Lock()
	current := l.currentPathLocked()
	openedAt := l.openedAt
	expired := l.isExpiredAt(l.now())
	l.mu.Unlock()

	st := Stats{
		Name:           l.channel.Name(),
		Directory:      l.cfg.Directory,
		CurrentPath:    current,
		OpenedAt:       openedAt,
		Expired:        expired,
		Records:        l.state.TotalRecords.Load(),
		Rotations:      l.state.TotalRotations.Load(),
		WriteFailures:  l.state.WriteFailures.Load(),
		RotateFailures: l.state.RotateFailures.Load(),
		BytesWritten:   l.state.TotalBytes.Load(),
		DiskFreeBytes:  -1,
	}

	if startTime, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !startTime.IsZero() {
		st.Uptime = l.now().Sub(startTime).Round(time.Second).String()
	}

	days, files, size, err := l.storageUsage()
	if err != nil {
		l.internalLog(LevelWarn, "storage scan failed", "error", err)
	}
	st.DayDirectories, st.HourFiles, st.StoredBytes = days, files, size

	if free, err := getDiskFreeSpace(l.cfg.Directory); err == nil {
		st.DiskFreeBytes = free
	}

	return st
}
