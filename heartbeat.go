// FILE: lixenwraith/beacon/heartbeat.go
package beacon

import (
	"fmt"
	"time"
)

// startHeartbeat launches the stats ticker if enabled
func (l *Logger) startHeartbeat() {
	interval := time.Duration(l.cfg.HeartbeatIntervalMs) * time.Millisecond
	if interval <= 0 {
		return
	}
	if interval < minHeartbeatInterval {
		interval = minHeartbeatInterval
	}

	l.hbStop = make(chan struct{})
	l.hbDone = make(chan struct{})
	go l.runHeartbeat(interval)
}

// runHeartbeat emits a stats line per tick until stopped
func (l *Logger) runHeartbeat(interval time.Duration) {
	defer close(l.hbDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.hbStop:
			return
		case <-ticker.C:
			l.logStatsHeartbeat()
		}
	}
}

// stopHeartbeat stops the ticker goroutine and waits for it to exit
func (l *Logger) stopHeartbeat() {
	l.hbOnce.Do(func() {
		if l.hbStop == nil {
			return
		}
		close(l.hbStop)
		<-l.hbDone
	})
}

// logStatsHeartbeat writes a stats snapshot, bypassing the diagnostic level filter
func (l *Logger) logStatsHeartbeat() {
	st := l.Stats()

	args := []any{
		"heartbeat",
		"type", "stats",
		"uptime", st.Uptime,
		"records", st.Records,
		"rotations", st.Rotations,
		"write_failures", st.WriteFailures,
		"rotate_failures", st.RotateFailures,
		"current_path", st.CurrentPath,
		"day_directories", st.DayDirectories,
		"hour_files", st.HourFiles,
		"stored_mb", fmt.Sprintf("%.2f", float64(st.StoredBytes)/sizeMultiplier),
	}
	if st.DiskFreeBytes >= 0 {
		args = append(args, "disk_free_mb", fmt.Sprintf("%.2f", float64(st.DiskFreeBytes)/sizeMultiplier))
	}

	l.writeDiagnostic(LevelInfo, args)
}
