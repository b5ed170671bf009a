// FILE: storage.go
package beacon

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// dayDir returns the per-day directory for t
func (l *Logger) dayDir(t time.Time) string {
	return filepath.Join(l.cfg.Directory, t.Format(l.cfg.DateFormat))
}

// hourFileName returns the hour file name for t, hour is not zero padded
func (l *Logger) hourFileName(t time.Time) string {
	name := strconv.Itoa(t.Hour())
	if l.cfg.Extension != "" {
		name += "." + l.cfg.Extension
	}
	return name
}

// pathFor derives the hour file path for t without touching the filesystem
func (l *Logger) pathFor(t time.Time) string {
	return filepath.Join(l.dayDir(t), l.hourFileName(t))
}

// targetPathAt derives the hour file path for t and creates its day directory.
// A failed directory creation is reported but does not stop the path from being returned,
// opening the sink is where a real problem surfaces.
func (l *Logger) targetPathAt(t time.Time) string {
	dir := l.dayDir(t)
	if !directoryExists(dir) {
		if err := makeDir(dir); err != nil {
			l.internalLog(LevelDebug, "directory creation skipped", "dir", dir, "error", err)
		}
	}
	return filepath.Join(dir, l.hourFileName(t))
}

// makeDir creates path and all missing parents.
// Unlike os.MkdirAll it reports an existing directory as an error, callers treat that as benign.
func makeDir(path string) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmtErrorf("directory '%s' already exists: %w", path, fs.ErrExist)
		}
		return fmtErrorf("'%s' exists and is not a directory: %w", path, fs.ErrExist)
	}
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", path, err)
	}
	return nil
}

// openSink opens the append target for path, size-capped when configured
func (l *Logger) openSink(path string) (Sink, error) {
	file, err := openFileSink(path)
	if err != nil {
		return nil, err
	}
	if l.cfg.MaxSizeMB <= 0 {
		return file, nil
	}

	// The probe above surfaced open errors now, lumberjack reopens lazily on first write
	if err := file.Close(); err != nil {
		l.internalLog(LevelWarn, "failed to close probe handle", "file", path, "error", err)
	}
	if l.roller == nil {
		l.roller = newRoller(l.cfg.MaxSizeMB, l.cfg.MaxBackups)
	}
	rs, err := retargetRollingSink(l.roller, path)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// releaseSink syncs and closes a detached sink
func (l *Logger) releaseSink(s Sink) error {
	if s == nil {
		return nil
	}
	var finalErr error
	if err := s.Sync(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to sync log file '%s': %w", s.Path(), err))
	}
	if err := s.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s': %w", s.Path(), err))
	}
	return finalErr
}

// directoryExists reports whether path is an existing directory
func directoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// storageUsage walks the base directory and counts day directories, hour files and bytes
func (l *Logger) storageUsage() (days int, files int, size int64, err error) {
	root := l.cfg.Directory
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, 0, nil
		}
		return 0, 0, 0, fmtErrorf("failed to read log directory '%s': %w", root, err)
	}

	targetExt := ""
	if l.cfg.Extension != "" {
		targetExt = "." + l.cfg.Extension
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, errParse := time.Parse(l.cfg.DateFormat, entry.Name()); errParse != nil {
			continue
		}
		days++

		dayEntries, errRead := os.ReadDir(filepath.Join(root, entry.Name()))
		if errRead != nil {
			continue
		}
		for _, f := range dayEntries {
			if f.IsDir() || filepath.Ext(f.Name()) != targetExt {
				continue
			}
			info, errInfo := f.Info()
			if errInfo != nil {
				continue
			}
			files++
			size += info.Size()
		}
	}
	return days, files, size, nil
}

// getDiskFreeSpace retrieves available disk space for the given path
func getDiskFreeSpace(path string) (int64, error) {
	var stat syscall.Statfs_t
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmtErrorf("log directory '%s' does not exist for disk check: %w", path, err)
		}
		return 0, fmtErrorf("failed to stat log directory '%s': %w", path, err)
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}

	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, fmtErrorf("failed to get disk stats for '%s': %w", path, err)
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
