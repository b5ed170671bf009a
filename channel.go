// FILE: channel.go
package beacon

import (
	"io"
	"os"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink is an append-mode output target that can be attached to a Channel
type Sink interface {
	io.WriteCloser
	Path() string
	Sync() error
}

// sinkRef is a wrapper around a Sink, atomic pointer needs a concrete type
type sinkRef struct {
	s Sink
}

// Channel is a named output with a minimum severity and at most one attached sink
type Channel struct {
	name     string
	minLevel int64
	current  atomic.Pointer[sinkRef]
}

// NewChannel creates a channel with no sink attached
func NewChannel(name string, minLevel int64) (*Channel, error) {
	if err := validateChannelName(name); err != nil {
		return nil, err
	}
	return &Channel{name: name, minLevel: minLevel}, nil
}

// Name returns the channel identity
func (c *Channel) Name() string {
	return c.name
}

// MinLevel returns the severity filter
func (c *Channel) MinLevel() int64 {
	return c.minLevel
}

// Attach installs s as the only sink and returns the one it replaced, if any
func (c *Channel) Attach(s Sink) Sink {
	prev := c.current.Swap(&sinkRef{s: s})
	if prev == nil {
		return nil
	}
	return prev.s
}

// Detach removes and returns the attached sink
func (c *Channel) Detach() Sink {
	prev := c.current.Swap(nil)
	if prev == nil {
		return nil
	}
	return prev.s
}

// Sink returns the attached sink or nil
func (c *Channel) Sink() Sink {
	ref := c.current.Load()
	if ref == nil {
		return nil
	}
	return ref.s
}

// Emit writes line to the attached sink in a single Write call.
// Lines below the channel level are dropped without error.
func (c *Channel) Emit(level int64, line []byte) error {
	if level < c.minLevel {
		return nil
	}
	s := c.Sink()
	if s == nil {
		return ErrNoSink
	}
	n, err := s.Write(line)
	if err != nil {
		return fmtErrorf("failed to write to '%s': %w", s.Path(), err)
	}
	if n != len(line) {
		return fmtErrorf("short write to '%s': %d of %d bytes", s.Path(), n, len(line))
	}
	return nil
}

// fileSink appends to a plain file
type fileSink struct {
	*os.File
	path string
}

// openFileSink opens path in append mode, creating it if needed
func openFileSink(path string) (*fileSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return nil, fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}
	return &fileSink{File: file, path: path}, nil
}

func (f *fileSink) Path() string {
	return f.path
}

// rollingSink appends to an hour file and splits it by size.
// Split parts are renamed by lumberjack with a timestamp suffix in the same directory.
// lumberjack's mill goroutine outlives Close, so all rolling sinks of a logger share one lumberjack.Logger.
type rollingSink struct {
	lj   *lumberjack.Logger
	path string
}

// newRoller creates the size-capped writer a logger reuses across rotations
func newRoller(maxSizeMB, maxBackups int64) *lumberjack.Logger {
	return &lumberjack.Logger{
		MaxSize:    int(maxSizeMB),
		MaxBackups: int(maxBackups),
		LocalTime:  true,
	}
}

// retargetRollingSink closes lj and points it at path, lumberjack reopens lazily on first write.
// The caller must hold the logger mutex so no write races the retarget.
func retargetRollingSink(lj *lumberjack.Logger, path string) (*rollingSink, error) {
	if err := lj.Close(); err != nil {
		return nil, fmtErrorf("failed to close previous log file '%s': %w", lj.Filename, err)
	}
	lj.Filename = path
	return &rollingSink{lj: lj, path: path}, nil
}

func (r *rollingSink) Write(p []byte) (int, error) {
	return r.lj.Write(p)
}

// Close releases the file only while the shared writer still targets this sink's path
func (r *rollingSink) Close() error {
	if r.lj.Filename != r.path {
		return nil
	}
	return r.lj.Close()
}

func (r *rollingSink) Path() string {
	return r.path
}

// Sync is a no-op, lumberjack writes through to the file without buffering
func (r *rollingSink) Sync() error {
	return nil
}
