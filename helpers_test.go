// FILE: lixenwraith/beacon/helpers_test.go
package beacon

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testEpoch is the fake clock's starting point, mid-hour so elapsed and calendar rotation disagree
var testEpoch = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// syncBuffer is a bytes.Buffer safe for a background writer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// createTestLogger creates a logger in a temp directory driven by a fake clock
func createTestLogger(t *testing.T, overrides ...string) (*Logger, *fakeClock, string) {
	t.Helper()
	tmpDir := t.TempDir()
	clock := newFakeClock(testEpoch)

	logger, err := NewBuilder().
		Directory(tmpDir).
		DiagTarget(DiagDiscard).
		Override(overrides...).
		Clock(clock.Now).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	return logger, clock, tmpDir
}

// readRecords returns the lines of a record file split into fields
func readRecords(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records [][]string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		records = append(records, strings.Split(line, "\t"))
	}
	return records
}
