// FILE: lixenwraith/beacon/state_test.go
package beacon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	logger, clock, tmpDir := createTestLogger(t)

	st := logger.Stats()
	assert.Equal(t, "beacon", st.Name)
	assert.Equal(t, tmpDir, st.Directory)
	assert.Empty(t, st.CurrentPath)
	assert.True(t, st.Expired)
	assert.Zero(t, st.Records)

	require.NoError(t, logger.Record("B1", "10"))
	require.NoError(t, logger.Record("B2", "20"))
	clock.Advance(90 * time.Minute)

	st = logger.Stats()
	assert.Equal(t, uint64(2), st.Records)
	assert.Equal(t, uint64(1), st.Rotations)
	assert.Equal(t, filepath.Join(tmpDir, "2024-06-15", "14.txt"), st.CurrentPath)
	assert.Equal(t, testEpoch, st.OpenedAt)
	assert.True(t, st.Expired)
	assert.Equal(t, "1h30m0s", st.Uptime)
	assert.Equal(t, 1, st.DayDirectories)
	assert.Equal(t, 1, st.HourFiles)
	assert.Equal(t, int64(st.BytesWritten), st.StoredBytes)
	assert.Greater(t, st.DiskFreeBytes, int64(0))
}

func TestStatsFailureCounters(t *testing.T) {
	logger, _, tmpDir := createTestLogger(t)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "2024-06-15"), nil, 0644))
	require.Error(t, logger.Record("B1", "10"))
	assert.Equal(t, uint64(1), logger.Stats().RotateFailures)

	// A closed sink surfaces as a write failure
	require.NoError(t, os.Remove(filepath.Join(tmpDir, "2024-06-15")))
	require.NoError(t, logger.Rotate())
	require.NoError(t, logger.channel.Sink().Close())
	require.Error(t, logger.Record("B1", "10"))

	st := logger.Stats()
	assert.Equal(t, uint64(1), st.WriteFailures)
	assert.Zero(t, st.Records)
}

func TestStatsJSON(t *testing.T) {
	logger, _, _ := createTestLogger(t)
	require.NoError(t, logger.Record("B1", "10"))

	data, err := json.Marshal(logger.Stats())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "beacon", decoded["name"])
	assert.EqualValues(t, 1, decoded["records"])
	assert.Contains(t, decoded, "current_path")
	assert.Contains(t, decoded, "disk_free_bytes")
}
