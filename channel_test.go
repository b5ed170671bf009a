// FILE: lixenwraith/beacon/channel_test.go
package beacon

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSink is an in-memory Sink
type memSink struct {
	bytes.Buffer
	path     string
	closed   bool
	shortBy  int
	writeErr error
}

func (m *memSink) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	n, err := m.Buffer.Write(p[:len(p)-m.shortBy])
	return n, err
}

func (m *memSink) Close() error {
	m.closed = true
	return nil
}

func (m *memSink) Path() string { return m.path }
func (m *memSink) Sync() error  { return nil }

func TestNewChannel(t *testing.T) {
	ch, err := NewChannel("beacon", LevelInfo)
	require.NoError(t, err)
	assert.Equal(t, "beacon", ch.Name())
	assert.Equal(t, LevelInfo, ch.MinLevel())
	assert.Nil(t, ch.Sink())

	_, err = NewChannel("", LevelInfo)
	assert.ErrorIs(t, err, ErrInvalidChannelName)
}

func TestChannelAttachDetach(t *testing.T) {
	ch, err := NewChannel("beacon", LevelInfo)
	require.NoError(t, err)

	first := &memSink{path: "a"}
	second := &memSink{path: "b"}

	assert.Nil(t, ch.Attach(first))
	assert.Same(t, first, ch.Sink())

	prev := ch.Attach(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, ch.Sink())

	assert.Same(t, second, ch.Detach())
	assert.Nil(t, ch.Sink())
	assert.Nil(t, ch.Detach())
}

func TestChannelEmit(t *testing.T) {
	t.Run("writes one line", func(t *testing.T) {
		ch, _ := NewChannel("beacon", LevelInfo)
		s := &memSink{path: "a"}
		ch.Attach(s)

		require.NoError(t, ch.Emit(LevelInfo, []byte("line\n")))
		assert.Equal(t, "line\n", s.String())
	})

	t.Run("filters below level", func(t *testing.T) {
		ch, _ := NewChannel("beacon", LevelInfo)
		s := &memSink{path: "a"}
		ch.Attach(s)

		require.NoError(t, ch.Emit(LevelDebug, []byte("dropped\n")))
		assert.Empty(t, s.String())
	})

	t.Run("no sink", func(t *testing.T) {
		ch, _ := NewChannel("beacon", LevelInfo)
		assert.ErrorIs(t, ch.Emit(LevelInfo, []byte("x\n")), ErrNoSink)
	})

	t.Run("write error wrapped", func(t *testing.T) {
		ch, _ := NewChannel("beacon", LevelInfo)
		cause := errors.New("device gone")
		ch.Attach(&memSink{path: "a", writeErr: cause})

		err := ch.Emit(LevelInfo, []byte("x\n"))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("short write", func(t *testing.T) {
		ch, _ := NewChannel("beacon", LevelInfo)
		ch.Attach(&memSink{path: "a", shortBy: 1})

		err := ch.Emit(LevelInfo, []byte("xy\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "short write")
	})
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.txt")

	s, err := openFileSink(path)
	require.NoError(t, err)
	_, err = s.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening appends
	s, err = openFileSink(path)
	require.NoError(t, err)
	_, err = s.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, s.Sync())
	require.NoError(t, s.Close())

	assert.Equal(t, path, s.Path())
	assert.Len(t, readRecords(t, path), 2)

	_, err = openFileSink(filepath.Join(t.TempDir(), "missing", "0.txt"))
	assert.Error(t, err)
}

func TestRollingSinkRetarget(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "0.txt")
	second := filepath.Join(dir, "1.txt")
	lj := newRoller(1, 1)

	s1, err := retargetRollingSink(lj, first)
	require.NoError(t, err)
	_, err = s1.Write([]byte("one\n"))
	require.NoError(t, err)

	s2, err := retargetRollingSink(lj, second)
	require.NoError(t, err)
	assert.Same(t, lj, s2.lj)

	// Releasing the replaced sink leaves the shared writer alone
	require.NoError(t, s1.Close())
	_, err = s2.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, s2.Sync())
	require.NoError(t, s2.Close())

	assert.Equal(t, first, s1.Path())
	assert.Equal(t, second, s2.Path())
	assert.Len(t, readRecords(t, first), 1)
	assert.Len(t, readRecords(t, second), 1)
}
