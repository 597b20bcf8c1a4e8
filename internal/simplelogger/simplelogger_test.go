package simplelogger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.FixedZone("X", 3600)) }
	t.Cleanup(func() { now = prev })
}

func TestLog_WritesAndAppends(t *testing.T) {
	fixedClock(t)
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "docstub.log"))

	Log("hello %s", "world")
	Log("skip %d\n", 123)

	b, err := os.ReadFile(os.Getenv(EnvVar))
	require.NoError(t, err)
	require.Equal(t, "2024-03-09T13:05:00Z hello world\n2024-03-09T13:05:00Z skip 123\n", string(b))
}

func TestLog_NoOpWhenUnset(t *testing.T) {
	t.Setenv(EnvVar, "")
	assert.False(t, Enabled())
	Log("should not %s", "panic")
}

func TestLog_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVar, dir)
	assert.True(t, Enabled())

	Log("ignored %d", 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
