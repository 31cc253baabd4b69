package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("TEST")
	l.SetOutput(&buf)
	l.SetLevel(WARN)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[TEST] [WARN] warn 3")
	assert.Contains(t, out, "[TEST] [ERROR] error 4")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" WARNING "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
}

func TestSetFileWritesPlainLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	l := New("FILE")
	l.SetOutput(nil)
	require.NoError(t, l.SetFile(path))

	l.Info("spawned %s", "goblin")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[FILE] [INFO] spawned goblin")
}

func TestFatalCallsExit(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	l := New("FATAL")
	l.SetOutput(&buf)
	l.exit = func(c int) { code = c }

	l.Fatal("boom")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "boom")
}

func TestCloseAllReleasesSharedLogFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitializeFileLogging(dir))

	Server.Info("shutting down %s", "now")
	require.NoError(t, CloseAll())

	for _, l := range registry {
		assert.Nil(t, l.file, l.name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "server.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[SERVER] [INFO] shutting down now")

	// a second call has nothing left to close
	require.NoError(t, CloseAll())
}
