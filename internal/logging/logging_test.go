package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	log, err := build(cfg, &buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "shown")
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "DEBUG"
	log, err := build(cfg, &buf)
	require.NoError(t, err)
	log.Debug("compiled")
	assert.Contains(t, buf.String(), "compiled")

	cfg.Level = "loud"
	_, err = build(cfg, &buf)
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "info"
	cfg.File = filepath.Join(t.TempDir(), "exeval.log")
	log, err := New(cfg)
	require.NoError(t, err)
	log.Info("evaluated")
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "evaluated", entry["msg"])
	assert.Contains(t, entry, "time")
}
