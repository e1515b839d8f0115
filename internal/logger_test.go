package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Development(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, (&Config{Env: "development"}).IsDevelopment(), "warn")

	logger.Info("hidden")
	logger.Warn("shown", "page", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "page=3")
	assert.Contains(t, out, "service=pagelinks")
}

func TestNewLogger_Production(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, (&Config{Env: "production"}).IsDevelopment(), "bogus")

	logger.Debug("hidden")
	logger.Info("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}
