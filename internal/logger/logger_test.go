package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("warn", "json", "clinic-register")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.AddSync(&buf), "info", "json", "clinic-register")

	l.Debug("dropped")
	l.Info("patient created", zap.Int64("patient_id", 4))
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "patient created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "clinic-register", entry["service_name"])
	assert.Equal(t, float64(4), entry["patient_id"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "hostname")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.AddSync(&buf), "debug", "console", "")

	l.Debug("slot empty", zap.String("key", "clinic:healthcare-patients"))
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.Contains(t, out, "slot empty")
	assert.Contains(t, out, "clinic:healthcare-patients")
	assert.NotContains(t, out, "service_name")
}
