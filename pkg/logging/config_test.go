package logging

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestParseTimeFormat(t *testing.T) {
	assert.Equal(t, time.Kitchen, parseTimeFormat("kitchen"))
	assert.Equal(t, time.RFC3339, parseTimeFormat("rfc3339"))
	assert.Equal(t, "", parseTimeFormat("unix"))
	assert.Equal(t, "2006-01-02", parseTimeFormat("2006-01-02"))
	assert.Equal(t, time.RFC3339, parseTimeFormat("whatever"))
}

func TestParseFields(t *testing.T) {
	fields := parseFields("env=prod, host = worker1,broken")
	assert.Equal(t, map[string]any{"env": "prod", "host": "worker1"}, fields)
	assert.Empty(t, parseFields(""))
}

func TestGetWriter(t *testing.T) {
	t.Run("discard stays json", func(t *testing.T) {
		w := getWriter(&Config{Output: "discard", Format: "auto"})
		assert.Equal(t, io.Discard, w)
	})

	t.Run("console format wraps output", func(t *testing.T) {
		w := getWriter(&Config{Output: "stdout", Format: "console"})
		_, ok := w.(zerolog.ConsoleWriter)
		assert.True(t, ok)
	})

	t.Run("file output", func(t *testing.T) {
		path := t.TempDir() + "/run.log"
		w := getWriter(&Config{Output: path, Format: "json"})
		f, ok := w.(*os.File)
		if assert.True(t, ok) {
			_ = f.Close()
		}
	})
}

func TestNewLoggerFromConfigDefaultFields(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	logger := NewLoggerFromConfig(&Config{
		Level:  "info",
		Format: "json",
		Output: "discard",
		Fields: map[string]any{"app": "stocksync"},
	})

	buf := &bytes.Buffer{}
	logger = logger.Output(buf)
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"app":"stocksync"`)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
