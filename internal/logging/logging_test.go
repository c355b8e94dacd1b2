package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" warn ", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: LevelWarn, Output: &buf})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "k=v")
}

func TestLogger_JSONWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: LevelDebug, Format: "json", Output: &buf})

	log.WithOperation("read").WithPath("a.txt").Debug("chunk", "bytes", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "chunk", record["msg"])
	assert.Equal(t, "read", record["op"])
	assert.Equal(t, "a.txt", record["path"])
	assert.EqualValues(t, 3, record["bytes"])
}

func TestLogger_NilAndNop(t *testing.T) {
	var nilLogger *Logger
	require.NotPanics(t, func() {
		nilLogger.Info("x")
		nilLogger.With("k", "v").Error("y")
		NewNopLogger().WithPath("p").Debug("z")
	})
}

func TestFromSlog(t *testing.T) {
	var buf bytes.Buffer
	log := FromSlog(slog.New(slog.NewTextHandler(&buf, nil)))
	log.Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotNil(t, log.Slog())

	var nilLogger *Logger
	assert.Nil(t, nilLogger.Slog())
	assert.Nil(t, NewNopLogger().Slog())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "error", LevelError.String())
}
