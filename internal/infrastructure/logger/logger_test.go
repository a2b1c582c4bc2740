package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_FileOutputWithServiceFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(&Config{
		Level:       "info",
		Format:      "json",
		Output:      path,
		Service:     "clothing-store",
		Environment: "test",
	})
	require.NoError(t, err)

	log.Debug("dropped")
	log.Info("listening")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"listening"`)
	assert.Contains(t, out, `"service":"clothing-store"`)
	assert.Contains(t, out, `"env":"test"`)
	assert.NotContains(t, out, "dropped")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.ErrorContains(t, err, "unknown log level")

	_, err = New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
	assert.ErrorContains(t, err, "open log output")
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	log, err := New(nil)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
