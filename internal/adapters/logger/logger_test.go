package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/logger"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		log  func(*logger.Logger)
		want string
	}{
		{name: "info", log: func(l *logger.Logger) { l.Info("pool ready") }, want: "pool ready\n"},
		{name: "warn", log: func(l *logger.Logger) { l.Warn("proxy rebound") }, want: "! proxy rebound\n"},
		{name: "error", log: func(l *logger.Logger) { l.Error(errors.New("boom")) }, want: "✗ Error: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestFormatError_Chain(t *testing.T) {
	err := zerr.With(zerr.Wrap(domain.ErrNotFound, "race settled without value"), "fanout", 4)
	err = zerr.Wrap(err, "profile lookup failed")

	got := logger.FormatError(err)

	want := "Error: profile lookup failed\n" +
		"\n" +
		"  Caused by:\n" +
		"    → race settled without value (fanout=4)\n" +
		"    → item not found"
	assert.Equal(t, want, got)
}

func TestFormatError_PlainCauseStopsWalk(t *testing.T) {
	err := zerr.Wrap(errors.New("dial tcp: refused"), "register identity")
	got := logger.FormatError(err)
	assert.Equal(t, "Error: register identity\n\n  Caused by:\n    → dial tcp: refused", got)
}

func TestFormatError_MetadataOnlyLayerMerges(t *testing.T) {
	err := zerr.With(errors.New("plain"), "user_id", "u1")
	got := logger.FormatError(err)
	assert.Equal(t, "Error:  (user_id=u1)\n\n  Caused by:\n    → plain", got)
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.With(zerr.Wrap(domain.ErrExhausted, "all attempts failed"), "fanout", 4))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, slog.LevelError.String(), line["level"])
	assert.Equal(t, "all attempts failed: multiple retries failed", line["msg"])
	assert.InDelta(t, 4, line["fanout"], 0)
}

func TestLogger_SetOutputKeepsFormat(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
}
