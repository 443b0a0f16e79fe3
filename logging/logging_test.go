// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(WithOutput(&buf))

	logger.Debug("filtered")
	assert.Empty(t, buf.String(), "DEBUG is below the default level")

	logger.Info("lookup finished", "pid", 4242)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "lookup finished", entry["msg"])
	assert.InDelta(t, 4242, entry["pid"], 0)

	ts, ok := entry["time"].(string)
	require.True(t, ok, "time field should be a string")
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err, "timestamp %q should be valid RFC3339", ts)
}

// TestNew_FromSettings builds loggers the way configuration does: from level
// and format names.
func TestNew_FromSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		level       string
		format      string
		logAt       slog.Level
		wantWritten bool
		wantParts   []string
	}{
		{
			name:        "json info writes info",
			level:       "info",
			format:      "json",
			logAt:       slog.LevelInfo,
			wantWritten: true,
			wantParts:   []string{`"level":"INFO"`, `"msg":"event"`},
		},
		{
			name:        "text debug writes debug",
			level:       "DEBUG",
			format:      "text",
			logAt:       slog.LevelDebug,
			wantWritten: true,
			wantParts:   []string{"level=DEBUG", "msg=event"},
		},
		{
			name:   "defaults filter debug",
			logAt:  slog.LevelDebug,
			format: "",
		},
		{
			name:   "warn filters info",
			level:  "warn",
			format: "text",
			logAt:  slog.LevelInfo,
		},
		{
			name:        "offset level writes at its threshold",
			level:       "info+2",
			format:      "Text",
			logAt:       slog.LevelInfo + 2,
			wantWritten: true,
			wantParts:   []string{"level=INFO+2"},
		},
		{
			name:   "error filters warn",
			level:  " error ",
			format: "json",
			logAt:  slog.LevelWarn,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(tc.level)
			require.NoError(t, err)
			format, err := ParseFormat(tc.format)
			require.NoError(t, err)

			var buf bytes.Buffer
			New(WithLevel(level), WithFormat(format), WithOutput(&buf)).
				Log(context.Background(), tc.logAt, "event")

			if !tc.wantWritten {
				assert.Empty(t, buf.String())
				return
			}
			for _, part := range tc.wantParts {
				assert.Contains(t, buf.String(), part)
			}
		})
	}
}

func TestNew_DynamicLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)

	logger := New(WithLevel(&lvl), WithOutput(&buf))

	logger.Info("should not appear")
	assert.Empty(t, buf.String(), "INFO should be filtered at WARN level")

	lvl.Set(slog.LevelInfo)
	logger.Info("should appear")
	assert.NotEmpty(t, buf.String(), "INFO should be written after level change")
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		check  func(t *testing.T, output string)
	}{
		{
			name:   "json",
			format: FormatJSON,
			check: func(t *testing.T, output string) {
				t.Helper()
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(output), &entry))
				assert.Equal(t, "server", entry["component"])
				assert.Equal(t, map[string]any{"status": "found"}, entry["lookup"])
				ts, ok := entry["time"].(string)
				require.True(t, ok)
				_, err := time.Parse(time.RFC3339, ts)
				assert.NoError(t, err)
			},
		},
		{
			name:   "text",
			format: FormatText,
			check: func(t *testing.T, output string) {
				t.Helper()
				assert.Contains(t, output, "component=server")
				assert.Contains(t, output, "lookup.status=found")

				ts, _, ok := strings.Cut(strings.TrimPrefix(output, "time="), " ")
				require.True(t, ok)
				_, err := time.Parse(time.RFC3339, ts)
				assert.NoError(t, err, "timestamp %q should be valid RFC3339", ts)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			h := NewHandler(WithFormat(tc.format), WithLevel(slog.LevelWarn), WithOutput(&buf))

			ctx := context.Background()
			assert.False(t, h.Enabled(ctx, slog.LevelInfo))
			assert.True(t, h.Enabled(ctx, slog.LevelWarn))

			wrapped := h.WithAttrs([]slog.Attr{slog.String("component", "server")}).WithGroup("lookup")
			slog.New(wrapped).Warn("request failed", "status", "found")

			tc.check(t, buf.String())
		})
	}
}

func TestNewHandler_MatchesNew(t *testing.T) {
	t.Parallel()

	var fromNew, fromHandler bytes.Buffer
	New(WithOutput(&fromNew)).Info("same message", "key", "value")
	slog.New(NewHandler(WithOutput(&fromHandler))).Info("same message", "key", "value")

	var entry1, entry2 map[string]any
	require.NoError(t, json.Unmarshal(fromNew.Bytes(), &entry1))
	require.NoError(t, json.Unmarshal(fromHandler.Bytes(), &entry2))
	delete(entry1, "time")
	delete(entry2, "time")
	assert.Equal(t, entry1, entry2)
}

func TestReplaceAttr(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 17, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		attr slog.Attr
		want slog.Attr
	}{
		{
			name: "time attribute is RFC3339",
			attr: slog.Time(slog.TimeKey, now),
			want: slog.String(slog.TimeKey, "2026-02-17T10:30:00Z"),
		},
		{
			name: "time key with a non-time value is unchanged",
			attr: slog.String(slog.TimeKey, "yesterday"),
			want: slog.String(slog.TimeKey, "yesterday"),
		},
		{
			name: "other attributes are unchanged",
			attr: slog.String("key", "value"),
			want: slog.String("key", "value"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := replaceAttr(nil, tc.attr)
			assert.Equal(t, tc.want.Key, got.Key)
			assert.Equal(t, tc.want.Value.String(), got.Value.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "   ", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "Error", want: slog.LevelError},
		{in: "debug+2", want: slog.LevelDebug + 2},
		{in: "warn-4", want: slog.LevelInfo},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
		{in: "4", want: slog.LevelInfo, wantErr: true},
		{in: "info+", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.in)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "  ", want: FormatJSON},
		{in: "json", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "Text", want: FormatText},
		{in: " text ", want: FormatText},
		{in: "logfmt", want: FormatJSON, wantErr: true},
		{in: "yaml", want: FormatJSON, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidFormat)
				assert.Contains(t, err.Error(), tc.in)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormat_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{format: FormatJSON, want: "json"},
		{format: FormatText, want: "text"},
		{format: Format(7), want: "Format(7)"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.format.String())

			if tc.format == FormatJSON || tc.format == FormatText {
				parsed, err := ParseFormat(tc.format.String())
				require.NoError(t, err)
				assert.Equal(t, tc.format, parsed)
			}
		})
	}
}
