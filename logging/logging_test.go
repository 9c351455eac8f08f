package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0xalexb/lykta/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, handler map[string]any, cfg logging.Config) (*slog.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	handler["sink"] = &buf
	cfg.Handlers = []map[string]any{handler}

	logger, err := logging.New(cfg)
	require.NoError(t, err)

	return logger, &buf
}

func TestNew_DefaultHandler(t *testing.T) {
	t.Parallel()

	logger, err := logging.New(logging.Config{})

	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNew_EmptyHandlersIsSilent(t *testing.T) {
	t.Parallel()

	logger, err := logging.New(logging.Config{Handlers: []map[string]any{}})

	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestNew_DefaultFormat(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger(t, map[string]any{}, logging.Config{})

	logger.Info("service started")

	line := buf.String()
	assert.Contains(t, line, " | INFO | service started\n")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} \| `, line)
}

func TestNew_HandlerLevels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		level any
		logAt slog.Level
		want  string
	}{
		{name: "default level logs debug", level: nil, logAt: slog.LevelDebug, want: "DEBUG|probe\n"},
		{name: "info blocks debug", level: "INFO", logAt: slog.LevelDebug, want: ""},
		{name: "info logs info", level: "INFO", logAt: slog.LevelInfo, want: "INFO|probe\n"},
		{name: "error blocks warn", level: "ERROR", logAt: slog.LevelWarn, want: ""},
		{name: "warning name accepted", level: "WARNING", logAt: slog.LevelWarn, want: "WARNING|probe\n"},
		{name: "warn alias accepted", level: "WARN", logAt: slog.LevelWarn, want: "WARNING|probe\n"},
		{name: "lowercase name accepted", level: "error", logAt: slog.LevelError, want: "ERROR|probe\n"},
		{name: "numeric level", level: 4, logAt: slog.LevelInfo, want: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			handler := map[string]any{"format": "{level}|{message}"}
			if testCase.level != nil {
				handler["level"] = testCase.level
			}

			logger, buf := newBufferLogger(t, handler, logging.Config{})

			logger.Log(context.Background(), testCase.logAt, "probe")

			assert.Equal(t, testCase.want, buf.String())
		})
	}
}

func TestNew_UnknownLevelName(t *testing.T) {
	t.Parallel()

	_, err := logging.New(logging.Config{
		Handlers: []map[string]any{{"sink": os.Stdout, "level": "BLARG"}},
	})

	require.ErrorIs(t, err, logging.ErrUnknownLevel)
	assert.Contains(t, err.Error(), "BLARG")
}

func TestNew_CustomLevel(t *testing.T) {
	t.Parallel()

	handler := map[string]any{
		"level":  "NOTICE",
		"format": "{level} {level.no} {level.icon} {message}",
	}
	cfg := logging.Config{
		Levels: []logging.Level{{Name: "NOTICE", No: 2, Icon: "*"}},
	}

	logger, buf := newBufferLogger(t, handler, cfg)

	logger.Log(context.Background(), slog.Level(2), "custom")
	logger.Info("below notice")

	assert.Equal(t, "NOTICE 2 * custom\n", buf.String())
}

func TestNew_CustomLevelWithoutName(t *testing.T) {
	t.Parallel()

	_, err := logging.New(logging.Config{Levels: []logging.Level{{No: 3}}})

	require.ErrorIs(t, err, logging.ErrBadLevel)
}

func TestNew_UnknownHandlerKeyRejected(t *testing.T) {
	t.Parallel()

	_, err := logging.New(logging.Config{
		Handlers: []map[string]any{{"sink": os.Stdout, "enqueue": true}},
	})

	require.ErrorIs(t, err, logging.ErrBadHandler)
	assert.Contains(t, err.Error(), "enqueue")
}

func TestNew_HandlerSinkErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		handler map[string]any
	}{
		{name: "missing sink", handler: map[string]any{"level": "INFO"}},
		{name: "sink is not a writer", handler: map[string]any{"sink": 42}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := logging.New(logging.Config{Handlers: []map[string]any{testCase.handler}})

			require.ErrorIs(t, err, logging.ErrBadHandler)
		})
	}
}

func TestNew_FileSinkAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")

	for _, message := range []string{"first", "second"} {
		logger, err := logging.New(logging.Config{
			Handlers: []map[string]any{{"sink": path, "format": "{message}"}},
		})
		require.NoError(t, err)

		logger.Info(message)
	}

	content, err := os.ReadFile(path) // #nosec G304 -- test-owned temp path
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestNew_FuncSink(t *testing.T) {
	t.Parallel()

	var lines []string
	collect := func(line string) { lines = append(lines, line) }

	logger, err := logging.New(logging.Config{
		Handlers: []map[string]any{{"sink": collect, "format": "{message}"}},
	})
	require.NoError(t, err)

	logger.Info("captured")

	require.Len(t, lines, 1)
	assert.Equal(t, "captured\n", lines[0])
}

func TestNew_SerializedOutput(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger(t, map[string]any{"serialize": true}, logging.Config{})

	logger.Info("test message", slog.String("key", "value"))

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test message", entry["message"])
	assert.Contains(t, entry["module"], "logging")

	extra, ok := entry["extra"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "value", extra["key"])
}

func TestNew_ExtraSeedsEveryRecord(t *testing.T) {
	t.Parallel()

	handler := map[string]any{"format": "{message} app={extra.app}"}
	cfg := logging.Config{Extra: map[string]any{"app": "orders"}}

	logger, buf := newBufferLogger(t, handler, cfg)

	logger.Info("hi")

	assert.Equal(t, "hi app=orders\n", buf.String())
}

func TestNew_AttrsOverrideExtra(t *testing.T) {
	t.Parallel()

	handler := map[string]any{"format": "{extra.app}"}
	cfg := logging.Config{Extra: map[string]any{"app": "orders"}}

	logger, buf := newBufferLogger(t, handler, cfg)

	logger.Info("hi", slog.String("app", "billing"))

	assert.Equal(t, "billing\n", buf.String())
}

func TestNew_PatcherAdjustsRecords(t *testing.T) {
	t.Parallel()

	handler := map[string]any{"format": "{message} tag={extra.tag}"}
	cfg := logging.Config{
		Patcher: func(r *logging.Record) {
			r.Message = strings.ToUpper(r.Message)
			r.Extra["tag"] = "patched"
		},
	}

	logger, buf := newBufferLogger(t, handler, cfg)

	logger.Info("quiet")

	assert.Equal(t, "QUIET tag=patched\n", buf.String())
}

func TestNew_ActivationDisablesModules(t *testing.T) {
	t.Parallel()

	handler := map[string]any{"format": "{message}"}
	cfg := logging.Config{
		Activation: []logging.Activation{{Name: "github.com/0xalexb/lykta", Enabled: false}},
	}

	logger, buf := newBufferLogger(t, handler, cfg)

	logger.Info("dropped")

	assert.Empty(t, buf.String())
}

func TestNew_ActivationLongestPrefixWins(t *testing.T) {
	t.Parallel()

	handler := map[string]any{"format": "{message}"}
	cfg := logging.Config{
		Activation: []logging.Activation{
			{Name: "", Enabled: false},
			{Name: "github.com/0xalexb/lykta", Enabled: true},
		},
	}

	logger, buf := newBufferLogger(t, handler, cfg)

	logger.Info("kept")

	assert.Equal(t, "kept\n", buf.String())
}

func TestNew_FilterLimitsOneSink(t *testing.T) {
	t.Parallel()

	var matching, foreign bytes.Buffer

	logger, err := logging.New(logging.Config{
		Handlers: []map[string]any{
			{"sink": &matching, "format": "{message}", "filter": "github.com/0xalexb/lykta"},
			{"sink": &foreign, "format": "{message}", "filter": "github.com/other/app"},
		},
	})
	require.NoError(t, err)

	logger.Info("routed")

	assert.Equal(t, "routed\n", matching.String())
	assert.Empty(t, foreign.String())
}

func TestNew_GroupsPrefixAttrKeys(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger(t, map[string]any{"serialize": true}, logging.Config{})

	logger.With(slog.String("request", "r1")).
		WithGroup("db").
		Info("query", slog.String("table", "users"))

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	extra, ok := entry["extra"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "r1", extra["request"])
	assert.Equal(t, "users", extra["db.table"])
}
