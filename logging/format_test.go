package logging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *Record {
	return &Record{
		Time:    time.Date(2026, 3, 14, 9, 26, 53, 589e6, time.UTC),
		Level:   Level{Name: "NOTICE", No: 2, Icon: "*"},
		Message: "pi day",
		Module:  "app/math",
		Extra:   map[string]any{"attempt": 3, "user": "ada"},
	}
}

func TestFormatter_Tokens(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		format string
		want   string
	}{
		{name: "default format", format: DefaultFormat, want: "2026-03-14 09:26:53.589 | NOTICE | pi day"},
		{name: "custom time layout", format: "{time:15:04:05}", want: "09:26:53"},
		{name: "level number and icon", format: "{level.no} {level.icon}", want: "2 *"},
		{name: "module", format: "[{module}] {message}", want: "[app/math] pi day"},
		{name: "extra value", format: "attempt {extra.attempt} by {extra.user}", want: "attempt 3 by ada"},
		{name: "missing extra renders empty", format: "<{extra.absent}>", want: "<>"},
		{name: "braces escaped", format: "{{level}} is {level}", want: "{level} is NOTICE"},
		{name: "unknown token kept verbatim", format: "{name} {message}", want: "{name} pi day"},
		{name: "stray braces kept", format: "} {message} {", want: "} pi day {"},
		{name: "empty braces kept", format: "a{}b", want: "a{}b"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := compileFormat(testCase.format).render(sampleRecord())

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestFormatter_NilExtraValueRendersEmpty(t *testing.T) {
	t.Parallel()

	record := sampleRecord()
	record.Extra["absent"] = nil

	got := compileFormat("<{extra.absent}>").render(record)

	assert.Equal(t, "<>", got)
}

func TestSerializeRecord(t *testing.T) {
	t.Parallel()

	out, err := serializeRecord(sampleRecord())
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out, &entry))

	assert.Equal(t, "NOTICE", entry["level"])
	assert.Equal(t, float64(2), entry["no"])
	assert.Equal(t, "pi day", entry["message"])
	assert.Equal(t, "app/math", entry["module"])
	assert.Equal(t, map[string]any{"attempt": float64(3), "user": "ada"}, entry["extra"])
}

func TestSerializeRecord_UnencodableExtraFallsBack(t *testing.T) {
	t.Parallel()

	record := sampleRecord()
	record.Extra = map[string]any{"z": complex(1, 2), "user": "ada"}

	out, err := serializeRecord(record)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out, &entry))

	extra, ok := entry["extra"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "(1+2i)", extra["z"])
	assert.Equal(t, "ada", extra["user"])
}

func TestSerializeRecord_EmptyExtraOmitted(t *testing.T) {
	t.Parallel()

	record := sampleRecord()
	record.Extra = map[string]any{}
	record.Module = ""

	out, err := serializeRecord(record)
	require.NoError(t, err)

	assert.NotContains(t, string(out), `"extra"`)
	assert.NotContains(t, string(out), `"module"`)
}
