package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleOf(t *testing.T) {
	t.Parallel()

	pc, _, _, ok := runtime.Caller(0)
	require.True(t, ok)

	assert.Equal(t, "github.com/0xalexb/lykta/logging", moduleOf(pc))
	assert.Equal(t, "", moduleOf(0))
}

func TestModuleMatches(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		prefix string
		module string
		want   bool
	}{
		{name: "empty prefix matches everything", prefix: "", module: "app/db", want: true},
		{name: "exact match", prefix: "app/db", module: "app/db", want: true},
		{name: "path child", prefix: "app", module: "app/db", want: true},
		{name: "dotted child", prefix: "app/db", module: "app/db.Pool", want: true},
		{name: "sibling with shared text", prefix: "app/db", module: "app/dbx", want: false},
		{name: "unrelated", prefix: "app", module: "lib/db", want: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, moduleMatches(testCase.prefix, testCase.module))
		})
	}
}

func TestEnabledFor(t *testing.T) {
	t.Parallel()

	activation := []Activation{
		{Name: "", Enabled: true},
		{Name: "app", Enabled: false},
		{Name: "app/db", Enabled: true},
	}

	testCases := []struct {
		name    string
		entries []Activation
		module  string
		want    bool
	}{
		{name: "no entries leave enabled", entries: nil, module: "anything", want: true},
		{name: "longest prefix wins", entries: activation, module: "app/db/pool", want: true},
		{name: "shorter prefix disables sibling", entries: activation, module: "app/http", want: false},
		{name: "root entry catches the rest", entries: activation, module: "lib/util", want: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, enabledFor(testCase.entries, testCase.module))
		})
	}
}

func TestEnabledFor_LaterEntryWinsTies(t *testing.T) {
	t.Parallel()

	activation := []Activation{
		{Name: "app", Enabled: false},
		{Name: "app", Enabled: true},
	}

	assert.True(t, enabledFor(activation, "app/db"))
}

func TestOpenSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	out, err := openSink(&buf)
	require.NoError(t, err)
	assert.Equal(t, &buf, out)

	_, err = openSink(nil)
	require.ErrorIs(t, err, ErrBadHandler)

	_, err = openSink(42)
	require.ErrorIs(t, err, ErrBadHandler)
}

func TestOpenSink_Path(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sink.log")

	out, err := openSink(path)
	require.NoError(t, err)

	_, err = out.Write([]byte("line\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path) // #nosec G304 -- test-owned temp path
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(content))
}

func TestFuncWriter(t *testing.T) {
	t.Parallel()

	var got string

	w := funcWriter(func(line string) { got = line })

	n, err := w.Write([]byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", got)
}
