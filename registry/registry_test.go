package registry_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/0xalexb/lykta/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endpoint struct {
	Host string
	Port int
}

func (e endpoint) Addr() string {
	return e.Host
}

func TestRegistry_Lookup_Direct(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("app.name", "lykta")

	value, err := reg.Lookup("app.name")

	require.NoError(t, err)
	assert.Equal(t, "lykta", value)
}

func TestRegistry_Lookup_Defaults(t *testing.T) {
	t.Parallel()

	reg := registry.Default()

	testCases := []struct {
		name string
		path string
		want any
	}{
		{name: "stdout", path: "os.Stdout", want: os.Stdout},
		{name: "stderr", path: "os.Stderr", want: os.Stderr},
		{name: "stdin", path: "os.Stdin", want: os.Stdin},
		{name: "stdout alias", path: "stdout", want: os.Stdout},
		{name: "stderr alias", path: "stderr", want: os.Stderr},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			value, err := reg.Lookup(testCase.path)

			require.NoError(t, err)
			assert.Same(t, testCase.want, value)
		})
	}
}

func TestRegistry_Lookup_WalksMaps(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("app", map[string]any{
		"sinks": map[string]any{
			"audit": "audit.log",
		},
	})

	value, err := reg.Lookup("app.sinks.audit")

	require.NoError(t, err)
	assert.Equal(t, "audit.log", value)
}

func TestRegistry_Lookup_WalksStructFields(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("endpoint", &endpoint{Host: "localhost", Port: 8080})

	host, err := reg.Lookup("endpoint.Host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)

	port, err := reg.Lookup("endpoint.Port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)
}

func TestRegistry_Lookup_WalksMethods(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("buf", &bytes.Buffer{})

	value, err := reg.Lookup("buf.Write")

	require.NoError(t, err)
	require.IsType(t, (func([]byte) (int, error))(nil), value)
}

func TestRegistry_Lookup_ShortestPrefixWins(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("app", map[string]any{"port": 1})
	reg.Register("app.port", 2)

	value, err := reg.Lookup("app.port")

	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestRegistry_Lookup_FallsBackToLongerPrefix(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("app", map[string]any{"name": "lykta"})
	reg.Register("app.port", 2)

	value, err := reg.Lookup("app.port")

	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestRegistry_Lookup_NotFound(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	_, err := reg.Lookup("missing.symbol")

	require.Error(t, err)
	require.ErrorIs(t, err, registry.ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), "missing.symbol")
}

func TestRegistry_Lookup_MissingAttribute(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("endpoint", endpoint{Host: "localhost"})

	_, err := reg.Lookup("endpoint.Scheme")

	require.Error(t, err)
	require.ErrorIs(t, err, registry.ErrNotFound)
	assert.Contains(t, err.Error(), "Scheme")
}

func TestRegistry_Lookup_ListsEveryTriedPrefix(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("app", map[string]any{"name": "lykta"})
	reg.Register("app.db", map[string]any{"host": "localhost"})

	_, err := reg.Lookup("app.db.missing")

	require.Error(t, err)
	require.ErrorIs(t, err, registry.ErrNotFound)
	assert.Contains(t, err.Error(), "tried app, app.db")
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistry_Register_Replaces(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Register("app.name", "old")
	reg.Register("app.name", "new")

	value, err := reg.Lookup("app.name")

	require.NoError(t, err)
	assert.Equal(t, "new", value)
}

func TestRegistry_Register_EmptyPathPanics(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	require.Panics(t, func() {
		reg.Register("", 1)
	})
}
