package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"go.uber.org/multierr"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrNoLoader is returned when no supported format could parse the data.
// The returned error aggregates every format's individual failure.
var ErrNoLoader = errors.New("no supported format could parse the data")

// ErrNotDocument is a per-format failure recorded when the format parsed the
// data but produced a scalar instead of a mapping or sequence.
var ErrNotDocument = errors.New("parsed to a scalar, not a document")

// ErrPathIsDirectory is returned when the path passed to Load points to a
// directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

type format struct {
	name  string
	parse func([]byte) (any, error)
}

// formats is the fallback chain. Order matters: the first format that both
// parses the data and yields a document wins.
var formats = []format{
	{name: "json", parse: parseJSON},
	{name: "yaml", parse: parseYAML},
	{name: "json5", parse: parseJSON5},
	{name: "toml", parse: parseTOML},
}

// Parse decodes configuration data, trying JSON, YAML, JSON5 and TOML in that
// fixed order against the same bytes. A format succeeds only when it parses
// the data into a mapping or a sequence; a format that reads the whole input
// as one scalar is treated as failing, so that later formats still get their
// turn. When every format fails, the error wraps ErrNoLoader and reports each
// format's failure.
func Parse(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyData
	}

	var failures error

	for _, f := range formats {
		value, err := f.parse(data)
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("%s: %w", f.name, err))
			continue
		}

		if !isDocument(value) {
			failures = multierr.Append(failures, fmt.Errorf("%s: %w", f.name, ErrNotDocument))
			continue
		}

		return value, nil
	}

	return nil, multierr.Append(fmt.Errorf("parsing data: %w", ErrNoLoader), failures)
}

// Load reads the file at path and parses it with Parse.
func Load(path string) (any, error) {
	cleanPath := filepath.Clean(path)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
	}

	value, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", cleanPath, err)
	}

	return value, nil
}

func isDocument(value any) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
