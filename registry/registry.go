package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
)

// ErrNotFound is returned when a dotted path cannot be resolved to a registered symbol.
var ErrNotFound = errors.New("symbol not found")

// Registry maps dotted paths to Go values so that configuration documents can
// reference streams, constructors and other process-level objects by name.
//
// A lookup does not require the full path to be registered: the registry finds
// a registered prefix of the path and walks the remaining segments over the
// registered value (map keys, exported struct fields, then methods). This lets
// a single registered object expose many addressable members.
type Registry struct {
	mu      sync.RWMutex
	symbols map[string]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		symbols: make(map[string]any),
	}
}

// Default creates a Registry pre-populated with the process standard streams
// and common sink helpers: "os.Stdout", "os.Stderr", "os.Stdin", "io.Discard"
// and "os.Create", plus the short stream aliases "stdout", "stderr" and
// "stdin".
func Default() *Registry {
	r := New()
	r.Register("os.Stdout", os.Stdout)
	r.Register("os.Stderr", os.Stderr)
	r.Register("os.Stdin", os.Stdin)
	r.Register("os.Create", os.Create)
	r.Register("io.Discard", io.Discard)
	r.Register("stdout", os.Stdout)
	r.Register("stderr", os.Stderr)
	r.Register("stdin", os.Stdin)

	return r
}

// Register binds a dotted path to a value, replacing any previous binding.
// Register panics on an empty path.
func (r *Registry) Register(path string, value any) {
	if path == "" {
		panic("registry: Register called with empty path")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.symbols[path] = value
}

// Lookup resolves a dotted path to a value. Prefixes of the path are tried
// shortest first; the first registered prefix whose remaining segments can be
// walked wins. A failed lookup returns an error wrapping ErrNotFound that
// lists every prefix tried, registered or not; when a registered prefix's
// walk failed, the error carries that failure too.
func (r *Registry) Lookup(path string) (any, error) {
	segments := strings.Split(path, ".")

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		tried   []string
		walkErr error
	)

	for i := 1; i <= len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")

		value, ok := r.symbols[prefix]
		if !ok {
			tried = append(tried, prefix)
			continue
		}

		result, err := walk(value, segments[i:])
		if err != nil {
			tried = append(tried, prefix)
			walkErr = fmt.Errorf("symbol %q: %w", prefix, err)
			continue
		}

		return result, nil
	}

	if walkErr != nil {
		return nil, fmt.Errorf("cannot resolve %q (tried %s): %w", path, strings.Join(tried, ", "), walkErr)
	}

	return nil, fmt.Errorf("cannot resolve %q (tried %s): %w", path, strings.Join(tried, ", "), ErrNotFound)
}

func walk(value any, segments []string) (any, error) {
	current := value
	for _, segment := range segments {
		next, err := attribute(current, segment)
		if err != nil {
			return nil, err
		}

		current = next
	}

	return current, nil
}

// attribute looks up one path segment on a value: string-keyed map entries
// first, then methods, then exported struct fields.
func attribute(value any, name string) (any, error) {
	if m, ok := value.(map[string]any); ok {
		if v, ok := m[name]; ok {
			return v, nil
		}

		return nil, fmt.Errorf("attribute %q: %w", name, ErrNotFound)
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil, fmt.Errorf("attribute %q of nil: %w", name, ErrNotFound)
	}

	if method := rv.MethodByName(name); method.IsValid() {
		return method.Interface(), nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("attribute %q of nil pointer: %w", name, ErrNotFound)
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
			if mv.IsValid() {
				return mv.Interface(), nil
			}
		}
	case reflect.Struct:
		field := rv.FieldByName(name)
		if field.IsValid() && field.CanInterface() {
			return field.Interface(), nil
		}
	}

	return nil, fmt.Errorf("attribute %q: %w", name, ErrNotFound)
}
