package resolve

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Reference resolves a dotted reference path against a document root.
//
// The path is split on "." and walked segment by segment. Sequences require
// the segment to be an integer index. Mappings try the segment as a string
// key first, and fall back to an integer key only when the string key is
// absent and the segment is all digits, so string keys win on ambiguity.
// Anything else is treated as a field store and walked by exported struct
// field. A segment no interpretation accepts fails with ErrKeyNotFound.
func Reference(root any, path string) (any, error) {
	current := root

	for _, segment := range strings.Split(path, ".") {
		next, err := step(current, segment)
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", path, err)
		}

		current = next
	}

	return current, nil
}

func step(current any, segment string) (any, error) {
	switch node := current.(type) {
	case map[string]any:
		value, ok := node[segment]
		if !ok {
			return nil, fmt.Errorf("key %q: %w", segment, ErrKeyNotFound)
		}

		return value, nil
	case []any:
		return index(node, segment)
	}

	return stepReflect(current, segment)
}

func index(node []any, segment string) (any, error) {
	i, err := strconv.Atoi(segment)
	if err != nil {
		return nil, fmt.Errorf("index %q against a sequence: %w", segment, ErrKeyNotFound)
	}

	if i < 0 || i >= len(node) {
		return nil, fmt.Errorf("index %d out of range: %w", i, ErrKeyNotFound)
	}

	return node[i], nil
}

func stepReflect(current any, segment string) (any, error) {
	rv := reflect.ValueOf(current)

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("key %q of nil pointer: %w", segment, ErrKeyNotFound)
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(segment)
		if err != nil {
			return nil, fmt.Errorf("index %q against a sequence: %w", segment, ErrKeyNotFound)
		}

		if i < 0 || i >= rv.Len() {
			return nil, fmt.Errorf("index %d out of range: %w", i, ErrKeyNotFound)
		}

		return rv.Index(i).Interface(), nil
	case reflect.Map:
		return mapLookup(rv, segment)
	case reflect.Struct:
		field := rv.FieldByName(segment)
		if field.IsValid() && field.CanInterface() {
			return field.Interface(), nil
		}
	}

	return nil, fmt.Errorf("key %q: %w", segment, ErrKeyNotFound)
}

// mapLookup tries the segment as a string key, then as an integer key when
// the segment is all digits.
func mapLookup(rv reflect.Value, segment string) (any, error) {
	keyType := rv.Type().Key()

	stringKey := reflect.ValueOf(segment)
	if stringKey.Type().AssignableTo(keyType) || keyType.Kind() == reflect.String {
		value := rv.MapIndex(stringKey.Convert(keyType))
		if value.IsValid() {
			return value.Interface(), nil
		}
	}

	if isDigits(segment) {
		n, err := strconv.Atoi(segment)
		if err == nil {
			for _, key := range integerKeys(n, keyType) {
				value := rv.MapIndex(key)
				if value.IsValid() {
					return value.Interface(), nil
				}
			}
		}
	}

	return nil, fmt.Errorf("key %q: %w", segment, ErrKeyNotFound)
}

// integerKeys lists the candidate keys for an integer segment: for interface
// keys the common literal widths, for integer keys the converted value.
func integerKeys(n int, keyType reflect.Type) []reflect.Value {
	switch keyType.Kind() {
	case reflect.Interface:
		return []reflect.Value{
			reflect.ValueOf(n),
			reflect.ValueOf(int64(n)),
			reflect.ValueOf(uint64(n)),
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []reflect.Value{reflect.ValueOf(n).Convert(keyType)}
	default:
		return nil
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
