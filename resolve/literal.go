package resolve

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Literal evaluates the text of a literal:// reference.
//
// The tokens "stderr" and "stdout" evaluate to the process standard streams,
// and "None"/"nil" to an untyped nil. Everything else is parsed as a YAML
// scalar or flow collection, which covers booleans, integers, floats, quoted
// strings and JSON-style lists and mappings without executing anything. A
// parenthesized top-level tuple is accepted as sequence syntax. Malformed
// collection syntax fails with ErrBadLiteral.
func Literal(text string) (any, error) {
	switch text {
	case "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "None", "nil":
		return nil, nil
	}

	source := strings.TrimSpace(text)
	if source == "" {
		return nil, fmt.Errorf("empty literal: %w", ErrBadLiteral)
	}

	if strings.HasPrefix(source, "(") && strings.HasSuffix(source, ")") {
		source = "[" + source[1:len(source)-1] + "]"
	}

	var value any
	if err := yaml.Unmarshal([]byte(source), &value); err != nil {
		return nil, fmt.Errorf("literal %q: %w: %v", text, ErrBadLiteral, err)
	}

	return normalizeIntegers(value), nil
}

// normalizeIntegers rewrites the unsigned integers the YAML decoder produces
// for non-negative numbers into int64, so literals carry one integer type.
func normalizeIntegers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeIntegers(item)
		}

		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeIntegers(item)
		}

		return v
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}

		return v
	default:
		return value
	}
}
