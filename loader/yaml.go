package loader

import (
	"math"

	"github.com/goccy/go-yaml"
)

func parseYAML(data []byte) (any, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	return normalizeYAML(value), nil
}

// normalizeYAML rewrites the uint64 values the decoder produces for
// non-negative integers into int64, keeping integer types uniform across
// formats.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}

		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeYAML(item)
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
