package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

func parseJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	// json.Decoder stops at the end of the first value; trailing content
	// means the data was not a JSON document after all.
	if err := decoder.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON document")
	}

	return convertNumbers(value), nil
}

// convertNumbers rewrites json.Number values into int64 where the number is
// integral and float64 otherwise, matching the types the other formats
// produce.
func convertNumbers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = convertNumbers(item)
		}

		return v
	case []any:
		for i, item := range v {
			v[i] = convertNumbers(item)
		}

		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}

		if f, err := v.Float64(); err == nil {
			return f
		}

		return v.String()
	default:
		return value
	}
}
