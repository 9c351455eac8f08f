package loader

import (
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

func parseJSON5(data []byte) (any, error) {
	var value any
	if err := json5.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	// The JSON5 decoder reports all numbers as float64.
	return value, nil
}
