package loader

import (
	"github.com/BurntSushi/toml"
)

func parseTOML(data []byte) (any, error) {
	var value map[string]any
	if err := toml.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	return value, nil
}
