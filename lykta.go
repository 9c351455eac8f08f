package lykta

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/0xalexb/lykta/loader"
	"github.com/0xalexb/lykta/logging"

	"github.com/go-viper/mapstructure/v2"
)

var (
	// ErrNotMapping is returned when a configuration document is not a
	// mapping at the top level.
	ErrNotMapping = errors.New("configuration is not a mapping")

	// ErrUnknownKey is returned when a document carries top-level keys
	// outside the recognized set.
	ErrUnknownKey = errors.New("unrecognized configuration key")

	// ErrBadSection is returned when a recognized section does not have the
	// shape the schema requires.
	ErrBadSection = errors.New("invalid configuration section")
)

// sectionNames are the recognized top-level keys.
var sectionNames = map[string]struct{}{
	"handlers":   {},
	"levels":     {},
	"extra":      {},
	"patcher":    {},
	"activation": {},
}

// Config is a loaded and fully resolved logging configuration. Its fields
// mirror the five recognized document sections.
type Config struct {
	Handlers   []map[string]any
	Levels     []logging.Level
	Extra      map[string]any
	Patcher    logging.Patcher
	Activation []logging.Activation
}

// Load reads the configuration document at path, resolves every section and
// decodes the result. The document may be JSON, YAML, JSON5 or TOML.
func Load(path string, opts ...Option) (*Config, error) {
	doc, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	mapping, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q holds %T: %w", path, doc, ErrNotMapping)
	}

	return FromMap(mapping, opts...)
}

// FromMap resolves and decodes an in-memory configuration document. The
// document is never modified.
//
// Unknown top-level keys are rejected before any resolution happens. Each
// recognized section is then resolved independently with the whole document
// as the reference root, so cfg:// paths reach across sections regardless of
// the order sections are processed in. Sections set to null are ignored.
func FromMap(doc map[string]any, opts ...Option) (*Config, error) {
	if err := checkKeys(doc); err != nil {
		return nil, err
	}

	options := newOptions(opts)
	resolver := options.resolver()

	cfg := &Config{}

	for name, value := range doc {
		if value == nil {
			continue
		}

		resolved, err := resolver.ResolveWithin(doc, value)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}

		if err := cfg.setSection(name, resolved); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Logger builds the configured *slog.Logger.
func (c *Config) Logger() (*slog.Logger, error) {
	return logging.New(logging.Config{
		Handlers:   c.Handlers,
		Levels:     c.Levels,
		Extra:      c.Extra,
		Patcher:    c.Patcher,
		Activation: c.Activation,
	})
}

// Configure loads the document at path, builds its logger and installs it as
// the process default. It returns the installed logger.
func Configure(path string, opts ...Option) (*slog.Logger, error) {
	cfg, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)

	return logger, nil
}

func checkKeys(doc map[string]any) error {
	var unknown []string

	for key := range doc {
		if _, ok := sectionNames[key]; !ok {
			unknown = append(unknown, key)
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)

	return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(unknown, ", "))
}

func (c *Config) setSection(name string, resolved any) error {
	var err error

	switch name {
	case "handlers":
		c.Handlers, err = decodeHandlers(resolved)
	case "levels":
		c.Levels, err = decodeLevels(resolved)
	case "extra":
		c.Extra, err = decodeExtra(resolved)
	case "patcher":
		c.Patcher, err = decodePatcher(resolved)
	case "activation":
		c.Activation, err = decodeActivation(resolved)
	}

	if err != nil {
		return fmt.Errorf("section %q: %w", name, err)
	}

	return nil
}

func decodeHandlers(resolved any) ([]map[string]any, error) {
	items, ok := resolved.([]any)
	if !ok {
		if direct, ok := resolved.([]map[string]any); ok {
			return direct, nil
		}

		return nil, fmt.Errorf("%w: expected a sequence of mappings, got %T", ErrBadSection, resolved)
	}

	handlers := make([]map[string]any, 0, len(items))

	for i, item := range items {
		handler, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: handler %d is %T, not a mapping", ErrBadSection, i, item)
		}

		handlers = append(handlers, handler)
	}

	return handlers, nil
}

func decodeLevels(resolved any) ([]logging.Level, error) {
	items, ok := resolved.([]any)
	if !ok {
		if direct, ok := resolved.([]logging.Level); ok {
			return direct, nil
		}

		return nil, fmt.Errorf("%w: expected a sequence of level definitions, got %T", ErrBadSection, resolved)
	}

	levels := make([]logging.Level, 0, len(items))

	for i, item := range items {
		if level, ok := item.(logging.Level); ok {
			levels = append(levels, level)
			continue
		}

		var level logging.Level

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &level,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}

		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("%w: level %d: %v", ErrBadSection, i, err)
		}

		levels = append(levels, level)
	}

	return levels, nil
}

func decodeExtra(resolved any) (map[string]any, error) {
	extra, ok := resolved.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a mapping, got %T", ErrBadSection, resolved)
	}

	return extra, nil
}

func decodePatcher(resolved any) (logging.Patcher, error) {
	switch p := resolved.(type) {
	case logging.Patcher:
		return p, nil
	case func(*logging.Record):
		return p, nil
	default:
		return nil, fmt.Errorf("%w: patcher is %T, not a func(*logging.Record)", ErrBadSection, resolved)
	}
}

func decodeActivation(resolved any) ([]logging.Activation, error) {
	items, ok := resolved.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a sequence of [name, enabled] pairs, got %T", ErrBadSection, resolved)
	}

	activation := make([]logging.Activation, 0, len(items))

	for i, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: activation %d is not a [name, enabled] pair", ErrBadSection, i)
		}

		entry := logging.Activation{}

		switch name := pair[0].(type) {
		case nil:
		case string:
			entry.Name = name
		default:
			return nil, fmt.Errorf("%w: activation %d name is %T, not a string or null", ErrBadSection, i, pair[0])
		}

		enabled, ok := pair[1].(bool)
		if !ok {
			return nil, fmt.Errorf("%w: activation %d flag is %T, not a boolean", ErrBadSection, i, pair[1])
		}

		entry.Enabled = enabled
		activation = append(activation, entry)
	}

	return activation, nil
}
