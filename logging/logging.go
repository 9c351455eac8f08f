package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

var (
	// ErrBadHandler is returned when a handler mapping cannot be turned into
	// a working sink.
	ErrBadHandler = errors.New("invalid handler configuration")

	// ErrUnknownLevel is returned when a level name is not registered.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrBadLevel is returned when a custom level definition is unusable.
	ErrBadLevel = errors.New("invalid level definition")
)

// DefaultFormat is the record template used by handlers that do not set one.
const DefaultFormat = "{time} | {level} | {message}"

// Level describes a log severity. No places the level on the log/slog
// numeric scale, so custom levels interleave with the built-in ones. Color
// and Icon are carried for sinks and templates that want them; plain text
// output never renders Color.
type Level struct {
	Name  string
	No    int
	Color string
	Icon  string
}

// Severity returns the slog level this level sits at.
func (l Level) Severity() slog.Level {
	return slog.Level(l.No)
}

// Record is one log event as patchers and record templates see it.
type Record struct {
	Time    time.Time
	Level   Level
	Message string
	Module  string
	Extra   map[string]any
}

// Patcher adjusts a record before any handler sees it.
type Patcher func(*Record)

// Activation toggles logging for a module path prefix. An empty Name matches
// every module. The longest matching prefix decides; later entries win ties.
type Activation struct {
	Name    string
	Enabled bool
}

// Config assembles a logger.
//
// Handlers holds one mapping per sink; recognized keys are "sink" (an
// io.Writer, a func(string), or a file path opened for append), "level"
// (name or number, default DEBUG), "format" (record template), "serialize"
// (emit JSON lines instead of the template) and "filter" (module path
// prefix). Unknown keys are rejected. A nil Handlers installs a single
// stderr handler; an empty non-nil Handlers installs none and the logger is
// silent.
//
// Levels registers custom severity levels next to the built-in
// DEBUG/INFO/WARNING/ERROR. Extra seeds every record's Extra mapping,
// Patcher runs on every record, and Activation toggles modules on and off.
type Config struct {
	Handlers   []map[string]any
	Levels     []Level
	Extra      map[string]any
	Patcher    Patcher
	Activation []Activation
}

// New builds a *slog.Logger from a Config.
func New(cfg Config) (*slog.Logger, error) {
	table, err := newLevelTable(cfg.Levels)
	if err != nil {
		return nil, err
	}

	specs := cfg.Handlers
	if specs == nil {
		specs = []map[string]any{{"sink": os.Stderr}}
	}

	sinks := make([]*sink, 0, len(specs))
	for i, spec := range specs {
		s, err := newSink(spec, table)
		if err != nil {
			return nil, fmt.Errorf("handler %d: %w", i, err)
		}

		sinks = append(sinks, s)
	}

	handler := &multiHandler{
		sinks:      sinks,
		levels:     table,
		extra:      cfg.Extra,
		patcher:    cfg.Patcher,
		activation: cfg.Activation,
	}

	return slog.New(handler), nil
}

// handlerSpec is the decoded shape of one handler mapping.
type handlerSpec struct {
	Sink      any
	Level     any
	Format    string
	Serialize bool
	Filter    string
}

func decodeHandler(spec map[string]any) (handlerSpec, error) {
	var out handlerSpec

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return handlerSpec{}, err
	}

	if err := decoder.Decode(spec); err != nil {
		return handlerSpec{}, fmt.Errorf("%w: %v", ErrBadHandler, err)
	}

	return out, nil
}

// levelTable indexes the built-in and custom levels by name and number.
type levelTable struct {
	byName map[string]Level
	byNo   map[int]Level
}

func builtinLevels() []Level {
	return []Level{
		{Name: "DEBUG", No: int(slog.LevelDebug)},
		{Name: "INFO", No: int(slog.LevelInfo)},
		{Name: "WARNING", No: int(slog.LevelWarn)},
		{Name: "ERROR", No: int(slog.LevelError)},
	}
}

func newLevelTable(custom []Level) (*levelTable, error) {
	table := &levelTable{
		byName: make(map[string]Level),
		byNo:   make(map[int]Level),
	}

	for _, level := range builtinLevels() {
		table.register(level)
	}

	table.byName["WARN"] = table.byName["WARNING"]

	for _, level := range custom {
		if level.Name == "" {
			return nil, fmt.Errorf("level with no name: %w", ErrBadLevel)
		}

		table.register(level)
	}

	return table, nil
}

func (t *levelTable) register(level Level) {
	t.byName[strings.ToUpper(level.Name)] = level
	t.byNo[level.No] = level
}

// lookup resolves a handler's "level" value: a registered name, or a bare
// number placed directly on the slog scale.
func (t *levelTable) lookup(value any) (slog.Level, error) {
	switch v := value.(type) {
	case nil:
		return slog.LevelDebug, nil
	case string:
		level, ok := t.byName[strings.ToUpper(v)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, v)
		}

		return level.Severity(), nil
	case int:
		return slog.Level(v), nil
	case int64:
		return slog.Level(v), nil
	case uint64:
		return slog.Level(v), nil
	case float64:
		return slog.Level(int(v)), nil
	case Level:
		return v.Severity(), nil
	default:
		return 0, fmt.Errorf("%w: level %T is not a name or number", ErrBadHandler, value)
	}
}

// byLevel maps a slog level back to a registered Level, synthesizing one for
// levels logged outside the table.
func (t *levelTable) byLevel(l slog.Level) Level {
	if level, ok := t.byNo[int(l)]; ok {
		return level
	}

	return Level{Name: l.String(), No: int(l)}
}
