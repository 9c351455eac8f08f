package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// multiHandler is the slog.Handler behind every logger built by New. It
// assembles one Record per event, runs the patcher and the activation check,
// then fans the record out to every sink that accepts it.
type multiHandler struct {
	sinks      []*sink
	levels     *levelTable
	extra      map[string]any
	patcher    Patcher
	activation []Activation

	attrs []slog.Attr
	group string
}

func (h *multiHandler) Enabled(_ context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if level >= s.min {
			return true
		}
	}

	return false
}

func (h *multiHandler) Handle(_ context.Context, rec slog.Record) error {
	extra := make(map[string]any, len(h.extra)+len(h.attrs)+rec.NumAttrs())
	maps.Copy(extra, h.extra)

	record := Record{
		Time:    rec.Time,
		Level:   h.levels.byLevel(rec.Level),
		Message: rec.Message,
		Module:  moduleOf(rec.PC),
		Extra:   extra,
	}

	for _, attr := range h.attrs {
		record.Extra[attr.Key] = attr.Value.Resolve().Any()
	}

	rec.Attrs(func(attr slog.Attr) bool {
		record.Extra[h.group+attr.Key] = attr.Value.Resolve().Any()

		return true
	})

	if !enabledFor(h.activation, record.Module) {
		return nil
	}

	if h.patcher != nil {
		h.patcher(&record)
	}

	var err error

	for _, s := range h.sinks {
		if record.Level.Severity() < s.min {
			continue
		}

		if s.filter != "" && !moduleMatches(s.filter, record.Module) {
			continue
		}

		err = multierr.Append(err, s.emit(&record))
	}

	return err
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)

	for _, attr := range attrs {
		attr.Key = h.group + attr.Key
		clone.attrs = append(clone.attrs, attr)
	}

	return &clone
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.group = h.group + name + "."

	return &clone
}

// enabledFor applies the activation list to a module path. The longest
// matching prefix decides; on equal length the later entry wins; no match
// leaves the module enabled.
func enabledFor(activation []Activation, module string) bool {
	enabled := true
	best := -1

	for _, a := range activation {
		if moduleMatches(a.Name, module) && len(a.Name) >= best {
			best = len(a.Name)
			enabled = a.Enabled
		}
	}

	return enabled
}

// moduleMatches reports whether prefix names module or one of its parents.
// Matching respects path boundaries, so "app/db" does not match "app/dbx".
func moduleMatches(prefix, module string) bool {
	if prefix == "" || prefix == module {
		return true
	}

	return strings.HasPrefix(module, prefix+"/") || strings.HasPrefix(module, prefix+".")
}

// moduleOf derives the logging module from the caller's program counter: the
// package path of the function that produced the record.
func moduleOf(pc uintptr) string {
	if pc == 0 {
		return ""
	}

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.Function == "" {
		return ""
	}

	name := frame.Function

	slash := strings.LastIndex(name, "/")
	if dot := strings.Index(name[slash+1:], "."); dot >= 0 {
		return name[:slash+1+dot]
	}

	return name
}

// sink is one configured output: a writer, a minimum level, a module filter
// and a rendering mode.
type sink struct {
	mu        sync.Mutex
	out       io.Writer
	min       slog.Level
	format    *formatter
	serialize bool
	filter    string
}

func newSink(spec map[string]any, table *levelTable) (*sink, error) {
	decoded, err := decodeHandler(spec)
	if err != nil {
		return nil, err
	}

	out, err := openSink(decoded.Sink)
	if err != nil {
		return nil, err
	}

	min, err := table.lookup(decoded.Level)
	if err != nil {
		return nil, err
	}

	format := decoded.Format
	if format == "" {
		format = DefaultFormat
	}

	return &sink{
		out:       out,
		min:       min,
		format:    compileFormat(format),
		serialize: decoded.Serialize,
		filter:    decoded.Filter,
	}, nil
}

// openSink turns a handler's "sink" value into a writer. Accepted values are
// an io.Writer, a func(string) receiving each rendered line, and a file path
// opened for appending and kept open for the life of the process.
func openSink(value any) (io.Writer, error) {
	switch s := value.(type) {
	case nil:
		return nil, fmt.Errorf(`missing "sink" key: %w`, ErrBadHandler)
	case io.Writer:
		return s, nil
	case func(string):
		return funcWriter(s), nil
	case string:
		path := filepath.Clean(s)

		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304 -- path comes from the caller's own configuration
		if err != nil {
			return nil, fmt.Errorf("opening sink %q: %w", path, err)
		}

		return file, nil
	default:
		return nil, fmt.Errorf("sink %T is not a writer, func(string) or path: %w", value, ErrBadHandler)
	}
}

// funcWriter adapts a func(string) sink to io.Writer.
type funcWriter func(string)

func (f funcWriter) Write(p []byte) (int, error) {
	f(string(p))

	return len(p), nil
}

func (s *sink) emit(record *Record) error {
	var line []byte

	if s.serialize {
		serialized, err := serializeRecord(record)
		if err != nil {
			return err
		}

		line = serialized
	} else {
		line = []byte(s.format.render(record))
	}

	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.out.Write(line)

	return err
}
