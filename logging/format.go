package logging

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeLayout renders {time} tokens that do not name their own layout.
const DefaultTimeLayout = "2006-01-02 15:04:05.000"

// formatTokenPattern tokenizes a record template into double-braced escapes,
// single-braced tokens and brace-free runs. Unpaired braces fall between
// tokens and are kept verbatim.
var formatTokenPattern = regexp.MustCompile(`\{\{[^{}]*\}\}|\{[^{}]+\}|[^{}]+`)

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentTime
	segmentLevelName
	segmentLevelNo
	segmentLevelIcon
	segmentMessage
	segmentModule
	segmentExtra
)

type segment struct {
	kind segmentKind

	// text holds the literal run, the time layout or the extra key,
	// depending on kind.
	text string
}

// formatter is a compiled record template. Recognized tokens are {time},
// {time:<go layout>}, {level}, {level.no}, {level.icon}, {message}, {module}
// and {extra.<key>}; {{ and }} emit literal braces; unknown tokens are kept
// verbatim.
type formatter struct {
	segments []segment
}

func compileFormat(format string) *formatter {
	f := &formatter{}

	last := 0
	for _, span := range formatTokenPattern.FindAllStringIndex(format, -1) {
		f.literal(format[last:span[0]])
		last = span[1]

		token := format[span[0]:span[1]]

		switch {
		case strings.HasPrefix(token, "{{") && strings.HasSuffix(token, "}}"):
			f.literal(token[1 : len(token)-1])
		case strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}"):
			f.token(token)
		default:
			f.literal(token)
		}
	}

	f.literal(format[last:])

	return f
}

func (f *formatter) literal(text string) {
	if text == "" {
		return
	}

	f.segments = append(f.segments, segment{kind: segmentLiteral, text: text})
}

func (f *formatter) token(token string) {
	name := token[1 : len(token)-1]

	switch {
	case name == "time":
		f.segments = append(f.segments, segment{kind: segmentTime, text: DefaultTimeLayout})
	case strings.HasPrefix(name, "time:"):
		f.segments = append(f.segments, segment{kind: segmentTime, text: name[len("time:"):]})
	case name == "level":
		f.segments = append(f.segments, segment{kind: segmentLevelName})
	case name == "level.no":
		f.segments = append(f.segments, segment{kind: segmentLevelNo})
	case name == "level.icon":
		f.segments = append(f.segments, segment{kind: segmentLevelIcon})
	case name == "message":
		f.segments = append(f.segments, segment{kind: segmentMessage})
	case name == "module":
		f.segments = append(f.segments, segment{kind: segmentModule})
	case strings.HasPrefix(name, "extra."):
		f.segments = append(f.segments, segment{kind: segmentExtra, text: name[len("extra."):]})
	default:
		f.segments = append(f.segments, segment{kind: segmentLiteral, text: token})
	}
}

func (f *formatter) render(r *Record) string {
	var b strings.Builder

	for _, seg := range f.segments {
		switch seg.kind {
		case segmentLiteral:
			b.WriteString(seg.text)
		case segmentTime:
			b.WriteString(r.Time.Format(seg.text))
		case segmentLevelName:
			b.WriteString(r.Level.Name)
		case segmentLevelNo:
			b.WriteString(strconv.Itoa(r.Level.No))
		case segmentLevelIcon:
			b.WriteString(r.Level.Icon)
		case segmentMessage:
			b.WriteString(r.Message)
		case segmentModule:
			b.WriteString(r.Module)
		case segmentExtra:
			if value, ok := r.Extra[seg.text]; ok && value != nil {
				b.WriteString(stringifyExtra(value))
			}
		}
	}

	return b.String()
}

func stringifyExtra(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}

// recordJSON is the serialized shape of a record.
type recordJSON struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	No      int            `json:"no"`
	Message string         `json:"message"`
	Module  string         `json:"module,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// serializeRecord renders a record as one JSON object. Extra values the
// encoder cannot represent are replaced with their %v form.
func serializeRecord(r *Record) ([]byte, error) {
	encoded := recordJSON{
		Time:    r.Time,
		Level:   r.Level.Name,
		No:      r.Level.No,
		Message: r.Message,
		Module:  r.Module,
		Extra:   r.Extra,
	}

	out, err := json.Marshal(encoded)
	if err == nil {
		return out, nil
	}

	safe := make(map[string]any, len(r.Extra))
	for key, value := range r.Extra {
		if _, err := json.Marshal(value); err != nil {
			safe[key] = fmt.Sprint(value)
			continue
		}

		safe[key] = value
	}

	encoded.Extra = safe

	return json.Marshal(encoded)
}
