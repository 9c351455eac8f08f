package resolve

import (
	"fmt"
	"regexp"

	"github.com/0xalexb/lykta/registry"
)

var (
	literalPattern = regexp.MustCompile(`(?s)^literal://(.*)$`)
	extPattern     = regexp.MustCompile(`(?s)^ext://(.*)$`)
	envPattern     = regexp.MustCompile(`(?s)^env://(.*)$`)
	filePattern    = regexp.MustCompile(`(?s)^file://(.*)$`)
	cfgPattern     = regexp.MustCompile(`(?s)^cfg://(.*)$`)
	fmtPattern     = regexp.MustCompile(`(?s)^fmt://(.*)$`)
)

// Context carries the resolution services a rule handler may need. Resolve
// re-enters the full pipeline (containers, invocation mappings and strings);
// Dispatch runs a single string through the rule list.
type Context struct {
	// Root is the document resolution started from. Reference paths are
	// resolved against it.
	Root any

	// Registry resolves external symbol references.
	Registry *registry.Registry

	// Env looks up an environment variable, reporting whether it is set.
	Env func(string) (string, bool)

	// Load reads and parses a configuration file.
	Load func(string) (any, error)

	Resolve  func(any) (any, error)
	Dispatch func(string) (any, error)
}

// Handler computes a rule's result for a matched string. The argument is the
// pattern's capture group when one exists, the whole string otherwise.
// Returning an error wrapping ErrSkip passes the string on to the next rule.
type Handler func(rc Context, arg string) (any, error)

// Rule pairs a matcher with a handler. Exactly one of Pattern and Match
// should be set; when both are set, Pattern wins.
type Rule struct {
	// Name identifies the rule in error messages.
	Name string

	// Pattern matches candidate strings. A pattern with a capture group
	// passes the group to the handler; one without passes the whole string.
	Pattern *regexp.Regexp

	// Match is a predicate alternative to Pattern. The whole string is
	// passed to the handler.
	Match func(string) bool

	Handle Handler
}

func (ru Rule) match(s string) (string, bool) {
	if ru.Pattern != nil {
		m := ru.Pattern.FindStringSubmatch(s)
		if m == nil {
			return "", false
		}

		if len(m) > 1 {
			return m[1], true
		}

		return m[0], true
	}

	if ru.Match != nil && ru.Match(s) {
		return s, true
	}

	return "", false
}

// DefaultRules returns the standard rule list in its fixed precedence order:
// literal, ext, env, file, cfg, fmt.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "literal", Pattern: literalPattern, Handle: handleLiteral},
		{Name: "ext", Pattern: extPattern, Handle: handleExt},
		{Name: "env", Pattern: envPattern, Handle: handleEnv},
		{Name: "file", Pattern: filePattern, Handle: handleFile},
		{Name: "cfg", Pattern: cfgPattern, Handle: handleCfg},
		{Name: "fmt", Pattern: fmtPattern, Handle: handleFmt},
	}
}

func handleLiteral(_ Context, arg string) (any, error) {
	return Literal(arg)
}

func handleExt(rc Context, arg string) (any, error) {
	return rc.Registry.Lookup(arg)
}

func handleEnv(rc Context, arg string) (any, error) {
	value, ok := rc.Env(arg)
	if !ok {
		return nil, fmt.Errorf("environment variable %q: %w", arg, ErrKeyNotFound)
	}

	return value, nil
}

func handleFile(rc Context, arg string) (any, error) {
	return rc.Load(arg)
}

func handleCfg(rc Context, arg string) (any, error) {
	return Reference(rc.Root, arg)
}

func handleFmt(rc Context, arg string) (any, error) {
	return expandTemplate(rc, arg)
}
