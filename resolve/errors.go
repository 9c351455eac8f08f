package resolve

import "errors"

// ErrKeyNotFound is returned when a reference path segment cannot be looked up
// or an environment variable is not set.
var ErrKeyNotFound = errors.New("key not found")

// ErrBadLiteral is returned when the text after literal:// is not valid
// literal syntax.
var ErrBadLiteral = errors.New("malformed literal")

// ErrInvalidSpec is returned when an invocation mapping is structurally
// invalid: the "()" key is missing or not a string, or the "*" key is not a
// sequence, or the arguments cannot be bound to the callable's parameters.
var ErrInvalidSpec = errors.New("invalid invocation spec")

// ErrNotCallable is returned when the symbol named by an invocation mapping's
// "()" key does not resolve to a Go function.
var ErrNotCallable = errors.New("not callable")

// ErrSkip signals that a rule's handler declines the string it matched.
// The dispatcher treats it as "no match" and moves on to the next rule.
// It is never returned to callers of Resolve.
var ErrSkip = errors.New("skip rule")

// ErrDepthExceeded is returned when resolution recurses past the configured
// maximum depth, usually because reference paths form a cycle.
var ErrDepthExceeded = errors.New("maximum resolution depth exceeded")
