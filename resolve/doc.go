// Package resolve rewrites configuration documents by replacing
// protocol-prefixed strings and invocation mappings with computed values.
//
// A document is any tree of maps, slices and scalars, typically produced by
// the loader package. Resolution walks the tree depth first and rebuilds it;
// the input is never modified. Strings are run through an ordered rule list,
// where the first matching rule computes a replacement and the replacement
// itself is resolved again, so protocols compose.
//
// # Protocols
//
// The default rules recognize six prefixes, tried in this order:
//
//	literal://<text>     evaluate <text> as a typed literal ("literal://5" -> 5)
//	ext://<path>         look up <path> in the symbol registry ("ext://os.Stderr")
//	env://<name>         read environment variable <name>
//	file://<path>        load another configuration file and splice it in
//	cfg://<path>         reference another part of the same document
//	fmt://<template>     expand {part} groups inside <template>
//
// Strings with no recognized prefix pass through unchanged. Because results
// re-enter the pipeline, an environment variable may contain "literal://5" to
// deliver an integer, and a cfg:// reference may point at a section that
// itself still contains protocol strings.
//
// # Invocation mappings
//
// A mapping with the reserved "()" key calls a registered function:
//
//	{"()": "app.newSink", "*": ["audit.log"], "buffered": true}
//
// "()" names the function in the registry, "*" lists positional arguments and
// the remaining keys become keyword arguments bound to the function's final
// parameter (a struct or a string-keyed map). Arguments are fully resolved
// before the call. See Invoke.
//
// # Usage
//
//	r := resolve.New(resolve.WithRegistry(reg))
//
//	resolved, err := r.Resolve(map[string]any{
//		"sink":  "ext://os.Stderr",
//		"level": "env://LOG_LEVEL",
//	})
//
// Custom rules can replace the defaults through WithRules. A handler that
// matched but wants the dispatcher to keep trying later rules returns an
// error wrapping ErrSkip.
package resolve
