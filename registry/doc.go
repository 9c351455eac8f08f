// Package registry provides a process-level symbol table for configuration
// documents that reference Go values by dotted path.
//
// Configuration formats are text, but handlers and invocation targets are live
// Go objects: stream handles, constructor functions, previously built
// components. The registry bridges the two. Symbols are registered under
// dotted paths and looked up with attribute-style traversal, so a registered
// struct or map exposes its members without each of them being registered
// individually:
//
//	reg := registry.Default()
//	reg.Register("app.newSink", NewSink)
//
//	w, err := reg.Lookup("os.Stderr")
//	ctor, err := reg.Lookup("app.newSink")
//
// Default returns a registry with the standard streams pre-registered;
// New returns an empty one. All methods are safe for concurrent use.
package registry
