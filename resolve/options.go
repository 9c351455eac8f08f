package resolve

import "github.com/0xalexb/lykta/registry"

// Options holds configuration settings for a Resolver.
type Options struct {
	Rules    []Rule
	Registry *registry.Registry
	Env      func(string) (string, bool)
	Load     func(string) (any, error)
	MaxDepth int
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithRules replaces the default rule list. Order is precedence: the first
// matching rule wins.
func WithRules(rules ...Rule) Option {
	return func(opts *Options) {
		opts.Rules = rules
	}
}

// WithRegistry sets the symbol registry used by ext:// references and
// invocation mappings.
func WithRegistry(reg *registry.Registry) Option {
	return func(opts *Options) {
		opts.Registry = reg
	}
}

// WithEnvLookup sets the environment lookup used by env:// references.
// Defaults to os.LookupEnv.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(opts *Options) {
		opts.Env = lookup
	}
}

// WithFileLoader sets the loader used by file:// references.
// Defaults to loader.Load.
func WithFileLoader(load func(string) (any, error)) Option {
	return func(opts *Options) {
		opts.Load = load
	}
}

// WithMaxDepth sets the recursion limit guarding against reference cycles.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}
