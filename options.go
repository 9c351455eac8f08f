package lykta

import (
	"github.com/0xalexb/lykta/registry"
	"github.com/0xalexb/lykta/resolve"
)

// Options holds configuration settings for loading a document.
type Options struct {
	Resolve []resolve.Option
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

func newOptions(opts []Option) *Options {
	options := &Options{}

	for _, apply := range opts {
		apply(options)
	}

	return options
}

func (o *Options) resolver() *resolve.Resolver {
	return resolve.New(o.Resolve...)
}

// WithRegistry sets the symbol registry used for ext:// references and
// invocation targets.
func WithRegistry(reg *registry.Registry) Option {
	return func(opts *Options) {
		opts.Resolve = append(opts.Resolve, resolve.WithRegistry(reg))
	}
}

// WithEnvLookup replaces the environment lookup used for env:// references.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(opts *Options) {
		opts.Resolve = append(opts.Resolve, resolve.WithEnvLookup(lookup))
	}
}

// WithFileLoader replaces the file loader used for file:// references.
func WithFileLoader(load func(string) (any, error)) Option {
	return func(opts *Options) {
		opts.Resolve = append(opts.Resolve, resolve.WithFileLoader(load))
	}
}

// WithRules replaces the resolution rule list. Use resolve.DefaultRules as
// the base when adding custom rules.
func WithRules(rules []resolve.Rule) Option {
	return func(opts *Options) {
		opts.Resolve = append(opts.Resolve, resolve.WithRules(rules...))
	}
}

// WithMaxDepth bounds the resolution recursion depth.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.Resolve = append(opts.Resolve, resolve.WithMaxDepth(depth))
	}
}
