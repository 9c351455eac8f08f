package resolve

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/0xalexb/lykta/loader"
	"github.com/0xalexb/lykta/registry"
)

// DefaultMaxDepth is the default recursion limit for a Resolver.
const DefaultMaxDepth = 200

// Resolver rewrites configuration documents, replacing protocol-prefixed
// strings and invocation mappings with their computed values.
//
// Resolution walks the document depth first. Mappings carrying the reserved
// "()" key are invocation mappings and are handed to Invoke; other mappings,
// sequences and arrays are rebuilt with every element resolved; strings run
// through the rule list; all other values pass through untouched. The input
// document is never mutated.
//
// A rule's result feeds back into the walk, so an environment variable whose
// value reads "literal://5" resolves to the integer 5, and a reference to a
// not-yet-resolved part of the document resolves that part on the fly.
type Resolver struct {
	rules    []Rule
	registry *registry.Registry
	env      func(string) (string, bool)
	load     func(string) (any, error)
	maxDepth int
}

// New creates a Resolver. By default it uses DefaultRules, a registry.Default
// symbol table, os.LookupEnv for env:// and loader.Load for file://.
func New(opts ...Option) *Resolver {
	options := &Options{
		Registry: registry.Default(),
		Env:      os.LookupEnv,
		Load:     loader.Load,
		MaxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(options)
	}

	rules := options.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	return &Resolver{
		rules:    rules,
		registry: options.Registry,
		env:      options.Env,
		load:     options.Load,
		maxDepth: options.MaxDepth,
	}
}

// Resolve rewrites doc and returns the resolved copy. Reference paths are
// resolved against doc itself.
func (r *Resolver) Resolve(doc any) (any, error) {
	return r.resolve(doc, doc, 0)
}

// ResolveWithin rewrites doc like Resolve, but resolves reference paths
// against root. It is used to resolve one section of a larger document while
// keeping references to sibling sections working.
func (r *Resolver) ResolveWithin(root, doc any) (any, error) {
	return r.resolve(root, doc, 0)
}

func (r *Resolver) resolve(root, node any, depth int) (any, error) {
	if depth > r.maxDepth {
		return nil, fmt.Errorf("%w (limit %d)", ErrDepthExceeded, r.maxDepth)
	}

	switch v := node.(type) {
	case map[string]any:
		if _, ok := v["()"]; ok {
			return r.invoke(root, v, depth)
		}

		out := make(map[string]any, len(v))
		for key, value := range v {
			resolved, err := r.resolve(root, value, depth+1)
			if err != nil {
				return nil, err
			}

			out[key] = resolved
		}

		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			resolved, err := r.resolve(root, value, depth+1)
			if err != nil {
				return nil, err
			}

			out[i] = resolved
		}

		return out, nil
	case string:
		return r.dispatch(root, v, depth)
	default:
		return r.resolveReflect(root, node, depth)
	}
}

// dispatch runs a string through the rule list. The first matching rule whose
// handler does not skip decides the result, and the result re-enters the
// walk. A string no rule matches passes through unchanged.
func (r *Resolver) dispatch(root any, s string, depth int) (any, error) {
	rc := r.context(root, depth)

	for _, rule := range r.rules {
		arg, ok := rule.match(s)
		if !ok {
			continue
		}

		result, err := rule.Handle(rc, arg)
		if err != nil {
			if errors.Is(err, ErrSkip) {
				continue
			}

			return nil, err
		}

		return r.resolve(root, result, depth+1)
	}

	return s, nil
}

func (r *Resolver) invoke(root any, spec map[string]any, depth int) (any, error) {
	return Invoke(r.registry, spec, func(arg any) (any, error) {
		return r.resolve(root, arg, depth+1)
	})
}

func (r *Resolver) context(root any, depth int) Context {
	return Context{
		Root:     root,
		Registry: r.registry,
		Env:      r.env,
		Load:     r.load,
		Resolve: func(v any) (any, error) {
			return r.resolve(root, v, depth+1)
		},
		Dispatch: func(s string) (any, error) {
			return r.dispatch(root, s, depth+1)
		},
	}
}

// resolveReflect handles container kinds beyond the plain map[string]any and
// []any produced by the loaders: typed maps, slices, arrays and named string
// types built in Go code. The original kind is preserved when every resolved
// element still fits it; otherwise the container degrades to map[string]any
// or []any.
func (r *Resolver) resolveReflect(root, node any, depth int) (any, error) {
	rv := reflect.ValueOf(node)

	switch rv.Kind() {
	case reflect.Map:
		return r.resolveMap(root, rv, depth)
	case reflect.Slice, reflect.Array:
		return r.resolveSlice(root, rv, depth)
	case reflect.String:
		return r.dispatch(root, rv.String(), depth)
	default:
		return node, nil
	}
}

func (r *Resolver) resolveMap(root any, rv reflect.Value, depth int) (any, error) {
	stringKeyed := rv.Type().Key().Kind() == reflect.String

	if stringKeyed {
		invocation := rv.MapIndex(reflect.ValueOf("()").Convert(rv.Type().Key()))
		if invocation.IsValid() {
			spec := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				spec[iter.Key().String()] = iter.Value().Interface()
			}

			return r.invoke(root, spec, depth)
		}
	}

	type entry struct {
		key   reflect.Value
		value any
	}

	entries := make([]entry, 0, rv.Len())
	elemType := rv.Type().Elem()
	fits := true

	iter := rv.MapRange()
	for iter.Next() {
		resolved, err := r.resolve(root, iter.Value().Interface(), depth+1)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry{key: iter.Key(), value: resolved})
		if !assignable(resolved, elemType) {
			fits = false
		}
	}

	if fits {
		out := reflect.MakeMapWithSize(rv.Type(), len(entries))
		for _, e := range entries {
			if e.value == nil {
				out.SetMapIndex(e.key, reflect.Zero(elemType))
				continue
			}

			out.SetMapIndex(e.key, reflect.ValueOf(e.value))
		}

		return out.Interface(), nil
	}

	if stringKeyed {
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[e.key.String()] = e.value
		}

		return out, nil
	}

	out := make(map[any]any, len(entries))
	for _, e := range entries {
		out[e.key.Interface()] = e.value
	}

	return out, nil
}

func (r *Resolver) resolveSlice(root any, rv reflect.Value, depth int) (any, error) {
	length := rv.Len()

	resolved := make([]any, length)
	elemType := rv.Type().Elem()
	fits := true

	for i := 0; i < length; i++ {
		value, err := r.resolve(root, rv.Index(i).Interface(), depth+1)
		if err != nil {
			return nil, err
		}

		resolved[i] = value
		if !assignable(value, elemType) {
			fits = false
		}
	}

	if !fits {
		return resolved, nil
	}

	var out reflect.Value
	if rv.Kind() == reflect.Array {
		out = reflect.New(rv.Type()).Elem()
	} else {
		out = reflect.MakeSlice(rv.Type(), length, length)
	}

	for i, value := range resolved {
		if value == nil {
			continue
		}

		out.Index(i).Set(reflect.ValueOf(value))
	}

	return out.Interface(), nil
}

func assignable(value any, t reflect.Type) bool {
	if value == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return true
		default:
			return false
		}
	}

	return reflect.TypeOf(value).AssignableTo(t)
}
