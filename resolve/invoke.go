package resolve

import (
	"fmt"
	"reflect"

	"github.com/0xalexb/lykta/registry"

	"github.com/go-viper/mapstructure/v2"
)

var (
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	keywordsType = reflect.TypeOf(map[string]any(nil))
)

// Invoke executes an invocation mapping against a symbol registry.
//
// The mapping's "()" key names the function to call, "*" holds optional
// positional arguments and every remaining key is a keyword argument. Keyword
// arguments bind to the function's final parameter, which must be a struct
// (unknown keywords are rejected) or a string-keyed map. When parse is
// non-nil it is applied to every positional and keyword value before the
// call; the walker passes its own resolution here so arguments are fully
// resolved first.
//
// The function may return nothing, a value, an error, or a value and an
// error; a function returning several non-error values yields them as a
// sequence. The mapping itself is never modified, and a panic in the
// callee is recovered and reported as an error.
func Invoke(reg *registry.Registry, spec map[string]any, parse func(any) (any, error)) (any, error) {
	target, ok := spec["()"]
	if !ok {
		return nil, fmt.Errorf(`missing "()" key: %w`, ErrInvalidSpec)
	}

	path, ok := target.(string)
	if !ok {
		return nil, fmt.Errorf(`"()" key must be a string, got %T: %w`, target, ErrInvalidSpec)
	}

	symbol, err := reg.Lookup(path)
	if err != nil {
		return nil, fmt.Errorf("invoking %q: %w", path, err)
	}

	fn := reflect.ValueOf(symbol)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("symbol %q is %T: %w", path, symbol, ErrNotCallable)
	}

	positionals, err := positionalArgs(spec, parse, path)
	if err != nil {
		return nil, err
	}

	keywords, err := keywordArgs(spec, parse, path)
	if err != nil {
		return nil, err
	}

	in, err := bindArgs(fn.Type(), positionals, keywords, path)
	if err != nil {
		return nil, err
	}

	return call(fn, in, path)
}

func positionalArgs(spec map[string]any, parse func(any) (any, error), path string) ([]any, error) {
	raw, ok := spec["*"]
	if !ok {
		return nil, nil
	}

	var values []any

	switch v := raw.(type) {
	case []any:
		values = append([]any(nil), v...)
	default:
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf(`"*" key of %q must be a sequence, got %T: %w`, path, raw, ErrInvalidSpec)
		}

		values = make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
	}

	if parse == nil {
		return values, nil
	}

	for i, value := range values {
		parsed, err := parse(value)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %q: %w", i, path, err)
		}

		values[i] = parsed
	}

	return values, nil
}

func keywordArgs(spec map[string]any, parse func(any) (any, error), path string) (map[string]any, error) {
	keywords := make(map[string]any, len(spec))

	for key, value := range spec {
		if key == "()" || key == "*" {
			continue
		}

		if parse != nil {
			parsed, err := parse(value)
			if err != nil {
				return nil, fmt.Errorf("keyword %q of %q: %w", key, path, err)
			}

			value = parsed
		}

		keywords[key] = value
	}

	return keywords, nil
}

func bindArgs(ft reflect.Type, positionals []any, keywords map[string]any, path string) ([]reflect.Value, error) {
	numIn := ft.NumIn()

	if len(keywords) > 0 {
		return bindWithKeywords(ft, positionals, keywords, path)
	}

	if ft.IsVariadic() {
		if len(positionals) < numIn-1 {
			return nil, fmt.Errorf("%q takes at least %d arguments, got %d: %w", path, numIn-1, len(positionals), ErrInvalidSpec)
		}
	} else if len(positionals) != numIn {
		return nil, fmt.Errorf("%q takes %d arguments, got %d: %w", path, numIn, len(positionals), ErrInvalidSpec)
	}

	in := make([]reflect.Value, 0, len(positionals))

	for i, value := range positionals {
		paramType := ft.In(min(i, numIn-1))
		if ft.IsVariadic() && i >= numIn-1 {
			paramType = ft.In(numIn - 1).Elem()
		}

		arg, err := convertArg(value, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %q: %w", i, path, err)
		}

		in = append(in, arg)
	}

	return in, nil
}

// bindWithKeywords binds positionals to all parameters but the last, and the
// keyword set to the last.
func bindWithKeywords(ft reflect.Type, positionals []any, keywords map[string]any, path string) ([]reflect.Value, error) {
	numIn := ft.NumIn()

	if ft.IsVariadic() {
		return nil, fmt.Errorf("%q is variadic and cannot take keyword arguments: %w", path, ErrInvalidSpec)
	}

	if numIn == 0 {
		return nil, fmt.Errorf("%q takes no parameters but keyword arguments were given: %w", path, ErrInvalidSpec)
	}

	if len(positionals) != numIn-1 {
		return nil, fmt.Errorf("%q takes %d positional arguments before keywords, got %d: %w", path, numIn-1, len(positionals), ErrInvalidSpec)
	}

	in := make([]reflect.Value, 0, numIn)

	for i, value := range positionals {
		arg, err := convertArg(value, ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d of %q: %w", i, path, err)
		}

		in = append(in, arg)
	}

	opts, err := decodeKeywords(keywords, ft.In(numIn-1))
	if err != nil {
		return nil, fmt.Errorf("keyword arguments of %q: %w", path, err)
	}

	return append(in, opts), nil
}

func convertArg(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot pass nil as %s: %w", t, ErrInvalidSpec)
		}
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if convertibleKind(rv.Type(), t) {
		return rv.Convert(t), nil
	}

	if rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice {
		out := reflect.New(t)
		if err := decodeInto(value, out.Interface(), false); err != nil {
			return reflect.Value{}, fmt.Errorf("cannot decode %T into %s: %w", value, t, err)
		}

		return out.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s: %w", value, t, ErrInvalidSpec)
}

// convertibleKind reports whether a reflect conversion between the two types
// is safe for argument passing: numeric widening and named-string
// conversions, nothing that reinterprets the value.
func convertibleKind(from, to reflect.Type) bool {
	if numericKind(from.Kind()) && numericKind(to.Kind()) {
		return true
	}

	return from.Kind() == reflect.String && to.Kind() == reflect.String
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func decodeKeywords(keywords map[string]any, t reflect.Type) (reflect.Value, error) {
	if keywordsType.AssignableTo(t) {
		return reflect.ValueOf(keywords), nil
	}

	switch t.Kind() {
	case reflect.Map:
		out := reflect.New(t)
		if err := decodeInto(keywords, out.Interface(), false); err != nil {
			return reflect.Value{}, err
		}

		return out.Elem(), nil
	case reflect.Struct:
		out := reflect.New(t)
		if err := decodeInto(keywords, out.Interface(), true); err != nil {
			return reflect.Value{}, err
		}

		return out.Elem(), nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			out := reflect.New(t.Elem())
			if err := decodeInto(keywords, out.Interface(), true); err != nil {
				return reflect.Value{}, err
			}

			return out, nil
		}
	}

	return reflect.Value{}, fmt.Errorf("last parameter %s cannot accept keyword arguments: %w", t, ErrInvalidSpec)
}

func decodeInto(input, target any, strict bool) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

func call(fn reflect.Value, in []reflect.Value, path string) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("calling %q: panic: %v", path, r)
		}
	}()

	out := fn.Call(in)

	last := len(out) - 1
	if last >= 0 && out[last].Type() == errorType {
		if !out[last].IsNil() {
			return nil, fmt.Errorf("calling %q: %w", path, out[last].Interface().(error))
		}

		out = out[:last]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		values := make([]any, len(out))
		for i, v := range out {
			values[i] = v.Interface()
		}

		return values, nil
	}
}
