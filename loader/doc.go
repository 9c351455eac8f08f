// Package loader reads configuration documents without requiring the caller
// to know their format.
//
// Data is decoded by a fixed fallback chain (JSON, YAML, JSON5, TOML) where
// the first format that parses the input into a mapping or sequence wins.
// Formats are probed against the raw bytes, not the file extension, so a
// ".conf" file holding YAML loads fine. The scalar guard matters for the
// chain: YAML happily reads most text as one big string, which would
// otherwise shadow the TOML probe entirely.
//
//	doc, err := loader.Load("logging.conf")
//
// Documents come back as map[string]any / []any trees with scalars typed
// bool, int64, float64 and string. When nothing can parse the input, the
// returned error wraps ErrNoLoader and lists every format's failure.
package loader
