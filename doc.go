// Package lykta loads logging configuration documents and turns them into
// configured log/slog loggers.
//
// Documents may be JSON, YAML, JSON5 or TOML and carry five recognized
// top-level sections: handlers, levels, extra, patcher and activation.
// String values anywhere in a document may use protocol prefixes, resolved
// before decoding:
//
//	literal://8080          a YAML-typed value
//	ext://stderr            a registered symbol
//	env://APP_LEVEL         an environment variable, itself resolved again
//	file://extra.yaml       another document, included and resolved
//	cfg://defaults.level    a dotted path into this same document
//	fmt://{env://USER}!     a template whose braced groups resolve
//
// Mappings carrying a "()" key invoke a registered function, with "*" as
// positional arguments and the remaining keys as options.
//
// # Loading
//
//	logger, err := lykta.Configure("logging.yaml")
//
// builds the configured logger and installs it as the slog default. Load and
// FromMap return the decoded *Config instead, and (*Config).Logger builds
// the logger without installing it.
//
// # Fx integration
//
//	app := fx.New(lykta.Module("logging.yaml"))
//
// provides *lykta.Config and *slog.Logger to the graph and installs the
// default logger on start.
package lykta
