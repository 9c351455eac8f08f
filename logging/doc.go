// Package logging builds log/slog loggers from declarative handler
// configuration: sinks with levels, record templates or JSON serialization,
// module filters, custom severity levels, baseline context, record patchers
// and per-module activation toggles.
//
// A minimal logger writing to stderr:
//
//	logger, err := logging.New(logging.Config{})
//
// One with two sinks and a custom level:
//
//	logger, err := logging.New(logging.Config{
//		Handlers: []map[string]any{
//			{"sink": os.Stdout, "format": "{time} {level} {message}"},
//			{"sink": "app.log", "level": "NOTICE", "serialize": true},
//		},
//		Levels: []logging.Level{{Name: "NOTICE", No: 2, Icon: "*"}},
//	})
package logging
