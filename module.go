package lykta

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module creates an Fx module that loads the configuration document at path
// and provides the resolved *Config and its *slog.Logger to the graph. When
// the application starts, the logger is installed as the process default.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module(path string, opts ...Option) fx.Option {
	return fx.Module("lykta",
		fx.Provide(func() (*Config, error) {
			return Load(path, opts...)
		}),
		fx.Provide((*Config).Logger),
		fx.Invoke(func(logger *slog.Logger) {
			slog.SetDefault(logger)
		}),
	)
}
