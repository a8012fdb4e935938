package extension

import (
	"log/slog"

	"github.com/terralink/cadastre"
	"github.com/terralink/cadastre/plugin"
	"github.com/terralink/cadastre/store"
)

// ExtOption configures the Cadastre Forge extension.
type ExtOption func(*Extension)

// WithStore sets the persistence backend.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.cadastreOpts = append(e.cadastreOpts, cadastre.WithStore(s))
	}
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithEngineOptions adds engine-level options.
func WithEngineOptions(opts ...cadastre.Option) ExtOption {
	return func(e *Extension) {
		e.cadastreOpts = append(e.cadastreOpts, opts...)
	}
}

// WithPlugin registers a lifecycle hook plugin.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.plugins = append(e.plugins, x)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableRoutes disables the registration of HTTP routes.
func WithDisableRoutes() ExtOption {
	return func(e *Extension) {
		e.config.DisableRoutes = true
	}
}

// WithDisableMigrate disables auto-migration on start.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}

// WithDisableSeed disables loading the built-in policy documents on start.
func WithDisableSeed() ExtOption {
	return func(e *Extension) {
		e.config.DisableSeed = true
	}
}
