package extension

import (
	"log/slog"

	otoolkit "github.com/Team-Optix-3749/otoolkit-sub000"
	"github.com/Team-Optix-3749/otoolkit-sub000/routegate"
	"github.com/Team-Optix-3749/otoolkit-sub000/store"
)

// ExtOption configures the otoolkit Forge extension.
type ExtOption func(*Extension)

// WithStore sets the persistence backend.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.store = s
	}
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithEngineOptions adds engine-level options.
func WithEngineOptions(opts ...otoolkit.Option) ExtOption {
	return func(e *Extension) {
		e.engOpts = append(e.engOpts, opts...)
	}
}

// WithGateOptions adds route gate options, for example a settings-backed
// route table source.
func WithGateOptions(opts ...routegate.GateOption) ExtOption {
	return func(e *Extension) {
		e.gateOpts = append(e.gateOpts, opts...)
	}
}

// WithRouteSource sets the source the route gate loads its permission table
// from, using the configured route table key.
func WithRouteSource(source routegate.Source) ExtOption {
	return func(e *Extension) {
		e.gateOpts = append(e.gateOpts, routegate.WithSource(source, e.config.RouteTableKey))
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
