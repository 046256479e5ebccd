package extension

// Config holds the otoolkit extension configuration.
// Fields can be set programmatically via ExtOption functions or loaded from
// YAML configuration files (under "extensions.otoolkit" or "otoolkit" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// RouteTableKey is the settings key the route gate loads its permission
	// table from (default: "route_permissions").
	RouteTableKey string `json:"route_table_key" mapstructure:"route_table_key" yaml:"route_table_key"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RouteTableKey: "route_permissions",
	}
}
