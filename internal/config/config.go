// Package config provides configuration loading and management.
package config

// Default values used when neither flag, env, nor config file set a key.
const (
	// DefaultDir is the install directory under the consumer's source tree.
	DefaultDir = "src/components/tblx"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the tblx-ui CLI configuration file.
type Config struct {
	// Registry is the path to the registry manifest.
	// Env: TBLX_REGISTRY, Default: registry.json next to the binary.
	Registry string `mapstructure:"registry" yaml:"registry,omitempty"`

	// Prefix is the registry-root path segment stripped on install.
	// Env: TBLX_PREFIX, Default: "registry".
	Prefix string `mapstructure:"prefix" yaml:"prefix,omitempty"`

	// Dir is the default install directory for `add`.
	// Env: TBLX_DIR, Default: src/components/tblx.
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`

	// WithBaseStyles installs the base styles on every `add`.
	// Not read from the environment.
	WithBaseStyles bool `mapstructure:"withBaseStyles" yaml:"withBaseStyles"`

	// LegacyExitCodes makes `add` exit 0 when a component is not found,
	// matching the historical behavior some scripts rely on.
	// Config file only.
	LegacyExitCodes bool `mapstructure:"legacyExitCodes" yaml:"legacyExitCodes"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `tblx-ui config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Prefix: "registry",
		Dir:    DefaultDir,
	}
}
