package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tblx/tblx-ui/internal/output"
)

// Environment variables read during resolution. Only path settings are
// taken from the environment; switches come from flags or the config file.
const (
	EnvConfig   = "TBLX_CONFIG"
	EnvRegistry = "TBLX_REGISTRY"
	EnvPrefix   = "TBLX_PREFIX"
	EnvDir      = "TBLX_DIR"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value with its provenance.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// Bool parses Value as a boolean. Unparseable values are false; use
// ResolvedConfig.Validate to report them.
func (r ResolvedValue) Bool() bool {
	b, _ := strconv.ParseBool(r.Value)
	return b
}

// ResolveOptions holds the candidate values for one key.
type ResolveOptions struct {
	Key string
	// FlagValue is used when FlagSet is true.
	FlagValue string
	FlagSet   bool
	// EnvVar is the environment variable to consult, if any.
	EnvVar string
	// ConfigValue is the config file value (empty if not set).
	ConfigValue string
	// Default is the built-in default.
	Default string
}

// Resolve picks a value using precedence: flag > env > config > default.
func Resolve(opts ResolveOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      opts.Key,
		Shadowed: make(map[ConfigSource]string),
	}

	var envValue string
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	candidates := []struct {
		source ConfigSource
		value  string
		set    bool
	}{
		{SourceFlag, opts.FlagValue, opts.FlagSet},
		{SourceEnv, envValue, envValue != ""},
		{SourceConfig, opts.ConfigValue, opts.ConfigValue != ""},
		{SourceDefault, opts.Default, true},
	}

	for _, c := range candidates {
		if !c.set {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		if c.source != SourceDefault || c.value != "" {
			result.Shadowed[c.source] = c.value
		}
	}

	return result
}

// ResolveAllOptions contains the flag state for every resolved key.
type ResolveAllOptions struct {
	ConfigFlag string

	RegistryFlag string

	PrefixFlag string

	DirFlag    string
	DirFlagSet bool

	WithBaseStylesFlag    bool
	WithBaseStylesFlagSet bool

	// Config is the loaded config file, or nil.
	Config *Config
}

// ResolvedConfig holds every resolved value the commands need.
type ResolvedConfig struct {
	ConfigPath      ResolvedValue
	Registry        ResolvedValue
	Prefix          ResolvedValue
	Dir             ResolvedValue
	WithBaseStyles  ResolvedValue
	LegacyExitCodes ResolvedValue
}

// Values returns the resolved values in display order.
func (r *ResolvedConfig) Values() []ResolvedValue {
	return []ResolvedValue{r.ConfigPath, r.Registry, r.Prefix, r.Dir, r.WithBaseStyles, r.LegacyExitCodes}
}

// Validate reports resolved switches whose value is not a boolean.
func (r *ResolvedConfig) Validate() error {
	var errs ValidationErrors
	for _, v := range []ResolvedValue{r.WithBaseStyles, r.LegacyExitCodes} {
		if v.Value == "" {
			continue
		}
		if _, err := strconv.ParseBool(v.Value); err != nil {
			errs = append(errs, ValidationError{
				Field:   v.Key,
				Message: fmt.Sprintf("%q is not a boolean (from %s)", v.Value, v.Source),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResolveConfigPath resolves the config file path using precedence:
// --config flag > TBLX_CONFIG env > ~/.tblx/config.yaml.
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}

	rv := Resolve(ResolveOptions{
		Key:       "config",
		FlagValue: flagValue,
		FlagSet:   flagValue != "",
		EnvVar:    EnvConfig,
		Default:   paths.ConfigFile,
	})
	rv.Value = ExpandTilde(rv.Value)
	return rv, nil
}

// ResolveAll resolves every configuration value.
func ResolveAll(opts ResolveAllOptions) (*ResolvedConfig, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}

	configPath, err := ResolveConfigPath(opts.ConfigFlag)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		ConfigPath: configPath,
		Registry: Resolve(ResolveOptions{
			Key:         "registry",
			FlagValue:   opts.RegistryFlag,
			FlagSet:     opts.RegistryFlag != "",
			EnvVar:      EnvRegistry,
			ConfigValue: cfg.Registry,
			Default:     DefaultManifestPath("registry.json"),
		}),
		Prefix: Resolve(ResolveOptions{
			Key:         "prefix",
			FlagValue:   opts.PrefixFlag,
			FlagSet:     opts.PrefixFlag != "",
			EnvVar:      EnvPrefix,
			ConfigValue: cfg.Prefix,
			Default:     DefaultConfig().Prefix,
		}),
		Dir: Resolve(ResolveOptions{
			Key:         "dir",
			FlagValue:   opts.DirFlag,
			FlagSet:     opts.DirFlagSet,
			EnvVar:      EnvDir,
			ConfigValue: cfg.Dir,
			Default:     DefaultDir,
		}),
		WithBaseStyles: Resolve(ResolveOptions{
			Key:         "withBaseStyles",
			FlagValue:   strconv.FormatBool(opts.WithBaseStylesFlag),
			FlagSet:     opts.WithBaseStylesFlagSet,
			ConfigValue: boolString(cfg.WithBaseStyles),
			Default:     "false",
		}),
		LegacyExitCodes: Resolve(ResolveOptions{
			Key:         "legacyExitCodes",
			ConfigValue: boolString(cfg.LegacyExitCodes),
			Default:     "false",
		}),
	}

	resolved.Registry.Value = ExpandTilde(resolved.Registry.Value)
	resolved.Dir.Value = ExpandTilde(resolved.Dir.Value)

	return resolved, nil
}

// boolString maps true to "true" and false to "" (unset), so a false config
// value never shadows the default.
func boolString(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
