package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// Loader reads the config file. Environment variables and flags are applied
// afterwards by ResolveAll so each value's source can be reported.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load loads configuration from the given file path. A missing file yields
// an empty Config and no error.
func (l *Loader) Load(configFile string) (*Config, error) {
	l.v.SetConfigFile(ExpandTilde(configFile))
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// FileExists checks if the config file exists.
func FileExists(configFile string) (bool, error) {
	_, err := os.Stat(ExpandTilde(configFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
