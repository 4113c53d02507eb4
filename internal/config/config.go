package config

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/paths"
	"github.com/thoreinstein/lidator/pkg/fileutil"
	"github.com/thoreinstein/lidator/pkg/ledger"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "LIDATOR"

// Configuration keys.
const (
	KeyVersion          = "version"
	KeyValidationType   = "validation_type"
	KeyIncludeFieldName = "include_field_name_in_message"
	KeyOutputFormat     = "output_format"
	KeyFailOnWarnings   = "fail_on_warnings"
	KeyRulesFile        = "rules_file"
)

// ErrUnknownKey indicates a configuration key lidator does not define.
var ErrUnknownKey = errors.New("unknown configuration key")

// Config represents the configuration file.
type Config struct {
	Version          int    `mapstructure:"version" yaml:"version"`
	ValidationType   string `mapstructure:"validation_type" yaml:"validation_type"`
	IncludeFieldName bool   `mapstructure:"include_field_name_in_message" yaml:"include_field_name_in_message"`
	OutputFormat     string `mapstructure:"output_format" yaml:"output_format"`
	FailOnWarnings   bool   `mapstructure:"fail_on_warnings" yaml:"fail_on_warnings"`
	RulesFile        string `mapstructure:"rules_file" yaml:"rules_file"`
}

var defaults = map[string]any{
	KeyVersion:          1,
	KeyValidationType:   "",
	KeyIncludeFieldName: true,
	KeyOutputFormat:     string(ledger.FormatText),
	KeyFailOnWarnings:   false,
	KeyRulesFile:        "",
}

// Keys returns every configuration key in sorted order.
func Keys() []string {
	return slices.Sorted(maps.Keys(defaults))
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:          1,
		IncludeFieldName: true,
		OutputFormat:     string(ledger.FormatText),
	}
}

// Init registers search paths, environment overrides and defaults with
// Viper. Call it once at startup before Load.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// Load reads the configuration. An explicit path must exist; without one a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

// Current returns the configuration Viper holds now, including overrides.
func Current() *Config {
	return &Config{
		Version:          viper.GetInt(KeyVersion),
		ValidationType:   viper.GetString(KeyValidationType),
		IncludeFieldName: viper.GetBool(KeyIncludeFieldName),
		OutputFormat:     viper.GetString(KeyOutputFormat),
		FailOnWarnings:   viper.GetBool(KeyFailOnWarnings),
		RulesFile:        viper.GetString(KeyRulesFile),
	}
}

// Map returns the configuration keyed by configuration key.
func (c *Config) Map() map[string]any {
	return map[string]any{
		KeyVersion:          c.Version,
		KeyValidationType:   c.ValidationType,
		KeyIncludeFieldName: c.IncludeFieldName,
		KeyOutputFormat:     c.OutputFormat,
		KeyFailOnWarnings:   c.FailOnWarnings,
		KeyRulesFile:        c.RulesFile,
	}
}

// Lookup implements rules.Object over the configuration keys.
func (c *Config) Lookup(field string) (any, bool) {
	v, ok := c.Map()[field]
	return v, ok
}

// Parse converts a command-line value for key into its typed form.
func Parse(key, value string) (any, error) {
	switch key {
	case KeyVersion:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrapf(err, "%s must be an integer", key)
		}
		return n, nil
	case KeyIncludeFieldName, KeyFailOnWarnings:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Wrapf(err, "%s must be true or false", key)
		}
		return b, nil
	case KeyValidationType, KeyOutputFormat, KeyRulesFile:
		return value, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKey, "%q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
}

// Set parses value for key and stores it in Viper.
func Set(key, value string) error {
	v, err := Parse(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, v)
	return nil
}

// File returns the path Save writes to: the file Viper loaded, or the
// default location.
func File() string {
	if f := viper.ConfigFileUsed(); f != "" {
		return f
	}
	return paths.ConfigFile()
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return errors.Wrap(fileutil.AtomicWriteYAML(path, cfg), "writing config file")
}
