package config

import (
	"os"
	"strings"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/paths"
	"github.com/thoreinstein/lidator/pkg/ledger"
	"github.com/thoreinstein/lidator/pkg/rules"
	"github.com/thoreinstein/lidator/pkg/validate"
)

var (
	checkVersion = validate.New("config_version", validate.Check(func(c *Config, _ validate.Args) validate.Result {
		if c.Version < 1 {
			return validate.FieldErrors(validate.Field(KeyVersion, "must be >= 1"))
		}
		return nil
	}))

	checkOutputFormat = validate.New("config_output_format", validate.Check(func(c *Config, _ validate.Args) validate.Result {
		formats := make([]string, 0, len(ledger.ReportFormats()))
		for _, f := range ledger.ReportFormats() {
			formats = append(formats, string(f))
		}
		return rules.OneOf(c, KeyOutputFormat, formats...)
	}))

	checkRulesPath = validate.New("config_rules_file_path", validate.Check(func(c *Config, _ validate.Args) validate.Result {
		if strings.ContainsRune(c.RulesFile, '\x00') {
			return validate.FieldErrors(validate.Field(KeyRulesFile, "is not a valid path"))
		}
		return nil
	}))

	checkRulesExists = validate.New("config_rules_file_exists", validate.Check(func(c *Config, _ validate.Args) validate.Result {
		if c.RulesFile == "" || strings.ContainsRune(c.RulesFile, '\x00') {
			return nil
		}
		p, err := paths.ExpandHome(c.RulesFile)
		if err != nil {
			return validate.FieldErrors(validate.Field(KeyRulesFile, err.Error()))
		}
		if _, err := os.Stat(p); err != nil {
			return validate.FieldErrors(validate.Field(KeyRulesFile, "does not exist: "+p))
		}
		return nil
	}), validate.Affects(KeyRulesFile))

	suite = validate.NewSuite().
		MustRegister(ledger.LevelError, checkVersion, checkOutputFormat, checkRulesPath).
		MustRegister(ledger.LevelWarn, checkRulesExists)
)

// keyName shows configuration keys as they are written in the file.
func keyName(_ any, field string) (string, bool) {
	return field, true
}

// Validate checks cfg and returns the findings. Errors make the
// configuration unusable; warnings point at settings that will likely fail
// later.
func Validate(cfg *Config) (*ledger.Ledger, error) {
	if cfg == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "config is nil")
	}
	return validate.Validate(cfg, suite, nil,
		validate.WithFieldNameMapper(keyName),
		validate.WithValidationType("config"),
	)
}
