package validate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/thoreinstein/lidator/pkg/ledger"
)

// RunOption configures a Validate call.
type RunOption func(*runConfig)

type runConfig struct {
	extraContext     map[string]any
	mapper           FieldNameMapper
	validationType   string
	logger           *slog.Logger
	logging          bool
	label            string
	includeFieldName bool
}

// WithExtraContext supplies the values validators may require by name.
func WithExtraContext(extra map[string]any) RunOption {
	return func(c *runConfig) {
		c.extraContext = extra
	}
}

// WithFieldNameMapper sets how field names are turned into display names.
func WithFieldNameMapper(m FieldNameMapper) RunOption {
	return func(c *runConfig) {
		c.mapper = m
	}
}

// WithValidationType tags every finding with a validation_type field.
func WithValidationType(t string) RunOption {
	return func(c *runConfig) {
		c.validationType = t
	}
}

// WithLogger sets the logger for debug diagnostics and enables logging.
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
		c.logging = logger != nil
	}
}

// WithLogging turns debug diagnostics on or off. Diagnostics go to
// slog.Default() unless WithLogger supplied a logger.
func WithLogging(enabled bool) RunOption {
	return func(c *runConfig) {
		c.logging = enabled
	}
}

// WithRunLabel names the run in diagnostics.
func WithRunLabel(label string) RunOption {
	return func(c *runConfig) {
		c.label = label
	}
}

// WithFieldNameInMessage controls whether field findings are prefixed with
// the display name of the field. It defaults to true.
func WithFieldNameInMessage(include bool) RunOption {
	return func(c *runConfig) {
		c.includeFieldName = include
	}
}

// Validate runs every validator in suite over root and the items providers
// expand it into, and returns the resulting ledger.
//
// Wiring problems abort the run with an error and no ledger. Findings never
// produce errors.
func Validate(root any, suite *Suite, providers Providers, opts ...RunOption) (*ledger.Ledger, error) {
	cfg := runConfig{includeFieldName: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var logger *slog.Logger
	if cfg.logging {
		logger = cfg.logger
		if logger == nil {
			logger = slog.Default()
		}
		if cfg.label != "" {
			logger = logger.With("run", cfg.label)
		}
	}

	var ledgerOpts []ledger.Option
	if cfg.validationType != "" {
		ledgerOpts = append(ledgerOpts, ledger.WithDefaults(ledger.Fields{
			ledger.KeyValidationType: cfg.validationType,
		}))
	}
	if logger != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithLogger(logger))
	}
	l := ledger.New(ledgerOpts...)

	if suite == nil {
		return l, nil
	}

	normalizer := NewNormalizer(l, cfg.mapper, cfg.includeFieldName)
	resolver := NewResolver(root, providers)

	var applied []string
	for _, level := range suite.Levels() {
		for _, v := range suite.Validators(level) {
			valid, err := v.Run(Invocation{
				Level:        level,
				Resolver:     resolver,
				ExtraContext: cfg.extraContext,
				Normalize:    normalizer.Normalize,
			})
			if err != nil {
				return nil, err
			}

			status := "OK"
			if !valid {
				status = level.String()
			}
			applied = append(applied, fmt.Sprintf("%s %s", v.Name(), status))
		}
	}

	if logger != nil {
		logger.Debug("validate complete",
			"errors", l.ErrorCount(),
			"warnings", l.WarningCount(),
			"validators", strings.Join(applied, ", "),
		)
	}
	return l, nil
}
