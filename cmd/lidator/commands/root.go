// Package commands implements the lidator CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lidator/cmd"
	"github.com/thoreinstein/lidator/internal/config"
	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/logging"
	"github.com/thoreinstein/lidator/pkg/ledger"
)

// debugEnv raises the log level when -v is not given: 1 or true for debug,
// 2 for trace.
const debugEnv = "LIDATOR_DEBUG"

var (
	// verbosity holds the count of -v flags.
	verbosity int
	quiet     bool
	logFormat string
	logFile   string
	// configFile overrides the config search path.
	configFile string

	// cfg is the loaded configuration; configLoadErr is reported by
	// commands that need it.
	cfg           *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then the lidator config directory)")

	rootCmd.Version = cmd.ResolvedVersion()
	rootCmd.SetVersionTemplate("lidator version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "lidator",
	Short: "Validate documents against declarative rule sets",
	Long: `lidator checks YAML, JSON, TOML and Markdown frontmatter documents
against declarative YAML rule sets.

A rule set names the lists inside a document that rules run over and the
rules themselves. Every finding is recorded as an ERROR or a WARN; a
document is valid when no ERROR was recorded.`,
	Example: `  # Validate a document
  lidator validate intake.yaml --rules intake-rules.yaml

  # Check a rule set for mistakes
  lidator rules check intake-rules.yaml

  # Show the effective configuration
  lidator config list

  See Also: lidator validate, lidator rules, lidator config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pass only one of -q and -v")
	}

	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat), "Use --log-format text or --log-format json")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			switch os.Getenv(debugEnv) {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := logging.NewFormatHandler(format, cmd.ErrOrStderr(), opts)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		handler = logging.NewMultiHandler(handler, slog.NewJSONHandler(f, opts))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// loadedConfig returns the configuration after checking it. Commands that
// depend on configuration call it; version and help do not.
func loadedConfig(cmd *cobra.Command) (*config.Config, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	report, err := config.Validate(cfg)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	logger := logging.FromContext(cmd.Context())
	for _, w := range report.Warnings(true) {
		logger.Warn("config: "+w.Message, "file", config.File())
	}
	if !report.IsValid() {
		return nil, errors.NewConfigError(errors.Wrapf(errors.ErrInvalidConfig, "%s\n%s", config.File(), ledger.Format(report)))
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ReportError prints err and its suggestion to w and returns the process
// exit code.
func ReportError(w io.Writer, err error) int {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil && !errors.Is(exitErr.Err, errors.ErrValidationFailed) {
			fmt.Fprintf(w, "Error: %v\n", exitErr.Err)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintln(w, exitErr.Suggestion)
		}
		return exitErr.Code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return errors.ExitUser
}
