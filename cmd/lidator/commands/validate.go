package commands

import (
	"io"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/lidator/internal/config"
	"github.com/thoreinstein/lidator/internal/document"
	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/logging"
	"github.com/thoreinstein/lidator/internal/paths"
	"github.com/thoreinstein/lidator/internal/ruleset"
	"github.com/thoreinstein/lidator/pkg/fileutil"
	"github.com/thoreinstein/lidator/pkg/ledger"
	"github.com/thoreinstein/lidator/pkg/rules"
	"github.com/thoreinstein/lidator/pkg/validate"
)

// keyDocument tags findings with the document they were found in.
const keyDocument = "document"

var (
	validateRules          string
	validateFormat         string
	validateType           string
	validateNoFieldNames   bool
	validateNow            string
	validateOutput         string
	validateFailOnWarnings bool
	validateInputFormat    string
	validateContext        []string
)

func init() {
	validateCmd.Flags().StringVarP(&validateRules, "rules", "r", "",
		"rule set file, or the name of one in the rules directory (default: rules_file from config)")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "",
		"report format: text, json, plain, grouped (default: output_format from config)")
	validateCmd.Flags().StringVar(&validateType, "type", "",
		"validation type attached to every finding (default: the rule set's)")
	validateCmd.Flags().BoolVar(&validateNoFieldNames, "no-field-names", false,
		"do not prefix field findings with the field name")
	validateCmd.Flags().StringVar(&validateNow, "now", "",
		"reference time for not_after rules, RFC 3339 or YYYY-MM-DD (default: current time)")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "",
		"write the report to a file instead of stdout")
	validateCmd.Flags().BoolVar(&validateFailOnWarnings, "fail-on-warnings", false,
		"exit non-zero when warnings are reported")
	validateCmd.Flags().StringVarP(&validateInputFormat, "input-format", "i", "",
		"document format: yaml, json, toml, markdown (default: from extension)")
	validateCmd.Flags().StringArrayVar(&validateContext, "set", nil,
		"extra context value for rules that require it, as key=value (repeatable)")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <document>...",
	Short: "Validate documents against a rule set",
	Long: `Validate one or more documents against a rule set.

Documents are decoded by extension (.yaml, .yml, .json, .toml, .md) unless
--input-format is given. Use "-" to read a document from stdin; stdin needs
--input-format.

Findings from all documents are reported together. Each finding carries
the document it was found in.

Exit codes:
  0 - Valid (warnings OK unless --fail-on-warnings)
  1 - Usage, configuration or rule set error
  2 - System error
  3 - A document is invalid`,
	Example: `  # Validate a document
  lidator validate intake.yaml --rules intake-rules.yaml

  # Use a rule set from the rules directory by name
  lidator validate intake.yaml -r intake

  # JSON report for CI
  lidator validate a.yaml b.yaml -r intake --format json

  # Pin the reference date for not_after rules
  lidator validate intake.yaml -r intake --now 2026-01-01

  See Also: lidator rules check, lidator config`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

// validateRun is the resolved configuration of one validate invocation.
type validateRun struct {
	rules          string
	format         ledger.ReportFormat
	validationType string
	fieldNames     bool
	failOnWarnings bool
	inputFormat    document.Format
	context        map[string]any
}

func runValidate(cmd *cobra.Command, args []string) error {
	c, err := loadedConfig(cmd)
	if err != nil {
		return err
	}
	run, err := resolveValidateRun(c)
	if err != nil {
		return err
	}

	rs, err := loadRuleSet(run.rules)
	if err != nil {
		return err
	}
	suite, providers, err := ruleset.Build(rs)
	if err != nil {
		return errors.NewUserError(err, "Run: lidator rules check "+rs.Path)
	}
	if run.validationType == "" {
		run.validationType = rs.ValidationType
	}

	report, err := validateDocuments(cmd, run, suite, providers, args)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), run.format, report); err != nil {
		return errors.NewSystemError(err, "Check the --output path")
	}

	if !report.IsValid() || (run.failOnWarnings && report.WarningCount() > 0) {
		return errors.NewInvalidError(errors.ErrValidationFailed)
	}
	return nil
}

// resolveValidateRun merges flags over configuration.
func resolveValidateRun(c *config.Config) (*validateRun, error) {
	run := &validateRun{
		rules:          validateRules,
		format:         ledger.ReportFormat(validateFormat),
		validationType: validateType,
		fieldNames:     c.IncludeFieldName && !validateNoFieldNames,
		failOnWarnings: c.FailOnWarnings || validateFailOnWarnings,
		context:        map[string]any{},
	}
	if run.validationType == "" {
		run.validationType = c.ValidationType
	}

	if run.rules == "" {
		run.rules = c.RulesFile
	}
	if run.rules == "" {
		return nil, errors.NewUserError(errors.New("no rule set given"),
			"Pass --rules, or run: lidator config set rules_file <path>")
	}

	if run.format == "" {
		run.format = ledger.ReportFormat(c.OutputFormat)
	}
	if !ledger.ValidReportFormat(string(run.format)) {
		return nil, errors.NewUserError(errors.Wrapf(errors.ErrUnsupportedFormat, "report format %q", run.format),
			"Use one of: text, json, plain, grouped")
	}

	if validateInputFormat != "" {
		f, err := document.ParseFormat(validateInputFormat)
		if err != nil {
			return nil, errors.NewUserError(err, "Use one of: yaml, json, toml, markdown")
		}
		run.inputFormat = f
	}

	for _, kv := range validateContext {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, errors.NewUserError(errors.Newf("invalid --set %q", kv), "Use --set key=value")
		}
		run.context[key] = value
	}

	now := time.Now().UTC()
	if validateNow != "" {
		t, err := rules.ParseDate(validateNow)
		if err != nil {
			return nil, errors.NewUserError(errors.Wrap(err, "--now"), "Use RFC 3339 or YYYY-MM-DD")
		}
		now = t
	}
	run.context[ruleset.ContextNow] = now

	return run, nil
}

// loadRuleSet resolves nameOrPath against the rules directory and loads it.
// Rule-set warnings are logged.
func loadRuleSet(nameOrPath string) (*ruleset.RuleSet, error) {
	p, err := paths.ExpandHome(nameOrPath)
	if err != nil {
		return nil, errors.NewUserError(err, "")
	}
	p, err = ruleset.Resolve(p, paths.RulesDir())
	if err != nil {
		return nil, errors.NewUserError(err, "Run: lidator rules list")
	}
	rs, err := ruleset.Load(p)
	if err != nil {
		return nil, errors.NewUserError(err, "Run: lidator rules check "+p)
	}
	return rs, nil
}

func validateDocuments(cmd *cobra.Command, run *validateRun, suite *validate.Suite, providers validate.Providers, args []string) (*ledger.Ledger, error) {
	logger := logging.FromContext(cmd.Context())

	ledgers := make([]*ledger.Ledger, 0, len(args))
	for _, path := range args {
		doc, err := document.Load(path, run.inputFormat, cmd.InOrStdin())
		if err != nil {
			return nil, errors.NewUserError(err, "Check the document path and --input-format")
		}

		label := uuid.NewString()
		logger.Debug("validating document", "document", path, "run", label, "format", doc.Format)

		l, err := validate.Validate(doc.Data, suite, providers,
			validate.WithExtraContext(maps.Clone(run.context)),
			validate.WithValidationType(run.validationType),
			validate.WithFieldNameInMessage(run.fieldNames),
			validate.WithLogger(logger),
			validate.WithRunLabel(label),
		)
		if err != nil {
			return nil, errors.NewUserError(err, "The rule set does not fit this document")
		}

		tagged, err := tagDocument(l, path)
		if err != nil {
			return nil, errors.NewSystemError(err, "")
		}
		ledgers = append(ledgers, tagged)
	}

	return ledger.Merge(ledgers...)
}

// tagDocument copies l into a ledger whose records name the document.
func tagDocument(l *ledger.Ledger, path string) (*ledger.Ledger, error) {
	tagged := ledger.New(ledger.WithDefaults(ledger.Fields{keyDocument: path}))
	for _, r := range l.FullResults() {
		if err := tagged.AddObject(r); err != nil {
			return nil, err
		}
	}
	return tagged, nil
}

// writeReport writes to --output atomically, or to out.
func writeReport(out io.Writer, format ledger.ReportFormat, l *ledger.Ledger) error {
	if validateOutput == "" || validateOutput == fileutil.Stdin {
		return ledger.NewReporter(out, format).Report(l)
	}
	return fileutil.AtomicWrite(validateOutput, 0o644, func(w io.Writer) error {
		return ledger.NewReporter(w, format).Report(l)
	})
}

