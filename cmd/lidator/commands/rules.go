package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/paths"
	"github.com/thoreinstein/lidator/internal/ruleset"
	"github.com/thoreinstein/lidator/pkg/ledger"
)

var (
	rulesListJSON    bool
	rulesCheckFmt    string
	rulesCheckStrict bool
)

// findRuleSet picks a rule set interactively. Tests replace it.
var findRuleSet = func(sets []*ruleset.RuleSet) (int, error) {
	return fuzzyfinder.Find(
		sets,
		func(i int) string {
			return ruleSetName(sets[i])
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return previewRuleSet(sets[i])
		}),
	)
}

func init() {
	rulesListCmd.Flags().BoolVar(&rulesListJSON, "json", false, "output in JSON format")
	rulesCheckCmd.Flags().StringVarP(&rulesCheckFmt, "format", "f", string(ledger.FormatText),
		"report format: text, json, plain, grouped")
	rulesCheckCmd.Flags().BoolVar(&rulesCheckStrict, "strict", false, "treat warnings as errors")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rulesCmd.AddCommand(rulesPickCmd)
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect rule sets",
	Long: `Inspect rule sets.

Rule sets are YAML files. A rule set may be given by path, or by name when
it lives in the rules directory (` + "`<config dir>/rules`" + `).`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list [rule set]",
	Short: "List rule sets, or the rules of one",
	Long: `Without an argument, list the rule sets in the rules directory.
With one, list its rules.`,
	Example: `  # Rule sets in the rules directory
  lidator rules list

  # Rules of one rule set
  lidator rules list intake

  See Also: lidator rules check`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listRuleSets(cmd.OutOrStdout(), paths.RulesDir())
		}
		rs, err := loadRuleSet(args[0])
		if err != nil {
			return err
		}
		return listRules(cmd.OutOrStdout(), rs)
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <rule set>",
	Short: "Check a rule set for mistakes",
	Long: `Check a rule set for mistakes such as unknown checks, bad levels,
missing fields and providers no rule uses.

Exit codes:
  0 - Usable (warnings OK unless --strict)
  1 - Rule set could not be read
  3 - Rule set has errors`,
	Example: `  lidator rules check intake-rules.yaml
  lidator rules check intake --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ledger.ValidReportFormat(rulesCheckFmt) {
			return errors.NewUserError(errors.Wrapf(errors.ErrUnsupportedFormat, "report format %q", rulesCheckFmt),
				"Use one of: text, json, plain, grouped")
		}
		rs, err := loadRuleSet(args[0])
		if err != nil {
			return err
		}
		report, err := ruleset.Check(rs)
		if err != nil {
			return errors.NewSystemError(err, "")
		}
		if err := ledger.NewReporter(cmd.OutOrStdout(), ledger.ReportFormat(rulesCheckFmt)).Report(report); err != nil {
			return errors.NewSystemError(err, "")
		}
		if !report.IsValid() || (rulesCheckStrict && report.WarningCount() > 0) {
			return errors.NewInvalidError(errors.ErrValidationFailed)
		}
		return nil
	},
}

var rulesPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a rule set interactively and print its path",
	Long: `Choose a rule set from the rules directory with a fuzzy finder and
print its path, for use in scripts:

  lidator validate doc.yaml --rules "$(lidator rules pick)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return pickRuleSet(cmd.OutOrStdout(), paths.RulesDir())
	},
}

// ruleSetName is the file name of rs without its extension.
func ruleSetName(rs *ruleset.RuleSet) string {
	base := filepath.Base(rs.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func discoverRuleSets(dir string) ([]*ruleset.RuleSet, error) {
	files, err := ruleset.Discover(dir)
	if err != nil {
		return nil, errors.NewSystemError(err, "")
	}
	sets := make([]*ruleset.RuleSet, 0, len(files))
	for _, f := range files {
		rs, err := ruleset.Load(f)
		if err != nil {
			return nil, errors.NewUserError(err, "Run: lidator rules check "+f)
		}
		sets = append(sets, rs)
	}
	return sets, nil
}

// ruleSetInfo is the JSON shape of a listed rule set.
type ruleSetInfo struct {
	Name           string `json:"name"`
	Path           string `json:"path"`
	ValidationType string `json:"validation_type"`
	Rules          int    `json:"rules"`
}

func listRuleSets(w io.Writer, dir string) error {
	sets, err := discoverRuleSets(dir)
	if err != nil {
		return err
	}

	if rulesListJSON {
		infos := make([]ruleSetInfo, len(sets))
		for i, rs := range sets {
			infos[i] = ruleSetInfo{Name: ruleSetName(rs), Path: rs.Path, ValidationType: rs.ValidationType, Rules: len(rs.Rules)}
		}
		return encodeJSON(w, infos)
	}

	if len(sets) == 0 {
		fmt.Fprintf(w, "No rule sets in %s\n", dir)
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", bold("NAME"), bold("TYPE"), bold("RULES"))
	for _, rs := range sets {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", color.GreenString(ruleSetName(rs)), rs.ValidationType, len(rs.Rules))
	}
	return errors.Wrap(tw.Flush(), "writing rule sets")
}

func listRules(w io.Writer, rs *ruleset.RuleSet) error {
	if rulesListJSON {
		return encodeJSON(w, rs.Rules)
	}

	bold := color.New(color.Bold).SprintFunc()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", bold("NAME"), bold("LEVEL"), bold("OF"), bold("CHECK"), bold("FIELDS"))
	for _, r := range rs.Rules {
		level := r.Level
		if level == "" {
			level = string(ledger.LevelError)
		}
		of := r.Of
		if of == "" {
			of = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", color.GreenString(r.Name), level, of, r.Check, strings.Join(r.Fields, ", "))
	}
	return errors.Wrap(tw.Flush(), "writing rules")
}

func pickRuleSet(w io.Writer, dir string) error {
	sets, err := discoverRuleSets(dir)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "no rule sets in %s", dir), "Add a rule set file to "+dir)
	}

	idx, err := findRuleSet(sets)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.NewSystemError(errors.Wrap(err, "interactive pick failed"), "")
	}

	fmt.Fprintln(w, sets[idx].Path)
	return nil
}

func previewRuleSet(rs *ruleset.RuleSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nType: %s\nPath: %s\n", ruleSetName(rs), rs.ValidationType, rs.Path)
	if rs.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", rs.Description)
	}
	sb.WriteString("\nRules:\n")
	for _, r := range rs.Rules {
		fmt.Fprintf(&sb, "  %s (%s)\n", r.Name, r.Check)
	}
	return sb.String()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}
