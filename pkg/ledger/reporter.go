package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// ReportFormat specifies the output format for ledger reports.
type ReportFormat string

const (
	// FormatText produces colorized, human-readable output.
	FormatText ReportFormat = "text"
	// FormatJSON produces a machine-readable summary with every record.
	FormatJSON ReportFormat = "json"
	// FormatPlain produces the line format of Format.
	FormatPlain ReportFormat = "plain"
	// FormatGrouped produces JSON grouped by level and field.
	FormatGrouped ReportFormat = "grouped"
)

// ReportFormats returns the supported report formats.
func ReportFormats() []ReportFormat {
	return []ReportFormat{FormatText, FormatJSON, FormatPlain, FormatGrouped}
}

// ValidReportFormat reports whether f is a supported format.
func ValidReportFormat(f string) bool {
	return slices.Contains(ReportFormats(), ReportFormat(f))
}

// Summary is the JSON shape written by FormatJSON.
type Summary struct {
	Valid        bool     `json:"valid"`
	ErrorCount   int      `json:"error_count"`
	WarningCount int      `json:"warning_count"`
	Results      []Record `json:"results"`
}

// Summarize builds the JSON summary of a ledger.
func Summarize(l *Ledger) Summary {
	results := l.FullResults()
	if results == nil {
		results = []Record{}
	}
	return Summary{
		Valid:        l.IsValid(),
		ErrorCount:   len(l.Errors(true)),
		WarningCount: len(l.Warnings(true)),
		Results:      results,
	}
}

// Reporter formats and writes ledgers.
type Reporter struct {
	out    io.Writer
	format ReportFormat
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format ReportFormat) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the ledger to the output.
func (r *Reporter) Report(l *Ledger) error {
	if l == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.encode(Summarize(l))
	case FormatGrouped:
		return r.encode(l.GroupedByLevelAndField())
	case FormatPlain:
		_, err := fmt.Fprintln(r.out, Format(l))
		return errors.Wrap(err, "writing plain report")
	default:
		return r.reportText(l)
	}
}

func (r *Reporter) encode(v any) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(v), "encoding JSON report")
}

// reportText writes the ledger as human-readable text.
func (r *Reporter) reportText(l *Ledger) error {
	errs := l.Errors(true)
	warnings := l.Warnings(true)

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed"))
		return nil
	}

	summary := []string{}
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}

	if l.IsValid() {
		fmt.Fprintf(r.out, "Validation passed with %s\n\n", strings.Join(summary, ", "))
	} else {
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))
	}

	if len(errs) > 0 {
		fmt.Fprintln(r.out, "Errors:")
		for _, rec := range errs {
			r.printRecord(rec, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		for _, rec := range warnings {
			r.printRecord(rec, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}

	return nil
}

func (r *Reporter) printRecord(rec Record, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	// Format:  • [description] message (context)

	var sb strings.Builder
	sb.WriteString("  • ")

	if desc, ok := rec.Description(); ok {
		sb.WriteString(printer(desc))
		sb.WriteString(" ")
	}

	sb.WriteString(rec.Message)

	ctx := maps.Clone(rec.Extra)
	delete(ctx, KeyDescription)
	if rec.Field != "" {
		if ctx == nil {
			ctx = Fields{}
		}
		ctx[KeyField] = rec.Field
	}
	if len(ctx) > 0 {
		var ctxParts []string
		for _, k := range slices.Sorted(maps.Keys(ctx)) {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, ctx[k]))
		}

		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", strings.Join(ctxParts, ", ")))
	}

	fmt.Fprintln(r.out, sb.String())
}
