package ledger

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// noDescription stands in for a record without a description.
const noDescription = "(no description)"

// ValidText is what Format renders for a ledger without errors.
const ValidText = "is valid."

// Format renders the ledger as plain text, one line per record:
//
//	LEVEL description message key=value, key=value
//
// Remaining keys are sorted. A valid ledger renders as ValidText.
func Format(l *Ledger) string {
	if l.IsValid() {
		return ValidText
	}

	lines := make([]string, 0, len(l.records))
	for _, r := range l.records {
		lines = append(lines, FormatRecord(r))
	}
	return strings.Join(lines, "\n")
}

// FormatRecord renders a single record the way Format does.
func FormatRecord(r Record) string {
	m := r.Map()
	delete(m, KeyLevel)
	delete(m, KeyMessage)

	desc := noDescription
	if d, ok := r.Description(); ok {
		desc = d
	}
	delete(m, KeyDescription)

	rest := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		rest = append(rest, fmt.Sprintf("%s=%v", k, m[k]))
	}

	line := fmt.Sprintf("%s %s %s %s", r.Level, desc, r.Message, strings.Join(rest, ", "))
	return strings.TrimRight(line, " ")
}
