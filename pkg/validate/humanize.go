package validate

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldNameMapper returns the display name for a field of the validated row.
// Returning false falls back to Humanize.
type FieldNameMapper func(row any, field string) (string, bool)

// Humanize turns a snake_case or kebab-case field name into Title Case.
// Letters after the first of each word keep their case, so acronyms survive.
//
//	Humanize("date_of_birth") // "Date Of Birth"
//	Humanize("api_URL")       // "Api URL"
func Humanize(field string) string {
	words := strings.FieldsFunc(field, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	// Casers are stateful; build one per call.
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}

// HumanizeFieldName is the default FieldNameMapper.
func HumanizeFieldName(_ any, field string) (string, bool) {
	return Humanize(field), true
}
